package lucendra

import "encoding/json"

// Condition is a search predicate sent to the index engine as a tagged JSON
// object. The set of implementations is closed; every variant carries its
// discriminator via conditionType and serializes through the shared codec.
//
// Variants are built with their New* constructor and configured with fluent
// mutators that return the receiver. A condition under construction belongs
// to a single goroutine; once handed to the codec it must be treated as
// read-only.
type Condition interface {
	json.Marshaler
	conditionType() string
}

// Condition discriminators.
const (
	typeAll         = "all"
	typeMatch       = "match"
	typePrefix      = "prefix"
	typeWildcard    = "wildcard"
	typeRange       = "range"
	typeBoolean     = "boolean"
	typeGeoDistance = "geo_distance"
	typeGeoShape    = "geo_shape"
)

// AllCondition matches every indexed row.
type AllCondition struct {
	boost *float64
}

// NewAll creates a condition matching all rows.
func NewAll() *AllCondition {
	return &AllCondition{}
}

// Boost sets the relevance weight of this condition.
func (c *AllCondition) Boost(boost float64) *AllCondition {
	c.boost = &boost
	return c
}

func (c *AllCondition) conditionType() string { return typeAll }

// MatchCondition matches rows whose field equals the given value.
type MatchCondition struct {
	field string
	value any
	boost *float64
}

// NewMatch creates a match condition on the given field and value.
func NewMatch(field string, value any) (*MatchCondition, error) {
	if field == "" {
		return nil, errFieldRequired(typeMatch)
	}
	if value == nil {
		return nil, errRequired(typeMatch, "value")
	}
	return &MatchCondition{field: field, value: value}, nil
}

// Boost sets the relevance weight of this condition.
func (c *MatchCondition) Boost(boost float64) *MatchCondition {
	c.boost = &boost
	return c
}

func (c *MatchCondition) conditionType() string { return typeMatch }

// PrefixCondition matches rows whose field starts with the given value.
type PrefixCondition struct {
	field string
	value string
	boost *float64
}

// NewPrefix creates a prefix condition on the given field.
func NewPrefix(field, value string) (*PrefixCondition, error) {
	if field == "" {
		return nil, errFieldRequired(typePrefix)
	}
	if value == "" {
		return nil, errRequired(typePrefix, "value")
	}
	return &PrefixCondition{field: field, value: value}, nil
}

// Boost sets the relevance weight of this condition.
func (c *PrefixCondition) Boost(boost float64) *PrefixCondition {
	c.boost = &boost
	return c
}

func (c *PrefixCondition) conditionType() string { return typePrefix }

// WildcardCondition matches rows whose field matches a glob-like pattern
// where ? stands for one character and * for zero or more.
type WildcardCondition struct {
	field string
	value string
	boost *float64
}

// NewWildcard creates a wildcard condition on the given field.
func NewWildcard(field, value string) (*WildcardCondition, error) {
	if field == "" {
		return nil, errFieldRequired(typeWildcard)
	}
	if value == "" {
		return nil, errRequired(typeWildcard, "value")
	}
	return &WildcardCondition{field: field, value: value}, nil
}

// Boost sets the relevance weight of this condition.
func (c *WildcardCondition) Boost(boost float64) *WildcardCondition {
	c.boost = &boost
	return c
}

func (c *WildcardCondition) conditionType() string { return typeWildcard }

// RangeCondition matches rows whose field falls inside an interval. Both
// bounds are optional; an unset bound leaves that side open.
type RangeCondition struct {
	field        string
	lower        any
	upper        any
	includeLower *bool
	includeUpper *bool
	boost        *float64
}

// NewRange creates a range condition on the given field with no bounds set.
func NewRange(field string) (*RangeCondition, error) {
	if field == "" {
		return nil, errFieldRequired(typeRange)
	}
	return &RangeCondition{field: field}, nil
}

// Lower sets the lower bound of the interval.
func (c *RangeCondition) Lower(value any) *RangeCondition {
	c.lower = value
	return c
}

// Upper sets the upper bound of the interval.
func (c *RangeCondition) Upper(value any) *RangeCondition {
	c.upper = value
	return c
}

// IncludeLower sets whether the lower bound itself matches.
func (c *RangeCondition) IncludeLower(include bool) *RangeCondition {
	c.includeLower = &include
	return c
}

// IncludeUpper sets whether the upper bound itself matches.
func (c *RangeCondition) IncludeUpper(include bool) *RangeCondition {
	c.includeUpper = &include
	return c
}

// Boost sets the relevance weight of this condition.
func (c *RangeCondition) Boost(boost float64) *RangeCondition {
	c.boost = &boost
	return c
}

func (c *RangeCondition) conditionType() string { return typeRange }

// BooleanCondition combines child conditions with must/should/not semantics.
type BooleanCondition struct {
	must   []Condition
	should []Condition
	not    []Condition
	boost  *float64
}

// NewBool creates an empty boolean condition.
func NewBool() *BooleanCondition {
	return &BooleanCondition{}
}

// Must appends conditions that all matched rows must satisfy.
func (c *BooleanCondition) Must(conditions ...Condition) *BooleanCondition {
	c.must = append(c.must, conditions...)
	return c
}

// Should appends conditions that improve the score of matched rows.
func (c *BooleanCondition) Should(conditions ...Condition) *BooleanCondition {
	c.should = append(c.should, conditions...)
	return c
}

// Not appends conditions that matched rows must not satisfy.
func (c *BooleanCondition) Not(conditions ...Condition) *BooleanCondition {
	c.not = append(c.not, conditions...)
	return c
}

// Boost sets the relevance weight of this condition.
func (c *BooleanCondition) Boost(boost float64) *BooleanCondition {
	c.boost = &boost
	return c
}

func (c *BooleanCondition) conditionType() string { return typeBoolean }

// GeoDistanceCondition matches rows whose geo point field lies within a
// distance range of a center point. Distances are strings such as "10km";
// their syntax is owned by the engine and not validated here.
type GeoDistanceCondition struct {
	field       string
	latitude    float64
	longitude   float64
	maxDistance string
	minDistance string
	boost       *float64
}

// NewGeoDistance creates a geo distance condition around the given center.
func NewGeoDistance(field string, latitude, longitude float64, maxDistance string) (*GeoDistanceCondition, error) {
	if field == "" {
		return nil, errFieldRequired(typeGeoDistance)
	}
	if maxDistance == "" {
		return nil, errRequired(typeGeoDistance, "max_distance")
	}
	return &GeoDistanceCondition{
		field:       field,
		latitude:    latitude,
		longitude:   longitude,
		maxDistance: maxDistance,
	}, nil
}

// MinDistance sets the minimum distance from the center point.
func (c *GeoDistanceCondition) MinDistance(distance string) *GeoDistanceCondition {
	c.minDistance = distance
	return c
}

// Boost sets the relevance weight of this condition.
func (c *GeoDistanceCondition) Boost(boost float64) *GeoDistanceCondition {
	c.boost = &boost
	return c
}

func (c *GeoDistanceCondition) conditionType() string { return typeGeoDistance }

// GeoShapeCondition matches rows whose geo shape field relates spatially to
// a shape given in WKT. The shape is opaque to this package: the engine
// parses and validates it, as well as the operation name.
type GeoShapeCondition struct {
	field           string
	shape           string
	operation       string
	transformations []GeoTransformation
	boost           *float64
}

// NewGeoShape creates a geo shape condition on the given field. The shape
// is a WKT string passed through verbatim.
func NewGeoShape(field, shape string) (*GeoShapeCondition, error) {
	if field == "" {
		return nil, errFieldRequired(typeGeoShape)
	}
	if shape == "" {
		return nil, errRequired(typeGeoShape, "shape")
	}
	// The transformation pipeline starts out empty but present, so it is
	// emitted as [] rather than omitted.
	return &GeoShapeCondition{
		field:           field,
		shape:           shape,
		transformations: []GeoTransformation{},
	}, nil
}

// Operation sets the name of the spatial relation to apply (for example
// "intersects" or "contains"). Overwrites any prior value.
func (c *GeoShapeCondition) Operation(operation string) *GeoShapeCondition {
	c.operation = operation
	return c
}

// Transform appends transformations to the pipeline applied to the shape
// before the operation is evaluated. Append order is preserved across
// calls; calling with no arguments is a no-op.
func (c *GeoShapeCondition) Transform(transformations ...GeoTransformation) *GeoShapeCondition {
	c.transformations = append(c.transformations, transformations...)
	return c
}

// Boost sets the relevance weight of this condition.
func (c *GeoShapeCondition) Boost(boost float64) *GeoShapeCondition {
	c.boost = &boost
	return c
}

func (c *GeoShapeCondition) conditionType() string { return typeGeoShape }
