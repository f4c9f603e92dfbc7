package lucendra

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// Wire representations. Field order here is the field order on the wire,
// which keeps encoding deterministic: encoding the same unmutated value
// twice yields byte-identical output. Optional fields that were never set
// are omitted entirely, never emitted as null. The one exception is the
// geo_shape transformation pipeline, which is present from construction and
// therefore always emitted, as [] when empty.

type allWire struct {
	Type  string   `json:"type"`
	Boost *float64 `json:"boost,omitempty"`
}

type matchWire struct {
	Type  string   `json:"type"`
	Field string   `json:"field"`
	Value any      `json:"value"`
	Boost *float64 `json:"boost,omitempty"`
}

type prefixWire struct {
	Type  string   `json:"type"`
	Field string   `json:"field"`
	Value string   `json:"value"`
	Boost *float64 `json:"boost,omitempty"`
}

type wildcardWire struct {
	Type  string   `json:"type"`
	Field string   `json:"field"`
	Value string   `json:"value"`
	Boost *float64 `json:"boost,omitempty"`
}

type rangeWire struct {
	Type         string   `json:"type"`
	Field        string   `json:"field"`
	Lower        any      `json:"lower,omitempty"`
	Upper        any      `json:"upper,omitempty"`
	IncludeLower *bool    `json:"include_lower,omitempty"`
	IncludeUpper *bool    `json:"include_upper,omitempty"`
	Boost        *float64 `json:"boost,omitempty"`
}

type booleanWire struct {
	Type   string      `json:"type"`
	Must   []Condition `json:"must,omitempty"`
	Should []Condition `json:"should,omitempty"`
	Not    []Condition `json:"not,omitempty"`
	Boost  *float64    `json:"boost,omitempty"`
}

type geoDistanceWire struct {
	Type        string   `json:"type"`
	Field       string   `json:"field"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	MaxDistance string   `json:"max_distance"`
	MinDistance string   `json:"min_distance,omitempty"`
	Boost       *float64 `json:"boost,omitempty"`
}

type geoShapeWire struct {
	Type            string              `json:"type"`
	Field           string              `json:"field"`
	Shape           string              `json:"shape"`
	Operation       string              `json:"operation,omitempty"`
	Transformations []GeoTransformation `json:"transformations"`
	Boost           *float64            `json:"boost,omitempty"`
}

type bufferWire struct {
	Type        string `json:"type"`
	MinDistance string `json:"min_distance,omitempty"`
	MaxDistance string `json:"max_distance,omitempty"`
}

type taggedWire struct {
	Type string `json:"type"`
}

type tokenWire struct {
	Type       string   `json:"type"`
	Partitions int      `json:"partitions"`
	Paths      []string `json:"paths,omitempty"`
}

type columnWire struct {
	Type       string   `json:"type"`
	Partitions int      `json:"partitions"`
	Column     string   `json:"column"`
	Paths      []string `json:"paths,omitempty"`
}

type vnodeWire struct {
	Type   string `json:"type"`
	VNodes int    `json:"vnodes_per_partition"`
}

// isNilVariant reports whether v is nil, either directly or as a typed-nil
// pointer behind a non-nil interface. Every variant is a pointer type, so a
// nil check on the interface alone is not enough.
func isNilVariant(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// encodeCondition maps a condition to its wire form. The type switch is
// exhaustive over the closed variant set; a nil or foreign implementation
// is a programming error and surfaces as one.
func encodeCondition(c Condition) ([]byte, error) {
	if isNilVariant(c) {
		return nil, errors.New("lucendra: encode condition: nil condition")
	}
	switch v := c.(type) {
	case *AllCondition:
		return json.Marshal(allWire{Type: typeAll, Boost: v.boost})
	case *MatchCondition:
		return json.Marshal(matchWire{Type: typeMatch, Field: v.field, Value: v.value, Boost: v.boost})
	case *PrefixCondition:
		return json.Marshal(prefixWire{Type: typePrefix, Field: v.field, Value: v.value, Boost: v.boost})
	case *WildcardCondition:
		return json.Marshal(wildcardWire{Type: typeWildcard, Field: v.field, Value: v.value, Boost: v.boost})
	case *RangeCondition:
		return json.Marshal(rangeWire{
			Type:         typeRange,
			Field:        v.field,
			Lower:        v.lower,
			Upper:        v.upper,
			IncludeLower: v.includeLower,
			IncludeUpper: v.includeUpper,
			Boost:        v.boost,
		})
	case *BooleanCondition:
		for _, group := range [][]Condition{v.must, v.should, v.not} {
			if err := checkConditions(group); err != nil {
				return nil, err
			}
		}
		return json.Marshal(booleanWire{
			Type:   typeBoolean,
			Must:   v.must,
			Should: v.should,
			Not:    v.not,
			Boost:  v.boost,
		})
	case *GeoDistanceCondition:
		return json.Marshal(geoDistanceWire{
			Type:        typeGeoDistance,
			Field:       v.field,
			Latitude:    v.latitude,
			Longitude:   v.longitude,
			MaxDistance: v.maxDistance,
			MinDistance: v.minDistance,
			Boost:       v.boost,
		})
	case *GeoShapeCondition:
		for _, t := range v.transformations {
			if isNilVariant(t) {
				return nil, errors.New("lucendra: encode geo_shape: nil transformation")
			}
		}
		transformations := v.transformations
		if transformations == nil {
			// Zero-value instance built without the constructor.
			transformations = []GeoTransformation{}
		}
		return json.Marshal(geoShapeWire{
			Type:            typeGeoShape,
			Field:           v.field,
			Shape:           v.shape,
			Operation:       v.operation,
			Transformations: transformations,
			Boost:           v.boost,
		})
	default:
		return nil, fmt.Errorf("lucendra: encode condition: unsupported type %T", c)
	}
}

func checkConditions(conditions []Condition) error {
	for _, c := range conditions {
		if isNilVariant(c) {
			return errors.New("lucendra: encode condition list: nil condition")
		}
	}
	return nil
}

func encodeTransformation(t GeoTransformation) ([]byte, error) {
	if isNilVariant(t) {
		return nil, errors.New("lucendra: encode transformation: nil transformation")
	}
	switch v := t.(type) {
	case *BufferTransformation:
		return json.Marshal(bufferWire{Type: typeBuffer, MinDistance: v.minDistance, MaxDistance: v.maxDistance})
	case *CentroidTransformation:
		return json.Marshal(taggedWire{Type: typeCentroid})
	case *ConvexHullTransformation:
		return json.Marshal(taggedWire{Type: typeConvexHull})
	case *BBoxTransformation:
		return json.Marshal(taggedWire{Type: typeBBox})
	default:
		return nil, fmt.Errorf("lucendra: encode transformation: unsupported type %T", t)
	}
}

func encodePartitioner(p Partitioner) ([]byte, error) {
	// Absent partitioner, typed-nil included, means no partitioning.
	if isNilVariant(p) {
		return json.Marshal(taggedWire{Type: typeNone})
	}
	switch v := p.(type) {
	case *NonePartitioner:
		return json.Marshal(taggedWire{Type: typeNone})
	case *TokenPartitioner:
		return json.Marshal(tokenWire{Type: typeToken, Partitions: v.partitions, Paths: v.paths})
	case *ColumnPartitioner:
		return json.Marshal(columnWire{Type: typeColumn, Partitions: v.partitions, Column: v.column, Paths: v.paths})
	case *VNodePartitioner:
		return json.Marshal(vnodeWire{Type: typeVNode, VNodes: v.vnodesPerPartition})
	default:
		return nil, fmt.Errorf("lucendra: encode partitioner: unsupported type %T", p)
	}
}

// MarshalJSON implements json.Marshaler for every variant by delegating to
// the shared encoder, so nested conditions and transformations serialize
// recursively through encoding/json.

func (c *AllCondition) MarshalJSON() ([]byte, error)         { return encodeCondition(c) }
func (c *MatchCondition) MarshalJSON() ([]byte, error)       { return encodeCondition(c) }
func (c *PrefixCondition) MarshalJSON() ([]byte, error)      { return encodeCondition(c) }
func (c *WildcardCondition) MarshalJSON() ([]byte, error)    { return encodeCondition(c) }
func (c *RangeCondition) MarshalJSON() ([]byte, error)       { return encodeCondition(c) }
func (c *BooleanCondition) MarshalJSON() ([]byte, error)     { return encodeCondition(c) }
func (c *GeoDistanceCondition) MarshalJSON() ([]byte, error) { return encodeCondition(c) }
func (c *GeoShapeCondition) MarshalJSON() ([]byte, error)    { return encodeCondition(c) }

func (t *BufferTransformation) MarshalJSON() ([]byte, error)     { return encodeTransformation(t) }
func (t *CentroidTransformation) MarshalJSON() ([]byte, error)   { return encodeTransformation(t) }
func (t *ConvexHullTransformation) MarshalJSON() ([]byte, error) { return encodeTransformation(t) }
func (t *BBoxTransformation) MarshalJSON() ([]byte, error)       { return encodeTransformation(t) }

func (p *NonePartitioner) MarshalJSON() ([]byte, error)   { return encodePartitioner(p) }
func (p *TokenPartitioner) MarshalJSON() ([]byte, error)  { return encodePartitioner(p) }
func (p *ColumnPartitioner) MarshalJSON() ([]byte, error) { return encodePartitioner(p) }
func (p *VNodePartitioner) MarshalJSON() ([]byte, error)  { return encodePartitioner(p) }

// DecodeCondition reconstructs a condition from its tagged JSON form. The
// discriminator is read first, then the variant-specific fields are parsed
// and pushed through the public constructor, so decoding enforces the same
// construction validation as the builders. Unknown discriminators and
// missing required fields fail with a DecodeError; unknown extra fields are
// ignored for forward compatibility.
func DecodeCondition(data []byte) (Condition, error) {
	discriminator, err := readDiscriminator(kindCondition, data)
	if err != nil {
		return nil, err
	}

	switch discriminator {
	case typeAll:
		return decodeAll(data)
	case typeMatch:
		return decodeMatch(data)
	case typePrefix:
		return decodePrefix(data)
	case typeWildcard:
		return decodeWildcard(data)
	case typeRange:
		return decodeRange(data)
	case typeBoolean:
		return decodeBoolean(data)
	case typeGeoDistance:
		return decodeGeoDistance(data)
	case typeGeoShape:
		return decodeGeoShape(data)
	case "":
		return nil, &DecodeError{Kind: kindCondition, Field: "type", Reason: "missing discriminator"}
	default:
		return nil, unknownDiscriminator(kindCondition, discriminator)
	}
}

// DecodeTransformation reconstructs a geo transformation from its tagged
// JSON form.
func DecodeTransformation(data []byte) (GeoTransformation, error) {
	discriminator, err := readDiscriminator(kindTransformation, data)
	if err != nil {
		return nil, err
	}

	switch discriminator {
	case typeBuffer:
		var raw struct {
			MinDistance string `json:"min_distance"`
			MaxDistance string `json:"max_distance"`
		}
		if err := unmarshalVariant(kindTransformation, typeBuffer, data, &raw); err != nil {
			return nil, err
		}
		t := NewBuffer()
		if raw.MinDistance != "" {
			t.MinDistance(raw.MinDistance)
		}
		if raw.MaxDistance != "" {
			t.MaxDistance(raw.MaxDistance)
		}
		return t, nil
	case typeCentroid:
		return NewCentroid(), nil
	case typeConvexHull:
		return NewConvexHull(), nil
	case typeBBox:
		return NewBBox(), nil
	case "":
		return nil, &DecodeError{Kind: kindTransformation, Field: "type", Reason: "missing discriminator"}
	default:
		return nil, unknownDiscriminator(kindTransformation, discriminator)
	}
}

// DecodePartitioner reconstructs a partitioner from its tagged JSON form.
// A document without a discriminator decodes as NonePartitioner, mirroring
// the encode-side default.
func DecodePartitioner(data []byte) (Partitioner, error) {
	discriminator, err := readDiscriminator(kindPartitioner, data)
	if err != nil {
		return nil, err
	}

	switch discriminator {
	case typeNone, "":
		return NewNonePartitioner(), nil
	case typeToken:
		var raw struct {
			Partitions *int     `json:"partitions"`
			Paths      []string `json:"paths"`
		}
		if err := unmarshalVariant(kindPartitioner, typeToken, data, &raw); err != nil {
			return nil, err
		}
		if raw.Partitions == nil {
			return nil, missingField(kindPartitioner, typeToken, "partitions")
		}
		p, err := NewTokenPartitioner(*raw.Partitions)
		if err != nil {
			return nil, rejectedField(kindPartitioner, typeToken, "partitions", err)
		}
		if raw.Paths != nil {
			p.Paths(raw.Paths)
		}
		return p, nil
	case typeColumn:
		var raw struct {
			Partitions *int     `json:"partitions"`
			Column     *string  `json:"column"`
			Paths      []string `json:"paths"`
		}
		if err := unmarshalVariant(kindPartitioner, typeColumn, data, &raw); err != nil {
			return nil, err
		}
		if raw.Partitions == nil {
			return nil, missingField(kindPartitioner, typeColumn, "partitions")
		}
		if raw.Column == nil {
			return nil, missingField(kindPartitioner, typeColumn, "column")
		}
		p, err := NewColumnPartitioner(*raw.Partitions, *raw.Column)
		if err != nil {
			return nil, rejectedField(kindPartitioner, typeColumn, "partitions/column", err)
		}
		if raw.Paths != nil {
			p.Paths(raw.Paths)
		}
		return p, nil
	case typeVNode:
		var raw struct {
			VNodes *int `json:"vnodes_per_partition"`
		}
		if err := unmarshalVariant(kindPartitioner, typeVNode, data, &raw); err != nil {
			return nil, err
		}
		if raw.VNodes == nil {
			return nil, missingField(kindPartitioner, typeVNode, "vnodes_per_partition")
		}
		p, err := NewVNodePartitioner(*raw.VNodes)
		if err != nil {
			return nil, rejectedField(kindPartitioner, typeVNode, "vnodes_per_partition", err)
		}
		return p, nil
	default:
		return nil, unknownDiscriminator(kindPartitioner, discriminator)
	}
}

func decodeAll(data []byte) (Condition, error) {
	var raw struct {
		Boost *float64 `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, typeAll, data, &raw); err != nil {
		return nil, err
	}
	c := NewAll()
	if raw.Boost != nil {
		c.Boost(*raw.Boost)
	}
	return c, nil
}

func decodeMatch(data []byte) (Condition, error) {
	var raw struct {
		Field *string         `json:"field"`
		Value json.RawMessage `json:"value"`
		Boost *float64        `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, typeMatch, data, &raw); err != nil {
		return nil, err
	}
	if raw.Field == nil {
		return nil, missingField(kindCondition, typeMatch, "field")
	}
	value, err := decodeAnyValue(typeMatch, "value", raw.Value)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, missingField(kindCondition, typeMatch, "value")
	}
	c, err := NewMatch(*raw.Field, value)
	if err != nil {
		return nil, rejectedField(kindCondition, typeMatch, "field", err)
	}
	if raw.Boost != nil {
		c.Boost(*raw.Boost)
	}
	return c, nil
}

func decodePrefix(data []byte) (Condition, error) {
	raw, err := decodeFieldValue(typePrefix, data)
	if err != nil {
		return nil, err
	}
	c, err := NewPrefix(raw.field, raw.value)
	if err != nil {
		return nil, rejectedField(kindCondition, typePrefix, "field/value", err)
	}
	if raw.boost != nil {
		c.Boost(*raw.boost)
	}
	return c, nil
}

func decodeWildcard(data []byte) (Condition, error) {
	raw, err := decodeFieldValue(typeWildcard, data)
	if err != nil {
		return nil, err
	}
	c, err := NewWildcard(raw.field, raw.value)
	if err != nil {
		return nil, rejectedField(kindCondition, typeWildcard, "field/value", err)
	}
	if raw.boost != nil {
		c.Boost(*raw.boost)
	}
	return c, nil
}

func decodeRange(data []byte) (Condition, error) {
	var raw struct {
		Field        *string         `json:"field"`
		Lower        json.RawMessage `json:"lower"`
		Upper        json.RawMessage `json:"upper"`
		IncludeLower *bool           `json:"include_lower"`
		IncludeUpper *bool           `json:"include_upper"`
		Boost        *float64        `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, typeRange, data, &raw); err != nil {
		return nil, err
	}
	if raw.Field == nil {
		return nil, missingField(kindCondition, typeRange, "field")
	}
	c, err := NewRange(*raw.Field)
	if err != nil {
		return nil, rejectedField(kindCondition, typeRange, "field", err)
	}
	if lower, err := decodeAnyValue(typeRange, "lower", raw.Lower); err != nil {
		return nil, err
	} else if lower != nil {
		c.Lower(lower)
	}
	if upper, err := decodeAnyValue(typeRange, "upper", raw.Upper); err != nil {
		return nil, err
	} else if upper != nil {
		c.Upper(upper)
	}
	if raw.IncludeLower != nil {
		c.IncludeLower(*raw.IncludeLower)
	}
	if raw.IncludeUpper != nil {
		c.IncludeUpper(*raw.IncludeUpper)
	}
	if raw.Boost != nil {
		c.Boost(*raw.Boost)
	}
	return c, nil
}

func decodeBoolean(data []byte) (Condition, error) {
	var raw struct {
		Must   []json.RawMessage `json:"must"`
		Should []json.RawMessage `json:"should"`
		Not    []json.RawMessage `json:"not"`
		Boost  *float64          `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, typeBoolean, data, &raw); err != nil {
		return nil, err
	}
	c := NewBool()
	for _, group := range []struct {
		name    string
		entries []json.RawMessage
		add     func(...Condition) *BooleanCondition
	}{
		{"must", raw.Must, c.Must},
		{"should", raw.Should, c.Should},
		{"not", raw.Not, c.Not},
	} {
		for j, entry := range group.entries {
			child, err := DecodeCondition(entry)
			if err != nil {
				return nil, fmt.Errorf("lucendra: decode boolean %s[%d]: %w", group.name, j, err)
			}
			group.add(child)
		}
	}
	if raw.Boost != nil {
		c.Boost(*raw.Boost)
	}
	return c, nil
}

func decodeGeoDistance(data []byte) (Condition, error) {
	var raw struct {
		Field       *string  `json:"field"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		MaxDistance *string  `json:"max_distance"`
		MinDistance string   `json:"min_distance"`
		Boost       *float64 `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, typeGeoDistance, data, &raw); err != nil {
		return nil, err
	}
	if raw.Field == nil {
		return nil, missingField(kindCondition, typeGeoDistance, "field")
	}
	if raw.Latitude == nil {
		return nil, missingField(kindCondition, typeGeoDistance, "latitude")
	}
	if raw.Longitude == nil {
		return nil, missingField(kindCondition, typeGeoDistance, "longitude")
	}
	if raw.MaxDistance == nil {
		return nil, missingField(kindCondition, typeGeoDistance, "max_distance")
	}
	c, err := NewGeoDistance(*raw.Field, *raw.Latitude, *raw.Longitude, *raw.MaxDistance)
	if err != nil {
		return nil, rejectedField(kindCondition, typeGeoDistance, "field/max_distance", err)
	}
	if raw.MinDistance != "" {
		c.MinDistance(raw.MinDistance)
	}
	if raw.Boost != nil {
		c.Boost(*raw.Boost)
	}
	return c, nil
}

func decodeGeoShape(data []byte) (Condition, error) {
	var raw struct {
		Field           *string           `json:"field"`
		Shape           *string           `json:"shape"`
		Operation       string            `json:"operation"`
		Transformations []json.RawMessage `json:"transformations"`
		Boost           *float64          `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, typeGeoShape, data, &raw); err != nil {
		return nil, err
	}
	if raw.Field == nil {
		return nil, missingField(kindCondition, typeGeoShape, "field")
	}
	if raw.Shape == nil {
		return nil, missingField(kindCondition, typeGeoShape, "shape")
	}
	c, err := NewGeoShape(*raw.Field, *raw.Shape)
	if err != nil {
		return nil, rejectedField(kindCondition, typeGeoShape, "field/shape", err)
	}
	if raw.Operation != "" {
		c.Operation(raw.Operation)
	}
	for i, entry := range raw.Transformations {
		t, err := DecodeTransformation(entry)
		if err != nil {
			return nil, fmt.Errorf("lucendra: decode geo_shape transformations[%d]: %w", i, err)
		}
		c.Transform(t)
	}
	if raw.Boost != nil {
		c.Boost(*raw.Boost)
	}
	return c, nil
}

// fieldValue is the common field+value+boost shape shared by prefix and
// wildcard conditions.
type fieldValue struct {
	field string
	value string
	boost *float64
}

func decodeFieldValue(discriminator string, data []byte) (fieldValue, error) {
	var raw struct {
		Field *string  `json:"field"`
		Value *string  `json:"value"`
		Boost *float64 `json:"boost"`
	}
	if err := unmarshalVariant(kindCondition, discriminator, data, &raw); err != nil {
		return fieldValue{}, err
	}
	if raw.Field == nil {
		return fieldValue{}, missingField(kindCondition, discriminator, "field")
	}
	if raw.Value == nil {
		return fieldValue{}, missingField(kindCondition, discriminator, "value")
	}
	return fieldValue{field: *raw.Field, value: *raw.Value, boost: raw.Boost}, nil
}

func readDiscriminator(kind string, data []byte) (string, error) {
	var probe taggedWire
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", &DecodeError{Kind: kind, Reason: err.Error()}
	}
	return probe.Type, nil
}

func unmarshalVariant(kind, discriminator string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return &DecodeError{Kind: kind, Discriminator: discriminator, Reason: err.Error()}
	}
	return nil
}

// decodeAnyValue unmarshals a free-form JSON value. A JSON null decodes to
// nil, which callers treat the same as an absent field.
func decodeAnyValue(discriminator, field string, raw json.RawMessage) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &DecodeError{Kind: kindCondition, Discriminator: discriminator, Field: field, Reason: err.Error()}
	}
	return value, nil
}
