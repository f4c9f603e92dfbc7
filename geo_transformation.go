package lucendra

import "encoding/json"

// GeoTransformation is one step of the shape transformation pipeline of a
// GeoShapeCondition, serialized as its own tagged JSON object. Parameter
// semantics are owned by the engine's geometry model and passed through
// untouched.
type GeoTransformation interface {
	json.Marshaler
	transformationType() string
}

// Transformation discriminators.
const (
	typeBuffer     = "buffer"
	typeCentroid   = "centroid"
	typeConvexHull = "convex_hull"
	typeBBox       = "bbox"
)

// BufferTransformation expands the shape outward by a distance, producing
// the buffered geometry.
type BufferTransformation struct {
	minDistance string
	maxDistance string
}

// NewBuffer creates a buffer transformation with no distances set.
func NewBuffer() *BufferTransformation {
	return &BufferTransformation{}
}

// MinDistance sets the inner buffer distance (for example "1km").
func (t *BufferTransformation) MinDistance(distance string) *BufferTransformation {
	t.minDistance = distance
	return t
}

// MaxDistance sets the outer buffer distance (for example "10km").
func (t *BufferTransformation) MaxDistance(distance string) *BufferTransformation {
	t.maxDistance = distance
	return t
}

func (t *BufferTransformation) transformationType() string { return typeBuffer }

// CentroidTransformation reduces the shape to its centroid point.
type CentroidTransformation struct{}

// NewCentroid creates a centroid transformation.
func NewCentroid() *CentroidTransformation {
	return &CentroidTransformation{}
}

func (t *CentroidTransformation) transformationType() string { return typeCentroid }

// ConvexHullTransformation replaces the shape with its convex hull.
type ConvexHullTransformation struct{}

// NewConvexHull creates a convex hull transformation.
func NewConvexHull() *ConvexHullTransformation {
	return &ConvexHullTransformation{}
}

func (t *ConvexHullTransformation) transformationType() string { return typeConvexHull }

// BBoxTransformation replaces the shape with its bounding box.
type BBoxTransformation struct{}

// NewBBox creates a bounding box transformation.
func NewBBox() *BBoxTransformation {
	return &BBoxTransformation{}
}

func (t *BBoxTransformation) transformationType() string { return typeBBox }
