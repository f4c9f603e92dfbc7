package lucendra

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mustEncode(t *testing.T, v json.Marshaler) []byte {
	t.Helper()
	data, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestEncodeGeoShape_WireFormat(t *testing.T) {
	c := mustGeoShape(t, "shape_field", "POLYGON((0 0,0 1,1 1,1 0,0 0))")
	c.Operation("intersects")

	want := `{"type":"geo_shape","field":"shape_field","shape":"POLYGON((0 0,0 1,1 1,1 0,0 0))",` +
		`"operation":"intersects","transformations":[]}`
	if got := string(mustEncode(t, c)); got != want {
		t.Errorf("encoded = %s, want %s", got, want)
	}
}

func TestEncodeGeoShape_OperationOmittedWhenUnset(t *testing.T) {
	c := mustGeoShape(t, "place", "POINT(0 0)")
	got := string(mustEncode(t, c))
	if strings.Contains(got, "operation") {
		t.Errorf("unset operation must be absent, got %s", got)
	}
	// The transformation pipeline is present from construction, so it is
	// emitted as [] rather than omitted.
	if !strings.Contains(got, `"transformations":[]`) {
		t.Errorf("empty pipeline must be emitted as [], got %s", got)
	}
}

func TestEncodeGeoShape_TransformationOrder(t *testing.T) {
	c := mustGeoShape(t, "place", "POINT(0 0)")
	c.Transform(NewCentroid())
	c.Transform(NewBuffer().MaxDistance("10km"), NewBBox())

	want := `{"type":"geo_shape","field":"place","shape":"POINT(0 0)",` +
		`"transformations":[{"type":"centroid"},{"type":"buffer","max_distance":"10km"},{"type":"bbox"}]}`
	if got := string(mustEncode(t, c)); got != want {
		t.Errorf("encoded = %s, want %s", got, want)
	}
}

func TestEncodePartitioners_WireFormat(t *testing.T) {
	token, err := NewTokenPartitioner(8)
	if err != nil {
		t.Fatalf("NewTokenPartitioner: %v", err)
	}
	column, err := NewColumnPartitioner(4, "user_id")
	if err != nil {
		t.Fatalf("NewColumnPartitioner: %v", err)
	}
	column.Paths([]string{"/data/p0", "/data/p1"})
	vnode, err := NewVNodePartitioner(16)
	if err != nil {
		t.Fatalf("NewVNodePartitioner: %v", err)
	}

	tests := []struct {
		name string
		p    Partitioner
		want string
	}{
		{"none", NewNonePartitioner(), `{"type":"none"}`},
		{"token", token, `{"type":"token","partitions":8}`},
		{"column", column, `{"type":"column","partitions":4,"column":"user_id","paths":["/data/p0","/data/p1"]}`},
		{"vnode", vnode, `{"type":"vnode","vnodes_per_partition":16}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(mustEncode(t, tt.p)); got != tt.want {
				t.Errorf("encoded = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncode_Idempotent(t *testing.T) {
	c := mustGeoShape(t, "place", "POINT(0 0)")
	c.Operation("contains").Transform(NewBuffer().MinDistance("1km")).Boost(1.5)

	first := mustEncode(t, c)
	second := mustEncode(t, c)
	if !bytes.Equal(first, second) {
		t.Errorf("encoding is not idempotent:\n%s\n%s", first, second)
	}
}

func TestEncode_PathsLastWriteWins(t *testing.T) {
	p, err := NewTokenPartitioner(2)
	if err != nil {
		t.Fatalf("NewTokenPartitioner: %v", err)
	}
	p.Paths([]string{"/data/old"}).Paths([]string{"/data/new"})

	want := `{"type":"token","partitions":2,"paths":["/data/new"]}`
	if got := string(mustEncode(t, p)); got != want {
		t.Errorf("encoded = %s, want %s", got, want)
	}
}

func TestRoundTrip_Conditions(t *testing.T) {
	boosted := mustMatch(t, "country", "CY").Boost(2)
	rng, err := NewRange("age")
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	rng.Lower(18.0).IncludeLower(true)
	geoDist, err := NewGeoDistance("place", 34.77, 32.42, "10km")
	if err != nil {
		t.Fatalf("NewGeoDistance: %v", err)
	}
	geoDist.MinDistance("1km")
	shape := mustGeoShape(t, "area", "POINT(1 2)")
	shape.Operation("is_within").Transform(NewConvexHull(), NewCentroid())
	nested := NewBool().
		Must(mustMatch(t, "a", "1"), boosted).
		Not(shape)

	conditions := []Condition{
		NewAll(),
		NewAll().Boost(0.5),
		boosted,
		rng,
		geoDist,
		shape,
		nested,
	}
	for _, c := range conditions {
		t.Run(c.conditionType(), func(t *testing.T) {
			encoded := mustEncode(t, c)
			decoded, err := DecodeCondition(encoded)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			reencoded := mustEncode(t, decoded)
			if !bytes.Equal(encoded, reencoded) {
				t.Errorf("round trip mismatch:\n%s\n%s", encoded, reencoded)
			}
		})
	}
}

func TestRoundTrip_Partitioners(t *testing.T) {
	token, err := NewTokenPartitioner(8)
	if err != nil {
		t.Fatalf("NewTokenPartitioner: %v", err)
	}
	token.Paths([]string{"/data/p0"})
	column, err := NewColumnPartitioner(4, "user_id")
	if err != nil {
		t.Fatalf("NewColumnPartitioner: %v", err)
	}
	vnode, err := NewVNodePartitioner(16)
	if err != nil {
		t.Fatalf("NewVNodePartitioner: %v", err)
	}

	for _, p := range []Partitioner{NewNonePartitioner(), token, column, vnode} {
		t.Run(p.partitionerType(), func(t *testing.T) {
			encoded := mustEncode(t, p)
			decoded, err := DecodePartitioner(encoded)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			reencoded := mustEncode(t, decoded)
			if !bytes.Equal(encoded, reencoded) {
				t.Errorf("round trip mismatch:\n%s\n%s", encoded, reencoded)
			}
		})
	}
}

func TestRoundTrip_GeoShapeUnsetFieldsStayUnset(t *testing.T) {
	c := mustGeoShape(t, "place", "POINT(0 0)")
	decoded, err := DecodeCondition(mustEncode(t, c))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gs, ok := decoded.(*GeoShapeCondition)
	if !ok {
		t.Fatalf("decoded type = %T, want *GeoShapeCondition", decoded)
	}
	if gs.operation != "" {
		t.Errorf("operation = %q, want unset", gs.operation)
	}
	if gs.boost != nil {
		t.Errorf("boost = %v, want unset", *gs.boost)
	}
	if gs.transformations == nil || len(gs.transformations) != 0 {
		t.Errorf("transformations = %v, want empty non-nil", gs.transformations)
	}
}

func TestDecodeCondition_UnknownDiscriminator(t *testing.T) {
	_, err := DecodeCondition([]byte(`{"type":"telepathy"}`))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if decErr.Discriminator != "telepathy" {
		t.Errorf("Discriminator = %q, want telepathy", decErr.Discriminator)
	}
	if decErr.Kind != "condition" {
		t.Errorf("Kind = %q, want condition", decErr.Kind)
	}
}

func TestDecodeCondition_MissingDiscriminator(t *testing.T) {
	_, err := DecodeCondition([]byte(`{"field":"x"}`))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if decErr.Field != "type" {
		t.Errorf("Field = %q, want type", decErr.Field)
	}
}

func TestDecodeCondition_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{"geo_shape no shape", `{"type":"geo_shape","field":"place"}`, "shape"},
		{"geo_shape null field", `{"type":"geo_shape","field":null,"shape":"POINT(0 0)"}`, "field"},
		{"match no value", `{"type":"match","field":"x"}`, "value"},
		{"match null value", `{"type":"match","field":"x","value":null}`, "value"},
		{"range no field", `{"type":"range","lower":1}`, "field"},
		{"geo_distance no max", `{"type":"geo_distance","field":"p","latitude":1,"longitude":2}`, "max_distance"},
		{"prefix no value", `{"type":"prefix","field":"x"}`, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCondition([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected decode error")
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error type = %T, want *DecodeError", err)
			}
			if decErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", decErr.Field, tt.wantField)
			}
		})
	}
}

func TestDecodeCondition_EmptyRequiredFieldRejected(t *testing.T) {
	_, err := DecodeCondition([]byte(`{"type":"geo_shape","field":"","shape":"POINT(0 0)"}`))
	if err == nil {
		t.Fatal("expected decode error for empty field")
	}
}

func TestDecodeCondition_UnknownExtraFieldsIgnored(t *testing.T) {
	doc := `{"type":"geo_shape","field":"place","shape":"POINT(0 0)","flux_capacitor":42}`
	c, err := DecodeCondition([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.conditionType() != "geo_shape" {
		t.Errorf("type = %q, want geo_shape", c.conditionType())
	}
}

func TestDecodeCondition_NestedBooleanError(t *testing.T) {
	doc := `{"type":"boolean","must":[{"type":"match","field":"x","value":"1"},{"type":"warp"}]}`
	_, err := DecodeCondition([]byte(doc))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error type = %T, want wrapped *DecodeError", err)
	}
	if decErr.Discriminator != "warp" {
		t.Errorf("Discriminator = %q, want warp", decErr.Discriminator)
	}
	if !strings.Contains(err.Error(), "must[1]") {
		t.Errorf("error = %q, want position of offending entry", err)
	}
}

func TestDecodePartitioner_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown discriminator", `{"type":"shard"}`},
		{"token missing partitions", `{"type":"token"}`},
		{"token zero partitions", `{"type":"token","partitions":0}`},
		{"column missing column", `{"type":"column","partitions":4}`},
		{"vnode missing count", `{"type":"vnode"}`},
		{"vnode negative count", `{"type":"vnode","vnodes_per_partition":-2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePartitioner([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected decode error")
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error type = %T, want *DecodeError", err)
			}
		})
	}
}

func TestDecodePartitioner_MissingDiscriminatorDefaultsToNone(t *testing.T) {
	p, err := DecodePartitioner([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*NonePartitioner); !ok {
		t.Errorf("type = %T, want *NonePartitioner", p)
	}
}

func TestDecodeTransformation_Buffer(t *testing.T) {
	tr, err := DecodeTransformation([]byte(`{"type":"buffer","min_distance":"1km","max_distance":"10km"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf, ok := tr.(*BufferTransformation)
	if !ok {
		t.Fatalf("type = %T, want *BufferTransformation", tr)
	}
	if buf.minDistance != "1km" || buf.maxDistance != "10km" {
		t.Errorf("buffer = %+v", buf)
	}
}

func TestDecodeTransformation_UnknownDiscriminator(t *testing.T) {
	_, err := DecodeTransformation([]byte(`{"type":"teleport"}`))
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncode_NilConditionInBoolean(t *testing.T) {
	c := NewBool().Must(nil)
	if _, err := json.Marshal(c); err == nil {
		t.Fatal("expected encode error for nil child condition")
	}
}

func TestEncode_TypedNilConditionInBoolean(t *testing.T) {
	// A nil variant pointer hides behind a non-nil interface value; it must
	// surface the same encode error as a plain nil, never a panic.
	c := NewBool().Must((*MatchCondition)(nil))
	if _, err := json.Marshal(c); err == nil {
		t.Fatal("expected encode error for typed-nil child condition")
	}
}

func TestEncode_TypedNilCondition(t *testing.T) {
	var c Condition = (*GeoShapeCondition)(nil)
	if _, err := encodeCondition(c); err == nil {
		t.Fatal("expected encode error for typed-nil condition")
	}
}

func TestEncode_NilTransformation(t *testing.T) {
	c := mustGeoShape(t, "place", "POINT(0 0)")
	c.Transform(nil)
	if _, err := json.Marshal(c); err == nil {
		t.Fatal("expected encode error for nil transformation")
	}
}

func TestEncode_TypedNilTransformation(t *testing.T) {
	c := mustGeoShape(t, "place", "POINT(0 0)")
	c.Transform((*BufferTransformation)(nil))
	if _, err := json.Marshal(c); err == nil {
		t.Fatal("expected encode error for typed-nil transformation")
	}
}

func TestEncode_TypedNilPartitionerEncodesAsNone(t *testing.T) {
	got, err := encodePartitioner((*TokenPartitioner)(nil))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != `{"type":"none"}` {
		t.Errorf("encoded = %s, want none", got)
	}
}

func TestDecodeCondition_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated object", `{`},
		{"non-string discriminator", `{"type":7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCondition([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected decode error")
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error type = %T, want *DecodeError", err)
			}
			if decErr.Kind != "condition" {
				t.Errorf("Kind = %q, want condition", decErr.Kind)
			}
		})
	}
}
