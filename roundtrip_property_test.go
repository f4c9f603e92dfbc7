package lucendra

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// reencodes returns true when decoding the encoded form and encoding again
// yields byte-identical output.
func reencodes(encode func() ([]byte, error), decode func([]byte) ([]byte, error)) bool {
	first, err := encode()
	if err != nil {
		return false
	}
	second, err := decode(first)
	if err != nil {
		return false
	}
	return bytes.Equal(first, second)
}

func TestProperty_PartitionerRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	decodePartitionerBytes := func(data []byte) ([]byte, error) {
		p, err := DecodePartitioner(data)
		if err != nil {
			return nil, err
		}
		return p.MarshalJSON()
	}

	properties.Property("token partitioners survive a decode/encode cycle", prop.ForAll(
		func(partitions int, paths []string) bool {
			p, err := NewTokenPartitioner(partitions)
			if err != nil {
				return false
			}
			if len(paths) > 0 {
				p.Paths(paths)
			}
			return reencodes(p.MarshalJSON, decodePartitionerBytes)
		},
		gen.IntRange(1, 4096),
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("column partitioners survive a decode/encode cycle", prop.ForAll(
		func(partitions int, column string) bool {
			p, err := NewColumnPartitioner(partitions, column)
			if err != nil {
				return false
			}
			return reencodes(p.MarshalJSON, decodePartitionerBytes)
		},
		gen.IntRange(1, 4096),
		gen.Identifier(),
	))

	properties.Property("vnode partitioners preserve the vnode count", prop.ForAll(
		func(vnodes int) bool {
			p, err := NewVNodePartitioner(vnodes)
			if err != nil {
				return false
			}
			encoded, err := p.MarshalJSON()
			if err != nil {
				return false
			}
			decoded, err := DecodePartitioner(encoded)
			if err != nil {
				return false
			}
			back, ok := decoded.(*VNodePartitioner)
			return ok && back.vnodesPerPartition == vnodes
		},
		gen.IntRange(1, 1024),
	))

	properties.TestingRun(t)
}

func TestProperty_ConditionRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	decodeConditionBytes := func(data []byte) ([]byte, error) {
		c, err := DecodeCondition(data)
		if err != nil {
			return nil, err
		}
		return c.MarshalJSON()
	}

	properties.Property("match conditions survive a decode/encode cycle", prop.ForAll(
		func(field, value string, boost float64) bool {
			c, err := NewMatch(field, value)
			if err != nil {
				return false
			}
			c.Boost(boost)
			return reencodes(c.MarshalJSON, decodeConditionBytes)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Float64Range(0, 100),
	))

	properties.Property("range conditions survive a decode/encode cycle", prop.ForAll(
		func(field string, lower, upper float64, includeLower bool) bool {
			c, err := NewRange(field)
			if err != nil {
				return false
			}
			c.Lower(lower).Upper(upper).IncludeLower(includeLower)
			return reencodes(c.MarshalJSON, decodeConditionBytes)
		},
		gen.Identifier(),
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
		gen.Bool(),
	))

	properties.Property("geo shape conditions with a buffer pipeline survive a decode/encode cycle", prop.ForAll(
		func(field string, km int) bool {
			c, err := NewGeoShape(field, "POINT(0 0)")
			if err != nil {
				return false
			}
			c.Transform(NewBuffer().MaxDistance(fmt.Sprintf("%dkm", km)))
			return reencodes(c.MarshalJSON, decodeConditionBytes)
		},
		gen.Identifier(),
		gen.IntRange(1, 10000),
	))

	properties.TestingRun(t)
}
