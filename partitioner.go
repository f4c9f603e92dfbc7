package lucendra

import (
	"encoding/json"
	"fmt"
)

// Partitioner is a strategy for splitting an index across physical
// partitions, serialized as a tagged JSON object. The choice only affects
// routing on the engine side; this package carries the strategy and its
// parameters to the wire format.
type Partitioner interface {
	json.Marshaler
	partitionerType() string
}

// Partitioner discriminators.
const (
	typeNone   = "none"
	typeToken  = "token"
	typeColumn = "column"
	typeVNode  = "vnode"
)

// NonePartitioner keeps the index in a single partition. It is the default
// strategy: an index spec without a partitioner encodes identically.
type NonePartitioner struct{}

// NewNonePartitioner creates the no-op partitioner.
func NewNonePartitioner() *NonePartitioner {
	return &NonePartitioner{}
}

func (p *NonePartitioner) partitionerType() string { return typeNone }

// TokenPartitioner routes rows to partitions by the hash of the partition
// key token. Gives even load balancing; token range searches fan out to
// every partition.
type TokenPartitioner struct {
	partitions int
	paths      []string
}

// NewTokenPartitioner creates a token-based partitioner with the given
// number of partitions per node.
func NewTokenPartitioner(partitions int) (*TokenPartitioner, error) {
	if partitions <= 0 {
		return nil, errPositive(typeToken, "partitions", partitions)
	}
	return &TokenPartitioner{partitions: partitions}, nil
}

// Paths sets the directories where partitions are stored, replacing any
// previously set value.
func (p *TokenPartitioner) Paths(paths []string) *TokenPartitioner {
	p.paths = paths
	return p
}

func (p *TokenPartitioner) partitionerType() string { return typeToken }

// ColumnPartitioner routes rows to partitions by the hash of a partition
// key column. Load balancing depends on the cardinality and distribution of
// the column values.
type ColumnPartitioner struct {
	partitions int
	column     string
	paths      []string
}

// NewColumnPartitioner creates a column-based partitioner with the given
// number of partitions per node and partition key column.
func NewColumnPartitioner(partitions int, column string) (*ColumnPartitioner, error) {
	if partitions <= 0 {
		return nil, errPositive(typeColumn, "partitions", partitions)
	}
	if column == "" {
		return nil, errRequired(typeColumn, "column")
	}
	return &ColumnPartitioner{partitions: partitions, column: column}, nil
}

// Paths sets the directories where partitions are stored, replacing any
// previously set value.
func (p *ColumnPartitioner) Paths(paths []string) *ColumnPartitioner {
	p.paths = paths
	return p
}

func (p *ColumnPartitioner) partitionerType() string { return typeColumn }

// VNodePartitioner routes rows to partitions by virtual node token range.
// More virtual nodes per partition means finer-grained load distribution.
type VNodePartitioner struct {
	vnodesPerPartition int
}

// NewVNodePartitioner creates a virtual-node-based partitioner with the
// given number of virtual nodes per partition.
func NewVNodePartitioner(vnodesPerPartition int) (*VNodePartitioner, error) {
	if vnodesPerPartition <= 0 {
		return nil, errPositive(typeVNode, "vnodes_per_partition", vnodesPerPartition)
	}
	return &VNodePartitioner{vnodesPerPartition: vnodesPerPartition}, nil
}

func (p *VNodePartitioner) partitionerType() string { return typeVNode }

func errPositive(variant, field string, got int) error {
	return fmt.Errorf("lucendra: %s: %s must be positive, got %d", variant, field, got)
}
