package lucendra

import (
	"encoding/json"
	"fmt"
)

// Index is the enclosing index specification: a named index with optional
// tuning options and a partitioning strategy. An index without an explicit
// partitioner encodes the same as one with NonePartitioner.
type Index struct {
	name           string
	refreshSeconds *float64
	directoryPath  string
	ramBufferMB    *int
	partitioner    Partitioner
}

// NewIndex creates an index specification with the given name.
func NewIndex(name string) (*Index, error) {
	if name == "" {
		return nil, errRequired(kindIndex, "name")
	}
	return &Index{name: name}, nil
}

// RefreshSeconds sets how often the engine reopens index readers.
func (i *Index) RefreshSeconds(seconds float64) *Index {
	i.refreshSeconds = &seconds
	return i
}

// DirectoryPath sets the filesystem path where the index is stored.
func (i *Index) DirectoryPath(path string) *Index {
	i.directoryPath = path
	return i
}

// RAMBufferMB sets the size of the indexing write buffer.
func (i *Index) RAMBufferMB(mb int) *Index {
	i.ramBufferMB = &mb
	return i
}

// Partitioner sets the index partitioning strategy.
func (i *Index) Partitioner(p Partitioner) *Index {
	i.partitioner = p
	return i
}

type indexWire struct {
	Name           string      `json:"name"`
	RefreshSeconds *float64    `json:"refresh_seconds,omitempty"`
	DirectoryPath  string      `json:"directory_path,omitempty"`
	RAMBufferMB    *int        `json:"ram_buffer_mb,omitempty"`
	Partitioner    Partitioner `json:"partitioner"`
}

// MarshalJSON emits the index document. The partitioner is always present;
// an unset one is emitted as the none strategy.
func (i *Index) MarshalJSON() ([]byte, error) {
	p := i.partitioner
	if p == nil {
		p = NewNonePartitioner()
	}
	return json.Marshal(indexWire{
		Name:           i.name,
		RefreshSeconds: i.refreshSeconds,
		DirectoryPath:  i.directoryPath,
		RAMBufferMB:    i.ramBufferMB,
		Partitioner:    p,
	})
}

// DecodeIndex reconstructs an index specification from its JSON form.
func DecodeIndex(data []byte) (*Index, error) {
	var raw struct {
		Name           *string         `json:"name"`
		RefreshSeconds *float64        `json:"refresh_seconds"`
		DirectoryPath  string          `json:"directory_path"`
		RAMBufferMB    *int            `json:"ram_buffer_mb"`
		Partitioner    json.RawMessage `json:"partitioner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Kind: kindIndex, Reason: err.Error()}
	}
	if raw.Name == nil {
		return nil, missingField(kindIndex, "", "name")
	}
	idx, err := NewIndex(*raw.Name)
	if err != nil {
		return nil, rejectedField(kindIndex, "", "name", err)
	}
	if raw.RefreshSeconds != nil {
		idx.RefreshSeconds(*raw.RefreshSeconds)
	}
	if raw.DirectoryPath != "" {
		idx.DirectoryPath(raw.DirectoryPath)
	}
	if raw.RAMBufferMB != nil {
		idx.RAMBufferMB(*raw.RAMBufferMB)
	}
	if raw.Partitioner != nil {
		p, err := DecodePartitioner(raw.Partitioner)
		if err != nil {
			return nil, fmt.Errorf("lucendra: decode index partitioner: %w", err)
		}
		idx.Partitioner(p)
	}
	return idx, nil
}
