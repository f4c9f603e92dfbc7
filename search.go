package lucendra

import (
	"encoding/json"
	"fmt"
)

// Search is the enclosing search specification sent to the index engine:
// filtering conditions (matched without relevance scoring), querying
// conditions (scored) and an optional refresh flag forcing an index refresh
// before the search runs.
type Search struct {
	filter  []Condition
	query   []Condition
	refresh *bool
}

// NewSearch creates an empty search specification.
func NewSearch() *Search {
	return &Search{}
}

// Filter appends filtering conditions. Matched rows must satisfy them, but
// they do not participate in scoring.
func (s *Search) Filter(conditions ...Condition) *Search {
	s.filter = append(s.filter, conditions...)
	return s
}

// Query appends querying conditions, which participate in scoring.
func (s *Search) Query(conditions ...Condition) *Search {
	s.query = append(s.query, conditions...)
	return s
}

// Refresh sets whether the engine must refresh the index before searching.
func (s *Search) Refresh(refresh bool) *Search {
	s.refresh = &refresh
	return s
}

type searchWire struct {
	Filter  []Condition `json:"filter,omitempty"`
	Query   []Condition `json:"query,omitempty"`
	Refresh *bool       `json:"refresh,omitempty"`
}

// MarshalJSON emits the search document. Condition lists that were never
// touched are omitted.
func (s *Search) MarshalJSON() ([]byte, error) {
	for _, group := range [][]Condition{s.filter, s.query} {
		if err := checkConditions(group); err != nil {
			return nil, err
		}
	}
	return json.Marshal(searchWire{Filter: s.filter, Query: s.query, Refresh: s.refresh})
}

// DecodeSearch reconstructs a search specification from its JSON form.
func DecodeSearch(data []byte) (*Search, error) {
	var raw struct {
		Filter  []json.RawMessage `json:"filter"`
		Query   []json.RawMessage `json:"query"`
		Refresh *bool             `json:"refresh"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Kind: kindSearch, Reason: err.Error()}
	}
	s := NewSearch()
	for i, entry := range raw.Filter {
		c, err := DecodeCondition(entry)
		if err != nil {
			return nil, fmt.Errorf("lucendra: decode search filter[%d]: %w", i, err)
		}
		s.Filter(c)
	}
	for i, entry := range raw.Query {
		c, err := DecodeCondition(entry)
		if err != nil {
			return nil, fmt.Errorf("lucendra: decode search query[%d]: %w", i, err)
		}
		s.Query(c)
	}
	if raw.Refresh != nil {
		s.Refresh(*raw.Refresh)
	}
	return s, nil
}
