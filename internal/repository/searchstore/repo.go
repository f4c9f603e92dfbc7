// Package searchstore persists named search documents in a key-value
// store. Documents are opaque JSON payloads; validation happens at the
// edges, before they reach this layer.
package searchstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lucendra/lucendra/internal/db"
)

// DefaultKeyPrefix namespaces registry keys in the shared database.
const DefaultKeyPrefix = "lucendra:search:"

// MaxNameLength bounds saved-search names.
const MaxNameLength = 128

// Sentinel errors for registry operations.
var (
	ErrNotFound    = errors.New("searchstore: search not found")
	ErrInvalidName = errors.New("searchstore: invalid search name")
)

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// store is the consumer interface for registry operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores named search documents.
type Repo struct {
	store  store
	prefix string
}

// New creates a saved-search repository with the default key prefix.
func New(s store) *Repo {
	return &Repo{store: s, prefix: DefaultKeyPrefix}
}

// WithPrefix overrides the key prefix. Returns the receiver for chaining.
func (r *Repo) WithPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

// Save stores a search document under the given name, overwriting any
// previous version.
func (r *Repo) Save(ctx context.Context, name string, doc []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key(name), doc); err != nil {
		return fmt.Errorf("save search %q: %w", name, err)
	}
	return nil
}

// Get retrieves a search document by name.
func (r *Repo) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, r.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get search %q: %w", name, err)
	}
	return doc, nil
}

// List returns the names of all saved searches, sorted.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, r.prefix))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved search. Returns ErrNotFound if it does not exist.
func (r *Repo) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	exists, err := r.store.Exists(ctx, r.key(name))
	if err != nil {
		return fmt.Errorf("delete search %q: %w", name, err)
	}
	if !exists {
		return ErrNotFound
	}
	if err := r.store.Del(ctx, r.key(name)); err != nil {
		return fmt.Errorf("delete search %q: %w", name, err)
	}
	return nil
}

func (r *Repo) key(name string) string {
	return r.prefix + name
}

func validateName(name string) error {
	if name == "" || len(name) > MaxNameLength || !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
