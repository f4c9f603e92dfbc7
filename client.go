package lucendra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lucendra/lucendra/internal/db"
	dbRedis "github.com/lucendra/lucendra/internal/db/redis"
	"github.com/lucendra/lucendra/internal/repository/searchstore"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the lucendra SDK entry point. Besides the in-process builders,
// it gives access to the saved-search registry backed by Redis.
type Client struct {
	store    db.Store
	searches *searchstore.Repo
}

type clientConfig struct {
	addrs            []string
	username         string
	password         string
	keyPrefix        string
	readinessTimeout time.Duration
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis sets the Redis address and password of the registry database.
func WithRedis(addr, password string) Option {
	return func(cfg *clientConfig) {
		cfg.addrs = append(cfg.addrs, addr)
		cfg.password = password
	}
}

// WithKeyPrefix overrides the registry key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(cfg *clientConfig) {
		cfg.keyPrefix = prefix
	}
}

// WithReadinessTimeout overrides how long New waits for the database.
func WithReadinessTimeout(timeout time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.readinessTimeout = timeout
	}
}

// New creates a lucendra Client and connects to the registry database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("lucendra: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("lucendra: create store: %w", err)
	}

	if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("lucendra: database not ready: %w", err)
	}

	repo := searchstore.New(store)
	if cfg.keyPrefix != "" {
		repo = repo.WithPrefix(cfg.keyPrefix)
	}

	return &Client{store: store, searches: repo}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Searches returns the saved-search registry.
func (c *Client) Searches() *SearchRegistry {
	return &SearchRegistry{repo: c.searches}
}

// SearchRegistry stores named search specifications. Documents are encoded
// through the tagged codec on the way in and decoded on the way out, so
// only well-formed searches ever reach the database.
type SearchRegistry struct {
	repo *searchstore.Repo
}

// Save encodes and stores a search under the given name.
func (r *SearchRegistry) Save(ctx context.Context, name string, s *Search) error {
	if s == nil {
		return errors.New("lucendra: save search: nil search")
	}
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("save search %q: %w", name, err)
	}
	if err := r.repo.Save(ctx, name, doc); err != nil {
		return fmt.Errorf("lucendra: %w", err)
	}
	return nil
}

// Get retrieves and decodes a saved search.
func (r *SearchRegistry) Get(ctx context.Context, name string) (*Search, error) {
	doc, err := r.repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lucendra: %w", err)
	}
	s, err := DecodeSearch(doc)
	if err != nil {
		return nil, fmt.Errorf("get search %q: %w", name, err)
	}
	return s, nil
}

// List returns the names of all saved searches, sorted.
func (r *SearchRegistry) List(ctx context.Context) ([]string, error) {
	names, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("lucendra: %w", err)
	}
	return names, nil
}

// Delete removes a saved search.
func (r *SearchRegistry) Delete(ctx context.Context, name string) error {
	if err := r.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("lucendra: %w", err)
	}
	return nil
}
