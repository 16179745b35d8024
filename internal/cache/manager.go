package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Degradable is implemented by values that may be placeholders produced during
// an upstream outage. Degraded values are returned to the caller but never cached.
type Degradable interface {
	IsDegraded() bool
}

// Manager is the policy layer above a Store. Backend failures are logged and
// the manager falls through to computing the value directly.
type Manager struct {
	store    Store
	keys     KeyBuilder
	policies Policies
	log      *slog.Logger
	group    singleflight.Group
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithKeys sets the key builder.
func WithKeys(k KeyBuilder) ManagerOption {
	return func(m *Manager) {
		m.keys = k
	}
}

// WithPolicies sets the TTL policies.
func WithPolicies(p Policies) ManagerOption {
	return func(m *Manager) {
		m.policies = p
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a manager over store. A nil store disables caching.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		keys:     DefaultKeys,
		policies: DefaultPolicies(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	m.log = m.log.With("component", "cache")
	return m
}

// Keys returns the key builder.
func (m *Manager) Keys() KeyBuilder { return m.keys }

// Policies returns the TTL policies.
func (m *Manager) Policies() Policies { return m.policies }

// Ping checks the backend.
func (m *Manager) Ping(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	return m.store.Ping(ctx)
}

// Delete removes keys, logging (not returning) backend failures.
func (m *Manager) Delete(ctx context.Context, keys ...string) {
	if m.store == nil {
		return
	}
	for _, key := range keys {
		if err := m.store.Delete(ctx, key); err != nil {
			m.log.Warn("cache delete failed", "key", key, "error", err)
		}
	}
}

// Read decodes the cached value at key into T. ok is false on a miss, a
// backend failure, or an undecodable entry.
func Read[T any](ctx context.Context, m *Manager, key string) (T, bool) {
	var v T
	if m.store == nil {
		return v, false
	}

	data, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn("cache read failed", "key", key, "error", err)
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		m.log.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return v, false
	}
	return v, true
}

// Write encodes v and stores it under key with the policy TTL. Failures are logged.
func Write[T any](ctx context.Context, m *Manager, key string, policy Policy, v T) {
	if m.store == nil {
		return
	}
	if d, ok := any(v).(Degradable); ok && d.IsDegraded() {
		m.log.Debug("not caching degraded value", "key", key, "policy", policy.Name)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		m.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := m.store.Set(ctx, key, data, policy.TTL); err != nil {
		m.log.Warn("cache write failed", "key", key, "policy", policy.Name, "error", err)
	}
}

// Fetch returns the cached value at key, or computes, stores and returns it.
// Concurrent fetches of the same key share one computation. The shared
// computation is detached from any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func Fetch[T any](ctx context.Context, m *Manager, key string, policy Policy, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := Read[T](ctx, m, key); ok {
		m.log.Debug("cache hit", "key", key, "policy", policy.Name)
		return v, nil
	}
	m.log.Debug("cache miss", "key", key, "policy", policy.Name)

	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		v, err := compute(shared)
		if err != nil {
			return v, err
		}
		Write(shared, m, key, policy, v)
		return v, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}

	v, ok := res.Val.(T)
	if !ok {
		return zero, fmt.Errorf("cache: shared fetch for %q returned %T", key, res.Val)
	}
	return v, nil
}

// FetchMulti resolves many keys with one bulk read. compute receives only the
// missing keys and only its results are written back, in one bulk write.
func FetchMulti[T any](ctx context.Context, m *Manager, keys []string, policy Policy, compute func(ctx context.Context, missing []string) (map[string]T, error)) (map[string]T, error) {
	out := make(map[string]T, len(keys))
	missing := readMulti(ctx, m, keys, out)
	if len(missing) == 0 {
		return out, nil
	}

	computed, err := compute(ctx, missing)
	if err != nil {
		return out, err
	}

	toStore := make(map[string][]byte, len(computed))
	for key, v := range computed {
		out[key] = v
		if d, ok := any(v).(Degradable); ok && d.IsDegraded() {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			m.log.Warn("cache encode failed", "key", key, "error", err)
			continue
		}
		toStore[key] = data
	}

	if m.store != nil && len(toStore) > 0 {
		if err := m.store.SetMulti(ctx, toStore, policy.TTL); err != nil {
			m.log.Warn("cache bulk write failed", "keys", len(toStore), "policy", policy.Name, "error", err)
		}
	}
	return out, nil
}

// readMulti fills out with decodable cached entries and returns the keys still
// missing, in input order without duplicates.
func readMulti[T any](ctx context.Context, m *Manager, keys []string, out map[string]T) []string {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}
	if m.store == nil {
		return unique
	}

	found, err := m.store.GetMulti(ctx, unique)
	if err != nil {
		m.log.Warn("cache bulk read failed", "keys", len(unique), "error", err)
		return unique
	}

	var missing []string
	for _, key := range unique {
		data, ok := found[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			m.log.Warn("discarding undecodable cache entry", "key", key, "error", err)
			missing = append(missing, key)
			continue
		}
		out[key] = v
	}
	m.log.Debug("cache bulk read", "keys", len(unique), "hits", len(unique)-len(missing))
	return missing
}
