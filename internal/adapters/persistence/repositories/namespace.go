package repositories

import "context"

// namespacedStore prefixes every key before delegating
type namespacedStore struct {
	inner  KeyValueStore
	prefix string
}

// Namespace scopes a store to keys starting with prefix, e.g. one browser session
func Namespace(inner KeyValueStore, prefix string) KeyValueStore {
	return &namespacedStore{inner: inner, prefix: prefix}
}

// SessionNamespace scopes a store to one browser session id
func SessionNamespace(inner KeyValueStore, sessionID string) KeyValueStore {
	return Namespace(inner, SessionPrefix+sessionID+":")
}

func (s *namespacedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *namespacedStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	got, err := s.inner.GetMany(ctx, full...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(got))
	for i, k := range keys {
		if v, ok := got[full[i]]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *namespacedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *namespacedStore) SetMany(ctx context.Context, values map[string]string) error {
	full := make(map[string]string, len(values))
	for k, v := range values {
		full[s.prefix+k] = v
	}
	return s.inner.SetMany(ctx, full)
}

func (s *namespacedStore) Remove(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.inner.Remove(ctx, full...)
}

func (s *namespacedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}
