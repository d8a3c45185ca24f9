package storage

import "context"

// Store is the persistent key-value capability the widget is given. A
// missing key is reported through ok=false, never as an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// prefixed scopes every key of an underlying store under a fixed prefix.
type prefixed struct {
	prefix string
	inner  Store
}

// WithPrefix returns a view of s whose keys live under prefix. It is used to
// give every profile its own slots in a shared store.
func WithPrefix(s Store, prefix string) Store {
	return &prefixed{prefix: prefix, inner: s}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
