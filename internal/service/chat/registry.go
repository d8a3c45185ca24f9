package chat

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/guru-ai/coursechat/backend/internal/storage"
)

var ErrInvalidProfile = errors.New("invalid profile id")

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Registry keeps one widget per profile. Each profile gets its own slots in
// the shared store, the way each browser gets its own local storage.
type Registry struct {
	store   storage.Store
	replier Replier
	opts    Options

	mu      sync.Mutex
	widgets map[string]*Widget
}

// NewRegistry bootstraps an empty registry over store.
func NewRegistry(store storage.Store, replier Replier, opts Options) *Registry {
	return &Registry{
		store:   store,
		replier: replier,
		opts:    opts,
		widgets: make(map[string]*Widget),
	}
}

// Get returns the widget for profileID, restoring it from storage on first
// access.
func (r *Registry) Get(ctx context.Context, profileID string) (*Widget, error) {
	if !profilePattern.MatchString(profileID) {
		return nil, ErrInvalidProfile
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.widgets[profileID]; ok {
		return w, nil
	}

	w, err := NewWidget(ctx, storage.WithPrefix(r.store, profileID+"/"), r.replier, r.opts)
	if err != nil {
		return nil, err
	}
	r.widgets[profileID] = w
	return w, nil
}
