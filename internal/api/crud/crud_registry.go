package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// Handle is a type-erased engine used for dispatch by record kind name.
// Ids arrive as strings and payloads as raw JSON; a malformed id is NotFound.
type Handle interface {
	Name() string
	List(ctx context.Context) (any, error)
	Get(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, payload json.RawMessage) (any, error)
	Update(ctx context.Context, id string, payload json.RawMessage) (any, error)
	Remove(ctx context.Context, id string) (uuid.UUID, error)
}

// Registry maps record kind names to engines.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]Handle)}
}

// Register adds h under h.Name(). Names are unique.
func (r *Registry) Register(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handles[h.Name()]; exists {
		return fmt.Errorf("model %q already registered", h.Name())
	}
	r.handles[h.Name()] = h
	return nil
}

// Resolve returns the engine for name, or UnknownModel.
func (r *Registry) Resolve(name string) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[name]
	if !ok {
		return nil, types.NewError(types.KindUnknownModel, fmt.Sprintf("Model '%s' does not exist", name), nil)
	}
	return h, nil
}

// Names lists the registered kinds in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AsHandle exposes e through the registry interface.
func AsHandle[R Record, I any](e *Engine[R, I]) Handle {
	return engineHandle[R, I]{e: e}
}

type engineHandle[R Record, I any] struct {
	e *Engine[R, I]
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, types.NotFoundf("Not found")
	}
	return parsed, nil
}

func decodePayload[I any](payload json.RawMessage) (I, error) {
	var in I
	if len(bytes.TrimSpace(payload)) == 0 {
		return in, types.InvalidInputf("body must not be empty")
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return in, types.NewError(types.KindInvalidInput, "body contains unknown field "+field, err)
		}
		return in, types.NewError(types.KindInvalidInput, "body contains badly-formed JSON", err)
	}
	if dec.More() {
		return in, types.InvalidInputf("body must only contain a single JSON object")
	}
	return in, nil
}

func (h engineHandle[R, I]) Name() string { return h.e.Name() }

func (h engineHandle[R, I]) List(ctx context.Context) (any, error) {
	return h.e.List(ctx)
}

func (h engineHandle[R, I]) Get(ctx context.Context, id string) (any, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return h.e.Get(ctx, parsed)
}

func (h engineHandle[R, I]) Create(ctx context.Context, payload json.RawMessage) (any, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	in, err := decodePayload[I](payload)
	if err != nil {
		return nil, err
	}
	return h.e.Create(ctx, in)
}

func (h engineHandle[R, I]) Update(ctx context.Context, id string, payload json.RawMessage) (any, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	in, err := decodePayload[I](payload)
	if err != nil {
		return nil, err
	}
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return h.e.Update(ctx, parsed, in)
}

func (h engineHandle[R, I]) Remove(ctx context.Context, id string) (uuid.UUID, error) {
	if _, err := requireActor(ctx); err != nil {
		return uuid.Nil, err
	}
	parsed, err := parseID(id)
	if err != nil {
		return uuid.Nil, err
	}
	return h.e.Remove(ctx, parsed)
}
