// Package resource provides API resource transformers.
//
// Define a transformer to control exactly what JSON shape your API returns:
//
//	func userToArray(u models.User) resource.Map {
//	    return resource.Map{
//	        "id":    u.ID,
//	        "name":  u.Username,
//	        "email": u.Email,
//	    }
//	}
//
// Respond:
//
//	resource.New(user, userToArray).Respond(w)
//	resource.CollectionOf(users, userToArray).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
)

// Map is a convenient alias for the output of a transformer.
type Map = map[string]interface{}

// Transformer converts one model instance into a Map.
type Transformer[T any] func(T) Map

// ------------------- Single resource -------------------

// Resource wraps a single model with its transformer.
type Resource[T any] struct {
	transform Transformer[T]
	data      T
	meta      Map
}

// New creates a Resource for a single model instance.
func New[T any](data T, t Transformer[T]) *Resource[T] {
	return &Resource[T]{transform: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource[T]) WithMeta(meta Map) *Resource[T] {
	r.meta = meta
	return r
}

// MarshalJSON implements json.Marshaler so Resource can be nested.
func (r *Resource[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transform(r.data))
}

// Respond writes the resource as JSON with the given status (default 200).
func (r *Resource[T]) Respond(w http.ResponseWriter, status ...int) {
	code := http.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	out := Map{"data": r.transform(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, code, out)
}

// ------------------- Collection resource -------------------

// Collection wraps a slice of models with a transformer.
type Collection[T any] struct {
	transform  Transformer[T]
	items      []T
	pagination *database.Pagination
	meta       Map
}

// CollectionOf creates a Collection from a slice.
func CollectionOf[T any](items []T, t Transformer[T]) *Collection[T] {
	return &Collection[T]{transform: t, items: items}
}

// WithPagination attaches pagination metadata.
func (c *Collection[T]) WithPagination(p database.Pagination) *Collection[T] {
	c.pagination = &p
	return c
}

// WithMeta attaches extra metadata.
func (c *Collection[T]) WithMeta(meta Map) *Collection[T] {
	c.meta = meta
	return c
}

// Items applies the transformer to every element. Never returns nil, so an
// empty collection serializes as [] rather than null.
func (c *Collection[T]) Items() []Map {
	out := make([]Map, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.transform(item))
	}
	return out
}

// Respond writes the collection as JSON with status 200.
func (c *Collection[T]) Respond(w http.ResponseWriter) {
	out := Map{"data": c.Items()}
	if c.pagination != nil {
		out["pagination"] = c.pagination
	}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------- Helpers -------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
