package blob

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// URLPrefix is the route under which registered blobs are served.
const URLPrefix = "/v1/blobs/"

// Blob is an in-memory image payload addressable through a registry URL.
type Blob struct {
	Data []byte
	MIME string
}

// Registry hands out process-local URLs for in-memory image bytes, the
// server-side analog of browser object URLs. A URL is valid until revoked;
// revoking an unknown URL is a no-op.
type Registry struct {
	mu    sync.Mutex
	blobs map[string]Blob
}

func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Allocate registers the payload and returns its serving URL.
func (r *Registry) Allocate(data []byte, mime string) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.blobs[id] = Blob{Data: data, MIME: mime}
	r.mu.Unlock()
	return URLPrefix + id
}

// Revoke releases the payload behind a previously allocated URL.
func (r *Registry) Revoke(url string) {
	// Accepts both full URLs and bare identifiers.
	id := strings.TrimPrefix(url, URLPrefix)
	if id == "" {
		return
	}
	r.mu.Lock()
	delete(r.blobs, id)
	r.mu.Unlock()
}

// Get resolves a bare blob identifier.
func (r *Registry) Get(id string) (Blob, bool) {
	r.mu.Lock()
	b, ok := r.blobs[id]
	r.mu.Unlock()
	return b, ok
}

// Len reports the number of live blobs. Used by tests to verify release.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
