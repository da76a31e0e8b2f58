package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pixstudio/internal/blob"
	"pixstudio/internal/variation"
)

// Point is a pixel coordinate in the natural (full-resolution) image space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Session owns one edit workflow: the history stack, the pending retouch
// hotspot, and the variation list. All mutation goes through methods holding
// the session lock; this is the single-writer discipline of the original
// event-loop model.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	history    *History
	hotspot    *Point
	variations *variation.Orchestrator
}

// Snapshot is a read-only view of session state for API responses.
type Snapshot struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Cursor     int       `json:"cursor"`
	HistoryLen int       `json:"history_len"`
	CanUndo    bool      `json:"can_undo"`
	CanRedo    bool      `json:"can_redo"`
	ImageURL   string    `json:"image_url,omitempty"`
	Hotspot    *Point    `json:"hotspot,omitempty"`
}

func New(blobs *blob.Registry, variations *variation.Orchestrator) *Session {
	return &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		history:    NewHistory(blobs),
		variations: variations,
	}
}

// LoadImage starts the session over with a fresh upload. Pending hotspot
// state is cleared.
func (s *Session) LoadImage(data []byte, mime string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Load(data, mime)
	s.hotspot = nil
}

// CommitEdit appends a successful edit result and clears the hotspot.
func (s *Session) CommitEdit(data []byte, mime string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Commit(data, mime)
	s.hotspot = nil
}

func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.history.Undo()
	if ok {
		s.hotspot = nil
	}
	return ok
}

func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.history.Redo()
	if ok {
		s.hotspot = nil
	}
	return ok
}

func (s *Session) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.history.Reset()
	if ok {
		s.hotspot = nil
	}
	return ok
}

// Current returns the image under the cursor.
func (s *Session) Current() (ImageState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// SetHotspot records the retouch target in natural-pixel coordinates.
func (s *Session) SetHotspot(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotspot = &p
}

func (s *Session) Hotspot() *Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hotspot == nil {
		return nil
	}
	p := *s.hotspot
	return &p
}

func (s *Session) Variations() *variation.Orchestrator {
	return s.variations
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Cursor:     s.history.Cursor(),
		HistoryLen: s.history.Len(),
		CanUndo:    s.history.CanUndo(),
		CanRedo:    s.history.CanRedo(),
	}
	if cur, ok := s.history.Current(); ok {
		snap.ImageURL = cur.URL
	}
	if s.hotspot != nil {
		p := *s.hotspot
		snap.Hotspot = &p
	}
	return snap
}

// Close tears the session down, releasing the history blob URL and every
// resolved variation blob.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Close()
	s.hotspot = nil
	s.variations.Clear()
}

// Registry is the in-memory index of live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	return s, ok
}

// Remove deletes and closes the session. Unknown ids are a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}
