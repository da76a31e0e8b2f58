package session

import (
	"pixstudio/internal/blob"
)

// ImageState is one entry in an edit history: the image bytes, their MIME
// type, and, for the current entry only, a live blob URL for display.
type ImageState struct {
	Data []byte
	MIME string
	URL  string
}

// History is the undo/redo stack for one edit session. Index 0 is always the
// original upload; the cursor addresses the image currently shown. Only the
// entry under the cursor holds a live blob URL; every cursor move revokes the
// previous URL and allocates one for the new current entry.
type History struct {
	blobs  *blob.Registry
	states []ImageState
	cursor int
}

func NewHistory(blobs *blob.Registry) *History {
	return &History{blobs: blobs, cursor: -1}
}

// Load replaces the entire history with a single entry and points the cursor
// at it. Any previously held blob URL is revoked first.
func (h *History) Load(data []byte, mime string) {
	h.revokeCurrent()
	h.states = []ImageState{{Data: data, MIME: mime}}
	h.cursor = 0
	h.allocateCurrent()
}

// Commit truncates everything past the cursor, appends the new image, and
// advances the cursor to it. A redo branch, if any, is discarded.
func (h *History) Commit(data []byte, mime string) {
	if h.cursor < 0 {
		h.Load(data, mime)
		return
	}
	h.revokeCurrent()
	h.states = append(h.states[:h.cursor+1], ImageState{Data: data, MIME: mime})
	h.cursor = len(h.states) - 1
	h.allocateCurrent()
}

// Undo moves the cursor back one entry. At index 0 it is a no-op.
func (h *History) Undo() bool {
	if h.cursor <= 0 {
		return false
	}
	h.setCursor(h.cursor - 1)
	return true
}

// Redo moves the cursor forward one entry. At the last index it is a no-op.
func (h *History) Redo() bool {
	if h.cursor < 0 || h.cursor >= len(h.states)-1 {
		return false
	}
	h.setCursor(h.cursor + 1)
	return true
}

// Reset moves the cursor back to the original without truncating, so the
// whole edit chain stays redoable.
func (h *History) Reset() bool {
	if h.cursor <= 0 {
		return false
	}
	h.setCursor(0)
	return true
}

// Current returns the entry under the cursor.
func (h *History) Current() (ImageState, bool) {
	if h.cursor < 0 || h.cursor >= len(h.states) {
		return ImageState{}, false
	}
	return h.states[h.cursor], true
}

// Original returns the first entry, the unedited upload.
func (h *History) Original() (ImageState, bool) {
	if len(h.states) == 0 {
		return ImageState{}, false
	}
	return h.states[0], true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.states)-1 }

func (h *History) Len() int { return len(h.states) }

func (h *History) Cursor() int { return h.cursor }

// Close revokes the live blob URL and drops the stack. Safe to call more
// than once.
func (h *History) Close() {
	h.revokeCurrent()
	h.states = nil
	h.cursor = -1
}

func (h *History) setCursor(i int) {
	h.revokeCurrent()
	h.cursor = i
	h.allocateCurrent()
}

func (h *History) revokeCurrent() {
	if h.cursor < 0 || h.cursor >= len(h.states) {
		return
	}
	if url := h.states[h.cursor].URL; url != "" {
		h.blobs.Revoke(url)
		h.states[h.cursor].URL = ""
	}
}

func (h *History) allocateCurrent() {
	if h.cursor < 0 || h.cursor >= len(h.states) {
		return
	}
	st := &h.states[h.cursor]
	st.URL = h.blobs.Allocate(st.Data, st.MIME)
}
