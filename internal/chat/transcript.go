package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender tags who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one transcript entry. Messages are append-only and never
// mutated after creation.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Segments  []Segment `json:"segments,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is the append-only conversation log.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records a message, tokenizing its text into rendering segments.
func (t *Transcript) Append(sender Sender, text, imageURL string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Segments:  Segments(text),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	return msg
}

// List returns a snapshot of the transcript in append order.
func (t *Transcript) List() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
