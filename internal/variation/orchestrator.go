package variation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pixstudio/internal/blob"
)

// mixCategoryCount is how many distinct categories a "mix" request samples.
const mixCategoryCount = 3

// Source is the image a variation is generated from.
type Source struct {
	Data []byte
	MIME string
}

// Result is a generated variation image.
type Result struct {
	Data []byte
	MIME string
}

// Generator produces one variation image for an instruction. Implementations
// wrap the upstream image service.
type Generator interface {
	Generate(ctx context.Context, instruction string, src Source) (Result, error)
}

// Record tracks one variation request. It is created in flight and
// transitions exactly once to resolved (URL set) or failed (Err set).
type Record struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Instruction string    `json:"instruction"`
	URL         string    `json:"url,omitempty"`
	MIME        string    `json:"mime,omitempty"`
	InFlight    bool      `json:"in_flight"`
	Err         string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Orchestrator fires independent generation requests and tracks each one by
// identifier. Completions key into the record list; a completion whose id is
// gone (the list was cleared) is dropped silently. The display list is
// most-recent-first.
type Orchestrator struct {
	gen     Generator
	catalog *Catalog
	blobs   *blob.Registry
	logger  zerolog.Logger

	mu      sync.Mutex
	records []*Record
}

func NewOrchestrator(gen Generator, catalog *Catalog, blobs *blob.Registry, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{gen: gen, catalog: catalog, blobs: blobs, logger: logger}
}

// Start creates an in-flight record at the head of the list and dispatches
// the generation request on its own goroutine.
func (o *Orchestrator) Start(label, instruction string, src Source) Record {
	rec := &Record{
		ID:          uuid.NewString(),
		Label:       label,
		Instruction: instruction,
		InFlight:    true,
		CreatedAt:   time.Now().UTC(),
	}
	o.mu.Lock()
	o.records = append([]*Record{rec}, o.records...)
	// Snapshot before dispatch: complete() mutates rec under the lock and
	// may run before this function returns.
	out := *rec
	o.mu.Unlock()

	go o.dispatch(rec.ID, instruction, src)
	return out
}

// StartCategory picks a random instruction from the named category and
// starts a variation for it.
func (o *Orchestrator) StartCategory(category string, src Source) (Record, error) {
	instruction, err := o.catalog.RandomInstruction(category)
	if err != nil {
		return Record{}, err
	}
	return o.Start(category, instruction, src), nil
}

// StartMix samples distinct categories without replacement and starts one
// variation per sampled category. Each request resolves independently.
func (o *Orchestrator) StartMix(src Source) ([]Record, error) {
	cats := o.catalog.SampleCategories(mixCategoryCount)
	if len(cats) == 0 {
		return nil, fmt.Errorf("variation: preset catalog is empty")
	}
	out := make([]Record, 0, len(cats))
	for _, cat := range cats {
		instruction, err := o.catalog.RandomInstruction(cat.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, o.Start(cat.Name, instruction, src))
	}
	return out, nil
}

// StartBatch starts one variation per named category. Each request resolves
// independently; a failed category does not affect the others.
func (o *Orchestrator) StartBatch(categories []string, src Source) ([]Record, error) {
	out := make([]Record, 0, len(categories))
	for _, name := range categories {
		rec, err := o.StartCategory(name, src)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (o *Orchestrator) dispatch(id, instruction string, src Source) {
	// No deadline at this layer: the generator's own HTTP client governs
	// request lifetime.
	res, err := o.gen.Generate(context.Background(), instruction, src)
	o.complete(id, res, err)
}

// complete transitions the record with the given id. Stale or repeated
// completions are no-ops.
func (o *Orchestrator) complete(id string, res Result, err error) {
	o.mu.Lock()
	rec := o.find(id)
	if rec == nil || !rec.InFlight {
		o.mu.Unlock()
		o.logger.Debug().Str("variation_id", id).Msg("variation: dropping stale completion")
		return
	}
	label := rec.Label
	rec.InFlight = false
	if err != nil {
		rec.Err = err.Error()
		o.mu.Unlock()
		o.logger.Warn().Err(err).Str("variation_id", id).Str("label", label).Msg("variation: generation failed")
		return
	}
	rec.MIME = res.MIME
	rec.URL = o.blobs.Allocate(res.Data, res.MIME)
	o.mu.Unlock()
	o.logger.Debug().Str("variation_id", id).Str("label", label).Msg("variation: resolved")
}

// List returns a snapshot of the records, most recent first.
func (o *Orchestrator) List() []Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Record, len(o.records))
	for i, rec := range o.records {
		out[i] = *rec
	}
	return out
}

// Get returns a snapshot of one record.
func (o *Orchestrator) Get(id string) (Record, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if rec := o.find(id); rec != nil {
		return *rec, true
	}
	return Record{}, false
}

// Clear drops every record and revokes resolved blob URLs. In-flight
// requests keep running; their completions miss by identifier and are
// dropped.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, rec := range o.records {
		if rec.URL != "" {
			o.blobs.Revoke(rec.URL)
		}
	}
	o.records = nil
}

// find must be called with the lock held.
func (o *Orchestrator) find(id string) *Record {
	for _, rec := range o.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}
