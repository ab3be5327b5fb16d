// Package consult recommends a menu product for a free-text request using a
// generative-language model constrained to a structured answer.
package consult

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"vitranbakery.vn/bakery-web/internal/catalog"
)

var (
	// ErrNotReady means the input is blank or the catalog is empty; nothing was sent.
	ErrNotReady = errors.New("consult: input or catalog missing")
	// ErrBusy means a consultation for the same visitor is still in flight.
	ErrBusy = errors.New("consult: request already in flight")
	// ErrMalformedResponse means the model answer could not be parsed.
	ErrMalformedResponse = errors.New("consult: malformed model response")
	// ErrDisabled means no generator is configured.
	ErrDisabled = errors.New("consult: disabled")
)

// MaxInputRunes bounds the visitor text forwarded to the model.
const MaxInputRunes = 500

// State is the consultation lifecycle: idle -> submitting -> success|failure -> idle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "idle"
	}
}

// Generator sends a prompt to a text model and returns its raw text answer.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, p Prompt) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, p Prompt) (string, error) { return f(ctx, p) }

// Request is one submission from a visitor.
type Request struct {
	// SessionID scopes the single-flight guard.
	SessionID string
	Input     string
}

// Result is the outcome of a submission. Product is nil when the model named
// something that is not on the menu.
type Result struct {
	ID             string
	State          State
	Recommendation Recommendation
	Product        *catalog.Product
}

// Consultant runs consultations. It is safe for concurrent use.
type Consultant struct {
	gen    Generator
	logger *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option customises a Consultant.
type Option func(*Consultant)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Consultant) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a consultant. A nil generator yields a disabled consultant.
func New(gen Generator, opts ...Option) *Consultant {
	c := &Consultant{
		gen:      gen,
		logger:   zap.NewNop(),
		inflight: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a generator is configured.
func (c *Consultant) Enabled() bool { return c != nil && c.gen != nil }

// State reports whether a consultation is running for sessionID.
func (c *Consultant) State(sessionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inflight[sessionID]; ok {
		return StateSubmitting
	}
	return StateIdle
}

// Submit runs one consultation. The generator call is bound to ctx, so a visitor
// who disconnects cancels it. Failures are returned, never retried.
func (c *Consultant) Submit(ctx context.Context, req Request, snap catalog.Snapshot) (Result, error) {
	if !c.Enabled() {
		return Result{State: StateIdle}, ErrDisabled
	}
	input := clampInput(strings.TrimSpace(req.Input))
	if input == "" || snap.Empty() {
		return Result{State: StateIdle}, ErrNotReady
	}
	if !c.acquire(req.SessionID) {
		return Result{State: StateSubmitting}, ErrBusy
	}
	defer c.release(req.SessionID)

	id := ulid.Make().String()
	logger := c.logger.With(zap.String("consultation_id", id))

	text, err := c.gen.Generate(ctx, BuildPrompt(snap.Names(), input))
	if err != nil {
		logger.Warn("consultation generate failed", zap.Error(err))
		return Result{ID: id, State: StateFailure}, fmt.Errorf("consult: generate: %w", err)
	}
	rec, err := ParseRecommendation(text)
	if err != nil {
		logger.Warn("consultation response rejected", zap.Error(err))
		return Result{ID: id, State: StateFailure}, err
	}

	res := Result{ID: id, State: StateSuccess, Recommendation: rec}
	if p, ok := snap.ByName(rec.ProductName); ok {
		res.Product = &p
	} else {
		logger.Info("consultation named product not on menu", zap.String("product_name", rec.ProductName))
	}
	logger.Info("consultation completed", zap.Bool("matched", res.Product != nil))
	return res, nil
}

func (c *Consultant) acquire(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[sessionID]; busy {
		return false
	}
	c.inflight[sessionID] = struct{}{}
	return true
}

func (c *Consultant) release(sessionID string) {
	c.mu.Lock()
	delete(c.inflight, sessionID)
	c.mu.Unlock()
}

func clampInput(s string) string {
	r := []rune(s)
	if len(r) <= MaxInputRunes {
		return s
	}
	return string(r[:MaxInputRunes])
}
