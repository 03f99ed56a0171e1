// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package form holds the submission state machine for a citation entry
// form. One Controller owns one form instance: its editable field state,
// the single in-flight submission, and the last result or error. There is
// no shared state across controllers.
package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AyaanShaheer/cite-engine/internal/citeapi"
	"github.com/AyaanShaheer/cite-engine/internal/request"
	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

// State is the authoritative lifecycle state of a form instance. Exactly
// one value holds at a time, so combinations like "submitting and showing
// an error" are unrepresentable.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateResult:
		return "displaying_result"
	case StateError:
		return "displaying_error"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when a submission is attempted while one is already
// in flight. The caller re-enables submission when the state leaves
// StateSubmitting.
var ErrBusy = errors.New("a submission is already in flight")

// copyFeedbackDuration is how long the copy confirmation stays visible.
const copyFeedbackDuration = 2 * time.Second

// Generator is the slice of the service client the controller uses.
type Generator interface {
	GenerateFromMetadata(ctx context.Context, meta types.SourceMetadata, style types.CitationStyle, format string) (types.Citation, error)
	GenerateFromFreeText(ctx context.Context, text string, style types.CitationStyle) (types.Citation, error)
}

// Controller drives one citation form through
// idle → validating → submitting → result/error transitions.
type Controller struct {
	mu sync.Mutex

	client Generator

	// onUpdate is invoked (outside the lock) after every state change.
	onUpdate func()

	// logf receives non-critical diagnostics, e.g. clipboard failures.
	logf func(format string, args ...any)

	form  request.FormState
	state State

	// Last successful result and the metadata that produced it. They
	// survive edits and errors until the next success overwrites them.
	result     *types.Citation
	resultMeta *types.SourceMetadata

	errMsg       string
	errTransport bool

	// generation invalidates in-flight submissions on Reset/Close so a
	// late response is discarded instead of applied to stale state.
	generation int
	closed     bool

	copiedUntil time.Time
}

// New creates a controller. onUpdate and logf may be nil.
func New(client Generator, onUpdate func(), logf func(string, ...any)) *Controller {
	if onUpdate == nil {
		onUpdate = func() {}
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Controller{
		client:   client,
		onUpdate: onUpdate,
		logf:     logf,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns a copy of the editable form state.
func (c *Controller) Form() request.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Edit mutates the editable form state. Editing after a terminal state
// does not clear the previous result or error; the old citation stays
// visible until a new successful submission replaces it.
func (c *Controller) Edit(mutate func(*request.FormState)) {
	c.mu.Lock()
	mutate(&c.form)
	c.mu.Unlock()
	c.onUpdate()
}

// Result returns the last successful citation and its source metadata, or
// nil when none has been produced yet.
func (c *Controller) Result() (*types.Citation, *types.SourceMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.resultMeta
}

// Err returns the displayed error message, empty outside StateError, and
// whether it is a connection-level failure.
func (c *Controller) Err() (msg string, transport bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateError {
		return "", false
	}
	return c.errMsg, c.errTransport
}

// DismissError clears a displayed error and returns the form to idle.
func (c *Controller) DismissError() {
	c.mu.Lock()
	if c.state == StateError {
		c.state = StateIdle
		c.errMsg = ""
		c.errTransport = false
	}
	c.mu.Unlock()
	c.onUpdate()
}

// Submit validates the form and, if it passes, starts the single network
// round trip in the background. It returns ErrBusy while a submission is
// in flight and a *request.ValidationError when the local check fails;
// either way no second request is started.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("form is closed")
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}

	c.state = StateValidating
	meta, style, err := request.Build(c.form)
	if err != nil {
		c.state = StateError
		c.errMsg = err.Error()
		c.errTransport = false
		c.mu.Unlock()
		c.onUpdate()
		return err
	}

	c.state = StateSubmitting
	c.generation++
	gen := c.generation
	c.mu.Unlock()
	c.onUpdate()

	go func() {
		citation, err := c.client.GenerateFromMetadata(ctx, meta, style, "text")
		c.apply(gen, citation, &meta, err)
	}()
	return nil
}

// SubmitFreeText runs the quick-generate flow from a natural-language
// description. Empty input fails locally without a network call.
func (c *Controller) SubmitFreeText(ctx context.Context, text string, style types.CitationStyle) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("form is closed")
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}

	c.state = StateValidating
	if isBlank(text) {
		c.state = StateError
		c.errMsg = "describe the source to cite"
		c.errTransport = false
		c.mu.Unlock()
		c.onUpdate()
		return &request.ValidationError{Missing: []string{"text"}}
	}

	c.state = StateSubmitting
	c.generation++
	gen := c.generation
	c.mu.Unlock()
	c.onUpdate()

	go func() {
		citation, err := c.client.GenerateFromFreeText(ctx, text, style)
		c.apply(gen, citation, nil, err)
	}()
	return nil
}

// apply installs the outcome of a round trip. Responses from a superseded
// generation (the controller was reset or closed meanwhile) are discarded.
func (c *Controller) apply(gen int, citation types.Citation, meta *types.SourceMetadata, err error) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.state = StateError
		c.errMsg, c.errTransport = displayError(err)
		c.mu.Unlock()
		c.onUpdate()
		return
	}

	c.state = StateResult
	c.result = &citation
	c.resultMeta = meta
	c.errMsg = ""
	c.errTransport = false
	c.mu.Unlock()
	c.onUpdate()
}

// displayError maps a client error to the banner message. Service-reported
// messages are shown verbatim; transport failures keep their distinct
// connection wording.
func displayError(err error) (msg string, transport bool) {
	var apiErr *citeapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, apiErr.Kind == citeapi.KindTransport
	}
	return err.Error(), false
}

// CopyCitation writes the full citation string through write (e.g. to the
// system clipboard) and arms the transient confirmation. A write failure
// is logged, never surfaced as a blocking error.
func (c *Controller) CopyCitation(write func(string) error) bool {
	c.mu.Lock()
	if c.result == nil {
		c.mu.Unlock()
		return false
	}
	text := c.result.Citation
	c.mu.Unlock()

	if err := write(text); err != nil {
		c.logf("clipboard write failed: %v", err)
		return false
	}

	c.mu.Lock()
	c.copiedUntil = time.Now().Add(copyFeedbackDuration)
	c.mu.Unlock()
	c.onUpdate()
	return true
}

// CopiedRecently reports whether the copy confirmation is still visible.
func (c *Controller) CopiedRecently() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Before(c.copiedUntil)
}

// Reset returns the controller to a blank idle form. Any in-flight
// submission is invalidated; its late response will be discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.form = request.FormState{}
	c.state = StateIdle
	c.result = nil
	c.resultMeta = nil
	c.errMsg = ""
	c.errTransport = false
	c.generation++
	c.mu.Unlock()
	c.onUpdate()
}

// Close dismantles the controller. Late responses are discarded and
// further submissions are rejected.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.mu.Unlock()
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// Busy reports whether a submission is in flight; the submit action is
// disabled while it is.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSubmitting
}
