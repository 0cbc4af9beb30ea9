package form

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/pkg/helper"
)

// Color of the status message shown next to the identifier field.
type Color string

const (
	ColorAvailable   Color = "#16a34a"
	ColorUnavailable Color = "#dc2626"
)

// Result is the availability verdict for one identifier.
type Result struct {
	Available bool
	Message   string
}

// Checker asks the identifier-availability service about one identifier.
type Checker interface {
	CheckID(ctx context.Context, identifier string) (Result, error)
}

// View is the host document the controller drives.
// Calls are made while the controller lock is held, so a View must not call back into the Controller.
type View interface {
	SetStatus(message string, color Color)
	ClearStatus()
	SetSubmitEnabled(enabled bool)
}

// Verification is the state of the identifier availability check.
type Verification int

const (
	Unchecked Verification = iota
	Checking
	Verified
	Rejected
)

func (v Verification) String() string {
	switch v {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("verification(%d)", int(v))
	}
}

// Controller owns the FormState of one page and is the only thing that mutates it.
type Controller struct {
	mu            sync.Mutex
	state         FormState
	verification  Verification
	generation    uint64
	submitEnabled bool

	checker  Checker
	view     View
	logger   interfaces.Logger
	timeout  time.Duration
	handlers map[Binding]handlerFunc
}

// NewController creates a controller for an empty form, registers the event
// table and runs the initial validity evaluation (submit disabled).
// A zero timeout leaves checks bounded only by the caller's context.
func NewController(checker Checker, view View, logger interfaces.Logger, timeout time.Duration) *Controller {
	c := &Controller{
		checker: checker,
		view:    view,
		logger:  logger,
		timeout: timeout,
	}
	c.registerHandlers()

	c.mu.Lock()
	c.evaluateLocked()
	c.mu.Unlock()

	return c
}

// RequestIdentifierCheck asks the checker whether identifier is free and
// applies the answer if it is still the latest request for the current
// identifier. Superseded answers are dropped with ErrStaleResponse. An
// identifier other than the form's current one fails with ErrIdentifierChanged
// and leaves the verification state untouched.
func (c *Controller) RequestIdentifierCheck(ctx context.Context, identifier string) (Result, error) {
	funcName := helper.GetFuncName()
	identifier = strings.TrimSpace(identifier)

	c.mu.Lock()
	if identifier != strings.TrimSpace(c.state.Identifier) {
		c.mu.Unlock()
		c.logger.Debug("Identifier no longer in form", "func", funcName, "identifier", identifier)
		return Result{}, ErrIdentifierChanged
	}
	c.generation++
	generation := c.generation
	c.verification = Checking
	c.mu.Unlock()

	c.logger.Debug("Checking identifier", "func", funcName, "identifier", identifier, "generation", generation)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	result, err := c.checker.CheckID(ctx, identifier)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Every edit bumps the generation, so a matching generation also means
	// the identifier is unchanged.
	if generation != c.generation {
		c.logger.Debug("Discarding stale identifier check", "func", funcName, "identifier", identifier,
			"generation", generation, "latest", c.generation)
		return result, ErrStaleResponse
	}

	if err != nil {
		c.logger.Warn("Identifier check failed", "func", funcName, "identifier", identifier, "error", err)
		c.verification = Unchecked
		c.state.IdentifierVerified = false
		c.view.SetStatus(FailureMessage(err), ColorUnavailable)
		c.evaluateLocked()
		return Result{}, err
	}

	c.state.IdentifierVerified = result.Available
	if result.Available {
		c.verification = Verified
		c.view.SetStatus(result.Message, ColorAvailable)
	} else {
		c.verification = Rejected
		c.view.SetStatus(result.Message, ColorUnavailable)
	}
	c.logger.Info("Identifier checked", "func", funcName, "identifier", identifier, "available", result.Available)
	c.evaluateLocked()

	return result, nil
}

// OnIdentifierEdited records a new identifier value. Any previous
// verification is void and any check in flight becomes stale.
func (c *Controller) OnIdentifierEdited(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Identifier = value
	c.state.IdentifierVerified = false
	c.verification = Unchecked
	c.generation++
	c.view.ClearStatus()
	c.evaluateLocked()
}

func (c *Controller) SetPassword(value string) {
	c.update(func(s *FormState) { s.Password = value })
}

func (c *Controller) SetPasswordConfirmation(value string) {
	c.update(func(s *FormState) { s.PasswordConfirmation = value })
}

func (c *Controller) SetDisplayName(value string) {
	c.update(func(s *FormState) { s.DisplayName = value })
}

func (c *Controller) SetEmail(value string) {
	c.update(func(s *FormState) { s.Email = value })
}

func (c *Controller) SetTermsAccepted(accepted bool) {
	c.update(func(s *FormState) { s.TermsAccepted = accepted })
}

// State returns a copy of the current form state.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Verification returns the current identifier check state.
func (c *Controller) Verification() Verification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verification
}

// SubmitEnabled reports the last value pushed to the submit control.
func (c *Controller) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitEnabled
}

func (c *Controller) update(mutate func(s *FormState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mutate(&c.state)
	c.evaluateLocked()
}

func (c *Controller) evaluateLocked() {
	c.submitEnabled = Evaluate(c.state)
	c.view.SetSubmitEnabled(c.submitEnabled)
}
