// Package wizard implements the three step team registration flow:
// count selection, participant details and review. A Wizard is owned by a
// single interactive session and is not safe for concurrent use.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"github.com/Geniuskaa/hackathon_registration/internal/submit"
)

type Step int

const (
	CountSelection Step = iota
	Details
	Review
	Submitting
)

func (s Step) String() string {
	switch s {
	case CountSelection:
		return "count"
	case Details:
		return "details"
	case Review:
		return "review"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrInvalidCount = registration.ErrInvalidCount
	ErrWrongStep    = errors.New("action is not available at this step")
	ErrBusy         = errors.New("submission in progress")
	ErrNoSuchSlot   = errors.New("no participant at this position")
)

type Submitter interface {
	Submit(ctx context.Context, p registration.Payload) (submit.Result, error)
}

// Receipt is returned after a submission the wizard counts as successful.
type Receipt struct {
	TeamID string
	Result submit.Result
}

// Confirmed is false for submissions that went out over the script path.
func (r Receipt) Confirmed() bool {
	return r.Result.Status == submit.Confirmed
}

type Wizard struct {
	step    Step
	count   int
	reg     registration.Registration
	errs    registration.FieldErrors
	lastErr *submit.Error

	submitter Submitter
	teamIDs   *registration.TeamIDGenerator
}

type Option func(*Wizard)

func WithTeamIDs(gen *registration.TeamIDGenerator) Option {
	return func(w *Wizard) { w.teamIDs = gen }
}

func New(submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{step: CountSelection, submitter: submitter}
	for _, opt := range opts {
		opt(w)
	}
	if w.teamIDs == nil {
		w.teamIDs = registration.NewTeamIDGenerator(nil)
	}
	return w
}

func (w *Wizard) Step() Step {
	return w.step
}

// Count is the last selected team size, 0 when nothing is selected.
func (w *Wizard) Count() int {
	return w.count
}

func (w *Wizard) Participants() []registration.Participant {
	out := make([]registration.Participant, len(w.reg.Participants))
	copy(out, w.reg.Participants)
	return out
}

func (w *Wizard) Errors() registration.FieldErrors {
	return w.errs
}

// LastError is the failure of the latest submission attempt, nil otherwise.
func (w *Wizard) LastError() *submit.Error {
	return w.lastErr
}

func (w *Wizard) SelectCount(n int) error {
	if w.step != CountSelection {
		return w.stepErr()
	}

	reg, err := registration.NewRegistration(n)
	if err != nil {
		return err
	}

	w.count = n
	w.reg = reg
	w.errs = nil
	w.step = Details
	return nil
}

// Edit mutates participant i in place. Allowed only while filling details.
func (w *Wizard) Edit(i int, fn func(p *registration.Participant)) error {
	if w.step != Details {
		return w.stepErr()
	}
	if i < 0 || i >= len(w.reg.Participants) {
		return fmt.Errorf("Edit failed: %w: %d", ErrNoSuchSlot, i)
	}

	fn(&w.reg.Participants[i])
	return nil
}

// Next validates every participant. On failure the wizard stays at Details
// and the returned error is a registration.FieldErrors.
func (w *Wizard) Next() error {
	if w.step != Details {
		return w.stepErr()
	}

	w.errs = registration.Validate(w.reg)
	if len(w.errs) > 0 {
		return w.errs
	}

	w.step = Review
	return nil
}

func (w *Wizard) Back() error {
	switch w.step {
	case Details:
		// count stays selected, the participant list is dropped
		w.reg = registration.Registration{}
		w.errs = nil
		w.step = CountSelection
	case Review:
		w.lastErr = nil
		w.step = Details
	default:
		return w.stepErr()
	}
	return nil
}

// Submit sends the registration once. The team id is generated before the
// backend answers and travels in the payload. Any failure leaves the wizard
// at Review with LastError set.
func (w *Wizard) Submit(ctx context.Context) (Receipt, error) {
	if w.step != Review {
		return Receipt{}, w.stepErr()
	}

	w.step = Submitting
	w.lastErr = nil

	if errs := registration.Validate(w.reg); len(errs) > 0 {
		w.errs = errs
		return Receipt{}, w.fail(submit.NewError(submit.KindInvalid, errs))
	}

	teamID := w.teamIDs.Next()
	res, err := w.submitter.Submit(ctx, registration.NewPayload(teamID, w.reg))
	if err != nil {
		return Receipt{}, w.fail(submit.AsError(err))
	}

	w.reset()
	return Receipt{TeamID: teamID, Result: res}, nil
}

func (w *Wizard) fail(err *submit.Error) error {
	w.lastErr = err
	w.step = Review
	return err
}

func (w *Wizard) reset() {
	w.step = CountSelection
	w.count = 0
	w.reg = registration.Registration{}
	w.errs = nil
	w.lastErr = nil
}

func (w *Wizard) stepErr() error {
	if w.step == Submitting {
		return ErrBusy
	}
	return fmt.Errorf("%w (at %s)", ErrWrongStep, w.step)
}
