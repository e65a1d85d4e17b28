// Package checkout drives the three-step checkout flow: user details, then
// addresses, then payment. Steps are strictly linear; the only gate on
// advancing is each step's own submit handler completing its API calls.
package checkout

// Step is one of the three checkout steps.
type Step int

const (
	StepDetails Step = iota + 1
	StepAddress
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepAddress:
		return "address"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Sequencer tracks the active step. Transitions clamp at the ends; there is
// no skip-ahead.
type Sequencer struct {
	current Step
}

// NewSequencer starts at the details step.
func NewSequencer() *Sequencer {
	return &Sequencer{current: StepDetails}
}

// Current returns the active step.
func (s *Sequencer) Current() Step {
	return s.current
}

// Next advances one step, clamping at payment.
func (s *Sequencer) Next() Step {
	if s.current < StepPayment {
		s.current++
	}
	return s.current
}

// Previous goes back one step, clamping at details.
func (s *Sequencer) Previous() Step {
	if s.current > StepDetails {
		s.current--
	}
	return s.current
}
