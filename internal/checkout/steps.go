package checkout

import "fmt"

// Step is a position in the checkout flow.
type Step int

const (
	StepCart Step = iota
	StepShippingEntered
	StepPaymentChosen
	StepReviewConfirmed
	StepOrderPlaced
)

var stepNames = map[Step]string{
	StepCart:            "cart",
	StepShippingEntered: "shipping",
	StepPaymentChosen:   "payment",
	StepReviewConfirmed: "review",
	StepOrderPlaced:     "placed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalText encodes the step by name.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStep reads a step name as produced by String.
func ParseStep(name string) (Step, error) {
	for s, n := range stepNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown checkout step %q", name)
}
