package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotStarted       = errors.New("checkout has not been started")
	ErrStepNotReached   = errors.New("checkout step not reached")
	ErrSubmitInProgress = errors.New("order submission already in progress")
	ErrAlreadyPlaced    = errors.New("order already placed")

	// ErrCartChanged means the cart no longer matches the confirmed review.
	ErrCartChanged = fmt.Errorf("cart changed after review: %w", ErrStepNotReached)
)

// ValidationError reports failed form fields. Message is the summary shown to
// the shopper; Fields maps a json field name to its inline message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return e.Message + " (" + strings.Join(names, ", ") + ")"
}
