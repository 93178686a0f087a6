package counter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrParse is returned when step input is not an integer
	ErrParse = errors.New("step is not a number")

	// ErrRange is returned when step input is outside [MinStep, MaxStep]
	ErrRange = errors.New("step out of range")
)

// StepError describes rejected step input. For range errors Step holds the
// clamped value that was applied.
type StepError struct {
	Input string
	Step  int
	Err   error
}

func (e *StepError) Error() string {
	if errors.Is(e.Err, ErrRange) {
		return fmt.Sprintf("step must be between %d and %d (got %s)", MinStep, MaxStep, e.Input)
	}
	return fmt.Sprintf("%q is not a valid step", e.Input)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ParseStep converts user input into a step. Empty input parses to 0.
// Out of range numbers return the clamped step together with an ErrRange
// StepError; non numeric input returns an ErrParse StepError.
func ParseStep(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(text, "-") {
				return MinStep, &StepError{Input: text, Step: MinStep, Err: ErrRange}
			}
			return MaxStep, &StepError{Input: text, Step: MaxStep, Err: ErrRange}
		}
		return 0, &StepError{Input: text, Err: ErrParse}
	}

	switch {
	case n > MaxStep:
		return MaxStep, &StepError{Input: text, Step: MaxStep, Err: ErrRange}
	case n < MinStep:
		return MinStep, &StepError{Input: text, Step: MinStep, Err: ErrRange}
	}
	return n, nil
}
