package budget

import "errors"

var (
	// ErrNoItems is returned when an adjustment is requested for an empty item list.
	ErrNoItems = errors.New("budget: no line items to adjust")

	// ErrInvalidAmount is returned when an amount is missing or not an integer.
	ErrInvalidAmount = errors.New("budget: amount is not a valid integer")

	// ErrAmountOverflow is returned when summing amounts exceeds the int64 range.
	ErrAmountOverflow = errors.New("budget: amount sum overflows")

	// ErrInvalidRatio is returned for a funding split outside [0, 1].
	ErrInvalidRatio = errors.New("budget: invalid funding ratio")
)
