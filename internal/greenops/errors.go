package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrInvalidUnit indicates an unrecognized footprint unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative footprint. Emissions cannot be negative.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a NaN, Inf, or overflowing value.
	ErrCalculationOverflow = constError("calculation overflow")
)
