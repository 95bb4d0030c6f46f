package loss

import (
	"fmt"

	"github.com/signalnine/hyperdrome/internal/result"
)

// Loss turns a raw result row into the scalar the search driver optimizes.
// Implementations must be deterministic functions of the row's fields.
type Loss interface {
	Calculate(row result.Row) (float64, error)
}

// ComputeError reports a row that is present but unusable: a missing output
// field or one that cannot be coerced to a number.
type ComputeError struct {
	TrialID string
	Field   int
	Err     error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("computing loss for trial %s, output field %d: %v", e.TrialID, e.Field, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

// Field reads a single numeric output field. Index 0 is the first field
// after the trial id.
type Field struct {
	Index int
}

func (f Field) Calculate(row result.Row) (float64, error) {
	if f.Index < 0 || f.Index >= len(row.Outputs()) {
		return 0, &ComputeError{
			TrialID: row.TrialID(),
			Field:   f.Index,
			Err:     fmt.Errorf("row has %d output fields", len(row.Outputs())),
		}
	}
	v, err := row.Float(f.Index)
	if err != nil {
		return 0, &ComputeError{TrialID: row.TrialID(), Field: f.Index, Err: err}
	}
	return v, nil
}

// Func adapts a plain function to the Loss interface.
type Func func(row result.Row) (float64, error)

func (f Func) Calculate(row result.Row) (float64, error) { return f(row) }
