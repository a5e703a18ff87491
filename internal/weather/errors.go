package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnCount is returned when a data row does not carry exactly 29 tokens.
	ErrColumnCount = errors.New("unexpected column count")
	// ErrInvalidValue is returned when a token cannot be coerced to its column kind.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidTimestamp is returned when a date/time pair is not a valid instant.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrNoReadings is returned by statistics that need at least one reading.
	ErrNoReadings = errors.New("no readings")
	// ErrUnknownDirection is returned for compass codes outside the 16-point rose.
	ErrUnknownDirection = errors.New("unknown compass direction")
	// ErrUnknownQuantity is returned when a column is not numeric or does not exist.
	ErrUnknownQuantity = errors.New("unknown quantity")
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageParse      Stage = "parse"
	StageNormalize  Stage = "normalize"
	StageStatistics Stage = "statistics"
)

// RowError reports a failure tied to one input row. Row is the 1-based line
// of the download for parse errors and the 1-based record position for
// normalize errors.
type RowError struct {
	Stage  Stage
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: row %d: %v", e.Stage, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: row %d: column %s: %q: %v", e.Stage, e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func statsErr(op string, err error) error {
	return fmt.Errorf("%s: %s: %w", StageStatistics, op, err)
}
