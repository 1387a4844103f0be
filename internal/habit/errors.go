package habit

import (
	"errors"
	"fmt"
)

// MaxCount caps the count of a single event so per-day sums cannot overflow.
const MaxCount = 1000

var (
	// ErrInvalidCount is returned when an explicit increment count is outside
	// [1, MaxCount].
	ErrInvalidCount = errors.New("count must be between 1 and 1000")
	// ErrInvalidDate is returned for day keys that are not YYYY-MM-DD calendar days.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// StoreQueryError reports a failed read against the event or habit store.
type StoreQueryError struct {
	Op  string
	Err error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("store query %s: %v", e.Op, e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }

// StoreWriteError reports a failed insert or delete.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// ErrorKind names the failure class of err for logs and metrics:
// "query", "write" or "other".
func ErrorKind(err error) string {
	var qe *StoreQueryError
	if errors.As(err, &qe) {
		return "query"
	}
	var we *StoreWriteError
	if errors.As(err, &we) {
		return "write"
	}
	return "other"
}
