package cadimport

import "github.com/pkg/errors"

// Kind classifies errors produced while importing CAD data.
type Kind int

const (
	// KindIO marks failures of the underlying byte source.
	KindIO Kind = iota
	// KindInvalidFormat marks structural violations of the input data:
	// missing or unexpected keywords, wrong section order, zero counts,
	// out-of-range material ids, unknown primitive types.
	KindInvalidFormat
	// KindInvalidArgument marks bad caller-supplied values such as a
	// non-positive sag bound.
	KindInvalidArgument
	// KindIndices marks index data referencing vertices that do not exist.
	KindIndices
	// KindInternal marks broken invariants inside the library itself.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidFormat:
		return "invalid format"
	case KindInvalidArgument:
		return "invalid argument"
	case KindIndices:
		return "indices"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.kind.String() + ": " + e.err.Error() }
func (e *kindError) Cause() error  { return e.err }
func (e *kindError) Unwrap() error { return e.err }

// NewError wraps err with the given kind.
func NewError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// Errorf creates a new classified error from a format string.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &kindError{kind: kind, err: errors.Errorf(format, args...)}
}

// WrapError annotates err with a message and classifies it.
func WrapError(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: errors.Wrap(err, message)}
}

// KindOf reports the classification of err, walking the cause chain.
// Unclassified errors report KindInternal.
func KindOf(err error) Kind {
	for err != nil {
		if ke, ok := err.(*kindError); ok {
			return ke.kind
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return KindInternal
}

// IsKind reports whether err is classified with the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
