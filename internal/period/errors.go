package period

import "fmt"

// Kind classifies why a period could not be parsed.
type Kind int

const (
	// KindFormat means the text does not tokenize into the expected shape.
	KindFormat Kind = iota + 1
	// KindValidity means the fields are well formed but name no real date-time.
	KindValidity
	// KindOrdering means both date-times are valid but start is after end.
	KindOrdering
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindValidity:
		return "validity"
	case KindOrdering:
		return "ordering"
	default:
		return "unknown"
	}
}

// User-facing messages. Callers show them verbatim.
const (
	msgFormat   = "unable to parse date format"
	msgValidity = "your entered date is not possible"
	msgOrdering = "your starting date is after your ending date"
)

// Error is returned by every parse function.
// Message is safe to show to end users; Detail is for logs.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
}

func (e *Error) Error() string { return e.Message }

// Is matches another *Error of the same Kind, so the sentinels below
// work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrFormat   = &Error{Kind: KindFormat, Message: msgFormat}
	ErrValidity = &Error{Kind: KindValidity, Message: msgValidity}
	ErrOrdering = &Error{Kind: KindOrdering, Message: msgOrdering}
)

func formatError(detail string, args ...any) *Error {
	return &Error{
		Kind:    KindFormat,
		Message: msgFormat,
		Detail:  fmt.Sprintf(detail, args...),
	}
}
