package logs

// Span identifies one region of execution, such as a single flow program
// run, in log records.
type Span string

type spanKeyType struct{}

// SpanKey is the context key holding the current Span.
var SpanKey spanKeyType
