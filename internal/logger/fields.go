package logger

// Fields is a set of structured log fields.
type Fields map[string]interface{}

// Tracing fields, propagated through context.
const (
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"
	FieldJobID     = "job_id" // job_logs row id
	FieldComponent = "component"
	FieldSource    = "source"
	FieldKind      = "kind"
)

// Metric fields, attached per entry.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"
)
