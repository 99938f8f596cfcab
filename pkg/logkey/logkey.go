package logkey

// Common slog attribute keys so log lines stay grep-able.
const (
	TraceID = "Trace ID"
	ERROR   = "Error"
	UserID  = "UserID"
)
