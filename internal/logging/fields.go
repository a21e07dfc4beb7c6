package logging

// Standardized field names shared across components so log queries stay
// stable regardless of which subsystem emitted the record.
const (
	FieldComponent    = "component"
	FieldEventType    = "event_type"
	FieldDecisionType = "decision_type"
	FieldErrorHint    = "error_hint"
	FieldRequestID    = "request_id"
	FieldSongID       = "song_id"
	FieldProvider     = "provider"
	FieldStrategy     = "strategy"
	FieldState        = "state"
)
