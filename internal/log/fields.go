package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldVideoID   = "video_id"
	FieldUserID    = "user_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Upstream fields
	FieldInstance = "instance"
	FieldTier     = "tier"
	FieldPage     = "page"

	// Path fields
	FieldPath = "path"
)
