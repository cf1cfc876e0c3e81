package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldRecordID   = "record_id"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldFilter     = "filter"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentLedger  = "ledger"
)
