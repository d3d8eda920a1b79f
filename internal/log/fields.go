package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDate       = "date"
	FieldEntryID    = "entry_id"
	FieldLedger     = "ledger"
	FieldKey        = "key"
)

const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentTracker  = "tracker"
	ComponentStorage  = "storage"
	ComponentGemini   = "gemini"
	ComponentCache    = "cache"
	ComponentSettings = "settings"
)

const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpPromote   = "promote"
	OpRebalance = "rebalance"
	OpEstimate  = "estimate"
	OpSearch    = "search"
	OpSuggest   = "suggest"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
