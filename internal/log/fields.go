package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldCardID      = "card_id"
	FieldLast4       = "last4"
	FieldTxID        = "transaction_id"
	FieldMerchant    = "merchant"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldThreshold   = "threshold"
	FieldQueue       = "queue"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentCards     = "cards"
	ComponentTx        = "transactions"
	ComponentIngest    = "ingest"
	ComponentNotify    = "notify"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
)
