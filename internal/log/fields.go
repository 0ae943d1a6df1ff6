package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldTemplateID   = "template_id"
	FieldTemplateName = "template_name"
	FieldScheduleType = "schedule_type"
	FieldFrequency    = "frequency"
	FieldDueDate      = "due_date"
	FieldAmountCents  = "amount_cents"
	FieldMonth        = "month"
	FieldYear         = "year"
	FieldCategory     = "category"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSchedule = "schedule"
	ComponentBudget   = "budget"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
	ComponentExport   = "export"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpExpand   = "expand"
	OpExport   = "export"
	OpRemind   = "remind"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
