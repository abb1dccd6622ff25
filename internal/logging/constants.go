package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldExtractor   = "extractor"
	FieldCategory    = "category"
	FieldPattern     = "pattern"
	FieldDirection   = "direction"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldPages       = "pages"
	FieldLine        = "line"
	FieldLines       = "lines"
	FieldGroups      = "groups"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldRemoteAddr  = "remote_addr"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldFooterLine  = "footer_line"
	FieldRulesSource = "rules_source"
	FieldFiles       = "files"
	FieldFailed      = "failed"
	FieldDateRange   = "date_range"
	FieldAddress     = "address"
)
