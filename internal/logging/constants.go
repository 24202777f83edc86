package logging

// Field names shared by every component so log lines can be filtered
// consistently.
const (
	FieldFile       = "file_path"
	FieldStage      = "stage"
	FieldRow        = "row"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDirection  = "direction"
	FieldPass       = "pass"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRunID      = "run_id"
)
