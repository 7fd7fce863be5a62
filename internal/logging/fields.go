package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for sync run identifiers.
	FieldRunID = "run_id"
	// FieldRecordKey is the standardized structured logging key for catalog record keys.
	FieldRecordKey = "record_key"
	// FieldRecordTitle is the standardized structured logging key for record display names.
	FieldRecordTitle = "record_title"
	// FieldRecordState is the standardized structured logging key for record lifecycle states.
	FieldRecordState = "record_state"
	// FieldPublisher is the standardized structured logging key for record publishers.
	FieldPublisher = "publisher"
	// FieldRule is the standardized structured logging key for exclusion rule patterns.
	FieldRule = "rule"
	// FieldRuleField is the standardized structured logging key for the field an exclusion rule matched on.
	FieldRuleField = "rule_field"
	// FieldResultCode is the standardized structured logging key for console result codes.
	FieldResultCode = "result_code"
	// FieldCandidateIndex is the standardized structured logging key for the 1-based position in a submission pass.
	FieldCandidateIndex = "candidate_index"
	// FieldCandidateTotal is the standardized structured logging key for planned submissions in a pass.
	FieldCandidateTotal = "candidate_total"
	// FieldProgressPercent is the standardized structured logging key for pass completion percentage.
	FieldProgressPercent = "progress_percent"
	// FieldProgressETA is the standardized structured logging key for estimated remaining time.
	FieldProgressETA = "progress_eta"
	// FieldEventType tags log lines with a machine-matchable event name.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator next steps.
	FieldErrorHint = "error_hint"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
