package pipeline

// Stage names, used as log fields and metric labels.
const (
	StageExtracting  = "extracting"
	StageTranslating = "translating"
	StageSummarizing = "summarizing"
	StageAssembled   = "assembled"
)

// Stage failure reasons
const (
	ReasonError    = "error"
	ReasonTimeout  = "timeout"
	ReasonCanceled = "canceled"
)

// Log field constants
const (
	LogFieldRequestID   = "request_id"
	LogFieldStage       = "stage"
	LogFieldContentType = "content_type"
	LogFieldBytes       = "bytes"
	LogFieldElapsedMS   = "elapsed_ms"
)
