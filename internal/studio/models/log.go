package models

// ToolType identifies the operation kind recorded in a LogEntry.
type ToolType string

const (
	ToolImageGen   ToolType = "IMAGE_GEN"
	ToolImageEdit  ToolType = "IMAGE_EDIT"
	ToolVideoGen   ToolType = "VIDEO_GEN"
	ToolVideoEdit  ToolType = "VIDEO_EDIT"
	ToolSpeechGen  ToolType = "SPEECH_GEN"
	ToolChat       ToolType = "CHAT"
	ToolMediaJob   ToolType = "MEDIA_JOB"
	ToolCloudSync  ToolType = "CLOUD_SYNC"
)

// LogStatus is the outcome of a logged operation.
type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
	LogPending LogStatus = "pending"
)

// LogEntry is an append-only audit record of a provider call. Entries are
// created on completion, never mutated, and persisted locally only.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // epoch milliseconds
	Tool      ToolType  `json:"tool"`
	Status    LogStatus `json:"status"`
	Details   string    `json:"details"`
	LatencyMs int64     `json:"latencyMs,omitempty"`
}
