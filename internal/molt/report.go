package molt

import "time"

// Generation attempt statuses.
const (
	StatusSuccess  = "success"
	StatusDryRun   = "dry_run"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// GenerationRecord is one entry in a pipeline timeline.
type GenerationRecord struct {
	Generation  int    `json:"generation"`
	Focus       string `json:"focus"`
	Status      string `json:"status"`
	ScoreBefore int    `json:"score_before"`
	ScoreAfter  int    `json:"score_after"`
	Delta       int    `json:"delta"`
	SizeBefore  int    `json:"size_before"`
	SizeAfter   int    `json:"size_after"`
	// Reason explains a rejected or failed attempt.
	Reason string `json:"reason,omitempty"`
}

// Report is the durable output of one molt run: baseline and final quality,
// the ordered generation timeline, and honest attempt/success counts. It is
// persisted to the archive once per run and never mutated afterward.
type Report struct {
	Artifact             string             `json:"artifact"`
	Category             string             `json:"category"`
	DryRun               bool               `json:"dry_run,omitempty"`
	BaselineScore        int                `json:"baseline_score"`
	BaselineGrade        string             `json:"baseline_grade"`
	FinalScore           int                `json:"final_score"`
	FinalGrade           string             `json:"final_grade"`
	Timeline             []GenerationRecord `json:"timeline"`
	TotalDelta           int                `json:"total_delta"`
	GenerationsAttempted int                `json:"generations_attempted"`
	GenerationsSucceeded int                `json:"generations_succeeded"`
	CompletedAt          time.Time          `json:"completed_at"`
}
