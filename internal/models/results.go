package models

import "time"

type Step string

const (
	StepIdle          Step = "idle"
	StepInitiated     Step = "initiated"
	StepStarted       Step = "started"
	StepPreprocessing Step = "preprocessing"
	StepFiltering     Step = "filtering"
	StepDeepAnalysis  Step = "deep_analysis"
	StepCompleted     Step = "completed"
)

// CandidateResult is a per-candidate verdict for one drive.
type CandidateResult struct {
	Email            string              `bson:"email" json:"email"`
	AttemptID        string              `bson:"attemptID" json:"attemptID"`
	DriveID          string              `bson:"driveId" json:"driveId"`
	Risk             string              `bson:"risk" json:"risk"` // clean, suspicious, highly suspicious, near copy
	FlaggedQuestions []string            `bson:"flagged_qns" json:"flagged_qns"`
	PlagiarismPeers  map[string][]string `bson:"plagiarism_peers" json:"plagiarism_peers"` // qId -> []attemptId
	SimilarPairs     int                 `bson:"similar_pairs" json:"similar_pairs"`
	NearCopyPairs    int                 `bson:"near_copy_pairs" json:"near_copy_pairs"`
	Status           string              `bson:"status" json:"status"` // pending, completed, failed
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
}

// TestReport is the overall verdict for one drive.
type TestReport struct {
	DriveID           string    `bson:"driveId" json:"driveId"`
	Risk              string    `bson:"risk" json:"risk"`     // Safe, Moderate, High, Critical
	Status            string    `bson:"status" json:"status"` // pending, completed, failed
	FlaggedQuestions  []string  `bson:"flagged_qns" json:"flagged_qns"`
	FlaggedCandidates int       `bson:"flagged_candidates" json:"flagged_candidates"`
	TotalAnalyzed     int       `bson:"total_analyzed" json:"total_analyzed"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}

// ComputeRequest asks for an asynchronous drive-wide computation.
type ComputeRequest struct {
	DriveID string `json:"driveId" binding:"required"`
}

// ComputeResponse acknowledges an accepted computation.
type ComputeResponse struct {
	Step   Step   `json:"step"`
	TestID string `json:"testId"`
}

// ErrorResponse is the standard error shape for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
