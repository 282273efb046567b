package model

import (
	"time"
)

type AnalysisSession struct {
	ID         string      `json:"session_id"`
	CreatedAt  time.Time   `json:"timestamp"`
	Candidates []Candidate `json:"candidates"`
}

type SessionSummary struct {
	ID              string    `json:"session_id"`
	CreatedAt       time.Time `json:"timestamp"`
	TotalCandidates int       `json:"total_candidates"`
}

type AnalysisStats struct {
	Shortlisted       int     `json:"shortlisted"`
	UnderReview       int     `json:"under_review"`
	Rejected          int     `json:"rejected"`
	ProcessingTime    float64 `json:"processing_time"`     // seconds, whole batch
	AvgTimePerResume  float64 `json:"avg_time_per_resume"` // seconds
	TotalProcessed    int     `json:"total_processed"`
	SkippedResumes    int     `json:"skipped_resumes"`
	FailedEvaluations int     `json:"failed_evaluations"`
}

// AnalysisCompletedEvent is published once per successful analysis run.
type AnalysisCompletedEvent struct {
	EventID     string    `json:"event_id"`
	SessionID   string    `json:"session_id"`
	Role        string    `json:"role"`
	Total       int       `json:"total"`
	Shortlisted int       `json:"shortlisted"`
	UnderReview int       `json:"under_review"`
	Rejected    int       `json:"rejected"`
	OccurredAt  time.Time `json:"occurred_at"`
}
