package dto

import (
	"encoding/json"
	"time"

	"github.com/fadilmartias/resume-screener/internal/model"
)

// JobConfigDTO decodes a job configuration over the default thresholds, so
// omitted cutoffs keep their defaults.
type JobConfigDTO struct {
	model.JobConfiguration
}

func (j *JobConfigDTO) UnmarshalJSON(data []byte) error {
	cfg := model.DefaultJobConfiguration()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	j.JobConfiguration = cfg
	return nil
}

type AnalyzeRequest struct {
	JobConfig    *JobConfigDTO `json:"job_config"`
	LoadFromBlob bool          `json:"load_from_blob"`
}

type AnalysisMetrics struct {
	AvgTimePerResume  float64 `json:"avg_time_per_resume"`
	SessionID         string  `json:"session_id"`
	SkippedResumes    int     `json:"skipped_resumes"`
	FailedEvaluations int     `json:"failed_evaluations"`
}

type AnalyzeResponse struct {
	TotalProcessed int               `json:"total_processed"`
	Shortlisted    int               `json:"shortlisted"`
	UnderReview    int               `json:"under_review"`
	Rejected       int               `json:"rejected"`
	ProcessingTime float64           `json:"processing_time"`
	Role           string            `json:"role"`
	Candidates     []model.Candidate `json:"candidates"`
	Metrics        AnalysisMetrics   `json:"metrics"`
}

func NewAnalyzeResponse(sessionID, role string, candidates []model.Candidate, s model.AnalysisStats) AnalyzeResponse {
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	return AnalyzeResponse{
		TotalProcessed: s.TotalProcessed,
		Shortlisted:    s.Shortlisted,
		UnderReview:    s.UnderReview,
		Rejected:       s.Rejected,
		ProcessingTime: s.ProcessingTime,
		Role:           role,
		Candidates:     candidates,
		Metrics: AnalysisMetrics{
			AvgTimePerResume:  s.AvgTimePerResume,
			SessionID:         sessionID,
			SkippedResumes:    s.SkippedResumes,
			FailedEvaluations: s.FailedEvaluations,
		},
	}
}

// UpdateCandidateRequest identifies the candidate by email in candidate_id.
type UpdateCandidateRequest struct {
	CandidateID    string  `json:"candidate_id"`
	RecruiterNotes *string `json:"recruiter_notes"`
	Verdict        *string `json:"verdict"`
}

type EmailRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type BulkEmailRequest struct {
	CandidateEmails []string `json:"candidate_emails"`
	Verdict         string   `json:"verdict"`
	Role            string   `json:"role"`
	CompanyName     string   `json:"company_name"`
}

type FileListResponse struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

type SessionResponse struct {
	SessionID  string            `json:"session_id"`
	Timestamp  string            `json:"timestamp"`
	Candidates []model.Candidate `json:"candidates"`
}

func NewSessionResponse(s *model.AnalysisSession) SessionResponse {
	candidates := s.Candidates
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	return SessionResponse{
		SessionID:  s.ID,
		Timestamp:  s.CreatedAt.Format(time.RFC3339),
		Candidates: candidates,
	}
}
