package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type SessionRecord struct {
	ID         string            `gorm:"type:varchar(64);primaryKey" json:"session_id"`
	CreatedAt  time.Time         `gorm:"index" json:"timestamp"`
	Candidates []CandidateRecord `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"candidates"`
}

func (s *SessionRecord) TableName() string {
	return "analysis_sessions"
}

type CandidateRecord struct {
	ID              uint    `gorm:"primaryKey" json:"-"`
	SessionID       string  `gorm:"type:varchar(64);index" json:"-"`
	Position        int     `json:"-"` // ranked order inside the session
	Name            string  `json:"name"`
	Email           string  `gorm:"index" json:"email"`
	Phone           string  `json:"phone"`
	JDSimilarity    float64 `gorm:"type:float" json:"jd_similarity"`
	SkillsMatch     float64 `gorm:"type:float" json:"skills_match"`
	DomainMatch     float64 `gorm:"type:float" json:"domain_match"`
	ExperienceMatch float64 `gorm:"type:float" json:"experience_match"`
	Score           float64 `gorm:"type:float" json:"score"`
	ResumeText      string  `gorm:"type:text" json:"resume_text"`
	Notes           string  `gorm:"type:text" json:"notes"`
	ResumeFile      string  `json:"resume_file"`
	JDRole          string  `json:"jd_role"`
	Verdict         string  `gorm:"type:varchar(16)" json:"verdict"` // shortlist, review, reject
	RecruiterNotes  string  `gorm:"type:text" json:"recruiter_notes"`
}

func (c *CandidateRecord) TableName() string {
	return "analysis_candidates"
}

func NewCandidateRecord(sessionID string, position int, c Candidate) CandidateRecord {
	return CandidateRecord{
		SessionID:       sessionID,
		Position:        position,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		JDSimilarity:    c.JDSimilarity,
		SkillsMatch:     c.SkillsMatch,
		DomainMatch:     c.DomainMatch,
		ExperienceMatch: c.ExperienceMatch,
		Score:           c.Score,
		ResumeText:      c.ResumeText,
		Notes:           c.Notes,
		ResumeFile:      c.ResumeFile,
		JDRole:          c.JDRole,
		Verdict:         string(c.Verdict),
		RecruiterNotes:  c.RecruiterNotes,
	}
}

func (c CandidateRecord) Candidate() Candidate {
	return Candidate{
		ScoreRecord: ScoreRecord{
			Name:            c.Name,
			Email:           c.Email,
			Phone:           c.Phone,
			JDSimilarity:    c.JDSimilarity,
			SkillsMatch:     c.SkillsMatch,
			DomainMatch:     c.DomainMatch,
			ExperienceMatch: c.ExperienceMatch,
			Score:           c.Score,
			ResumeText:      c.ResumeText,
			Notes:           c.Notes,
			ResumeFile:      c.ResumeFile,
			JDRole:          c.JDRole,
		},
		Verdict:        Verdict(c.Verdict),
		RecruiterNotes: c.RecruiterNotes,
	}
}

// EmbeddingRecord persists an embedding keyed by the sha256 of the exact source text.
type EmbeddingRecord struct {
	TextHash  string          `gorm:"type:char(64);primaryKey" json:"text_hash"`
	Embedding pgvector.Vector `gorm:"type:vector" json:"embedding"`
	CreatedAt time.Time       `json:"created_at"`
}

func (e *EmbeddingRecord) TableName() string {
	return "embeddings"
}
