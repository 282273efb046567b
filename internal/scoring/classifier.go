// Package scoring holds the pure parts of candidate screening: verdict
// classification, top-N ranking and similarity math.
package scoring

import "github.com/fadilmartias/resume-screener/internal/model"

// ExperienceFloor is the hard experience cutoff. It is not configurable and is
// checked before every configured threshold.
const ExperienceFloor = 40.0

// Classify maps a score record to a verdict. Rules are evaluated in order and
// the first match wins. Threshold comparisons are strict, the shortlist
// comparison is inclusive.
func Classify(r model.ScoreRecord, t model.Thresholds) model.Verdict {
	if r.ExperienceMatch < ExperienceFloor {
		return model.VerdictReject
	}

	if r.JDSimilarity < t.JD ||
		r.SkillsMatch < t.Skills ||
		r.DomainMatch < t.Domain ||
		r.ExperienceMatch < t.Experience ||
		r.Score < t.Reject {
		return model.VerdictReject
	}

	if r.Score >= t.Shortlist {
		return model.VerdictShortlist
	}
	return model.VerdictReview
}

// ClassifyAll returns candidates built from records with their verdicts set
// and recruiter notes cleared.
func ClassifyAll(records []model.ScoreRecord, t model.Thresholds) []model.Candidate {
	candidates := make([]model.Candidate, len(records))
	for i, r := range records {
		candidates[i] = model.Candidate{
			ScoreRecord:    r,
			Verdict:        Classify(r, t),
			RecruiterNotes: "",
		}
	}
	return candidates
}
