package scoring

import (
	"sort"

	"github.com/fadilmartias/resume-screener/internal/model"
)

// ApplyTopN force-promotes the n highest scoring candidates to shortlist.
//
// With n <= 0 the input order and verdicts are returned unchanged. Otherwise
// the result is ordered by score descending (stable, ties keep input order):
// the promoted slice first, the untouched remainder after. n larger than the
// candidate count promotes everyone. The input slice is never modified.
func ApplyTopN(candidates []model.Candidate, n int) []model.Candidate {
	out := make([]model.Candidate, len(candidates))
	copy(out, candidates)
	if n <= 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	top := min(n, len(out))
	for i := 0; i < top; i++ {
		out[i].Verdict = model.VerdictShortlist
	}
	return out
}

type Tally struct {
	Shortlisted int
	UnderReview int
	Rejected    int
}

func CountVerdicts(candidates []model.Candidate) Tally {
	var t Tally
	for _, c := range candidates {
		switch c.Verdict {
		case model.VerdictShortlist:
			t.Shortlisted++
		case model.VerdictReview:
			t.UnderReview++
		case model.VerdictReject:
			t.Rejected++
		}
	}
	return t
}

// FilterByVerdict keeps candidates with verdict v; an empty v keeps all.
func FilterByVerdict(candidates []model.Candidate, v model.Verdict) []model.Candidate {
	if v == "" {
		return candidates
	}
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Verdict == v {
			out = append(out, c)
		}
	}
	return out
}
