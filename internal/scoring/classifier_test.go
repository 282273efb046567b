package scoring

import (
	"testing"

	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/stretchr/testify/assert"
)

var testThresholds = model.Thresholds{
	JD:         50,
	Skills:     50,
	Domain:     50,
	Experience: 50,
	Reject:     40,
	Shortlist:  75,
}

func passing(score float64) model.ScoreRecord {
	return model.ScoreRecord{
		JDSimilarity:    60,
		SkillsMatch:     60,
		DomainMatch:     60,
		ExperienceMatch: 60,
		Score:           score,
	}
}

func TestClassifyRules(t *testing.T) {
	cases := []struct {
		name   string
		record func() model.ScoreRecord
		want   model.Verdict
	}{
		{name: "shortlist", record: func() model.ScoreRecord { return passing(90) }, want: model.VerdictShortlist},
		{name: "review", record: func() model.ScoreRecord { return passing(60) }, want: model.VerdictReview},
		{name: "below reject score", record: func() model.ScoreRecord { return passing(30) }, want: model.VerdictReject},
		{name: "jd miss", record: func() model.ScoreRecord { r := passing(90); r.JDSimilarity = 49.99; return r }, want: model.VerdictReject},
		{name: "skills miss", record: func() model.ScoreRecord { r := passing(90); r.SkillsMatch = 10; return r }, want: model.VerdictReject},
		{name: "domain miss", record: func() model.ScoreRecord { r := passing(90); r.DomainMatch = 0; return r }, want: model.VerdictReject},
		{name: "experience below configured", record: func() model.ScoreRecord { r := passing(90); r.ExperienceMatch = 45; return r }, want: model.VerdictReject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.record(), testThresholds))
		})
	}
}

func TestClassifyExperienceFloorOverridesEverything(t *testing.T) {
	lenient := model.Thresholds{Shortlist: 0}
	for _, exp := range []float64{0, 10, 39.99} {
		r := model.ScoreRecord{
			JDSimilarity:    100,
			SkillsMatch:     100,
			DomainMatch:     100,
			ExperienceMatch: exp,
			Score:           100,
		}
		assert.Equal(t, model.VerdictReject, Classify(r, lenient), "experience_match=%v", exp)
		assert.Equal(t, model.VerdictReject, Classify(r, testThresholds), "experience_match=%v", exp)
	}

	r := passing(100)
	r.ExperienceMatch = ExperienceFloor
	assert.Equal(t, model.VerdictShortlist, Classify(r, lenient))
}

func TestClassifyThresholdBoundaries(t *testing.T) {
	exact := model.ScoreRecord{
		JDSimilarity:    testThresholds.JD,
		SkillsMatch:     testThresholds.Skills,
		DomainMatch:     testThresholds.Domain,
		ExperienceMatch: testThresholds.Experience,
		Score:           testThresholds.Reject,
	}
	assert.Equal(t, model.VerdictReview, Classify(exact, testThresholds))

	exact.Score = testThresholds.Shortlist
	assert.Equal(t, model.VerdictShortlist, Classify(exact, testThresholds))

	exact.Score = testThresholds.Shortlist - 0.01
	assert.Equal(t, model.VerdictReview, Classify(exact, testThresholds))
}

func TestClassifyAllClearsNotes(t *testing.T) {
	got := ClassifyAll([]model.ScoreRecord{passing(90), passing(10)}, testThresholds)

	assert.Len(t, got, 2)
	assert.Equal(t, model.VerdictShortlist, got[0].Verdict)
	assert.Equal(t, model.VerdictReject, got[1].Verdict)
	for _, c := range got {
		assert.Empty(t, c.RecruiterNotes)
	}
}
