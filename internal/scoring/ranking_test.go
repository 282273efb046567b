package scoring

import (
	"testing"

	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidatesFrom(records ...model.ScoreRecord) []model.Candidate {
	return ClassifyAll(records, testThresholds)
}

func named(name string, r model.ScoreRecord) model.ScoreRecord {
	r.Name = name
	r.Email = name + "@example.com"
	return r
}

func verdicts(cs []model.Candidate) []model.Verdict {
	out := make([]model.Verdict, len(cs))
	for i, c := range cs {
		out[i] = c.Verdict
	}
	return out
}

func names(cs []model.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestTopNScenarioAlreadyShortlisted(t *testing.T) {
	cs := candidatesFrom(
		named("a", passing(90)),
		named("b", passing(80)),
		named("c", passing(95)),
		named("d", passing(30)),
	)
	require.Equal(t,
		[]model.Verdict{model.VerdictShortlist, model.VerdictShortlist, model.VerdictShortlist, model.VerdictReject},
		verdicts(cs))

	got := ApplyTopN(cs, 1)

	assert.Equal(t, []string{"c", "a", "b", "d"}, names(got))
	assert.Equal(t,
		[]model.Verdict{model.VerdictShortlist, model.VerdictShortlist, model.VerdictShortlist, model.VerdictReject},
		verdicts(got))
}

func TestTopNFlipsRejectedTopScorer(t *testing.T) {
	top := passing(95)
	top.DomainMatch = 20

	cs := candidatesFrom(
		named("a", passing(90)),
		named("top", top),
		named("low", passing(30)),
	)
	require.Equal(t, model.VerdictReject, cs[1].Verdict)

	got := ApplyTopN(cs, 1)

	assert.Equal(t, "top", got[0].Name)
	assert.Equal(t, model.VerdictShortlist, got[0].Verdict)
	assert.Equal(t, model.VerdictReject, got[2].Verdict, "remainder keeps its verdict")
	assert.Equal(t, model.VerdictReject, cs[1].Verdict, "input must not be mutated")
}

func TestTopNDisabledKeepsOrder(t *testing.T) {
	cs := candidatesFrom(named("a", passing(10)), named("b", passing(90)))

	for _, n := range []int{0, -3} {
		got := ApplyTopN(cs, n)
		assert.Equal(t, []string{"a", "b"}, names(got))
		assert.Equal(t, verdicts(cs), verdicts(got))
	}
}

func TestTopNLargerThanCount(t *testing.T) {
	cs := candidatesFrom(named("a", passing(10)), named("b", passing(20)))

	got := ApplyTopN(cs, 10)

	assert.Equal(t, []string{"b", "a"}, names(got))
	for _, c := range got {
		assert.Equal(t, model.VerdictShortlist, c.Verdict)
	}
}

func TestTopNStableOnTies(t *testing.T) {
	cs := candidatesFrom(
		named("first", passing(70)),
		named("second", passing(70)),
		named("third", passing(70)),
	)

	got := ApplyTopN(cs, 2)

	assert.Equal(t, []string{"first", "second", "third"}, names(got))
	assert.Equal(t, model.VerdictShortlist, got[1].Verdict)
	assert.Equal(t, model.VerdictReview, got[2].Verdict)
}

func TestTopNIdempotent(t *testing.T) {
	low := passing(99)
	low.SkillsMatch = 1
	cs := candidatesFrom(
		named("a", passing(60)),
		named("b", low),
		named("c", passing(80)),
		named("d", passing(45)),
	)

	for n := 0; n <= 5; n++ {
		once := ApplyTopN(cs, n)
		twice := ApplyTopN(once, n)
		assert.Equal(t, verdicts(once), verdicts(twice), "n=%d", n)
		assert.Equal(t, names(once), names(twice), "n=%d", n)
	}
}

func TestCountAndFilter(t *testing.T) {
	cs := candidatesFrom(passing(90), passing(60), passing(10), passing(80))

	tally := CountVerdicts(cs)
	assert.Equal(t, Tally{Shortlisted: 2, UnderReview: 1, Rejected: 1}, tally)

	assert.Len(t, FilterByVerdict(cs, model.VerdictShortlist), 2)
	assert.Len(t, FilterByVerdict(cs, ""), 4)
}
