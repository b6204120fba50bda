package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections_UppercaseHeaders(t *testing.T) {
	text := `THIRD QUARTER HIGHLIGHTS
We ended the quarter with 50.2 million paid subscribers.

FINANCIAL RESULTS
Revenue grew 12% year over year.`

	sections := SplitSections(text)
	require.Len(t, sections, 2)
	assert.Equal(t, "THIRD QUARTER HIGHLIGHTS", sections[0].Title)
	assert.Contains(t, sections[0].Content, "50.2 million")
	assert.Equal(t, "FINANCIAL RESULTS", sections[1].Title)
}

func TestSplitSections_NumberedAndTitleCaseHeaders(t *testing.T) {
	text := `1. Operating Metrics
Store count reached 1,204.

Business Update
We hired 500 employees.`

	sections := SplitSections(text)
	require.Len(t, sections, 2)
	assert.Equal(t, "1. Operating Metrics", sections[0].Title)
	assert.Equal(t, "Business Update", sections[1].Title)
}

func TestSplitSections_TextBeforeFirstHeaderKeepsEmptyTitle(t *testing.T) {
	text := `Preamble paragraph with no header.

OVERVIEW
Body text.`

	sections := SplitSections(text)
	require.Len(t, sections, 2)
	assert.Empty(t, sections[0].Title)
	assert.Equal(t, "OVERVIEW", sections[1].Title)
}

func TestSplitSections_EmptyInput(t *testing.T) {
	assert.Nil(t, SplitSections(""))
	assert.Nil(t, SplitSections("   \n\t\n"))
}

func TestSplitSections_ShortUppercaseTokenIsNotHeader(t *testing.T) {
	sections := SplitSections("IT\nsupports the business.")
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Title)
	assert.Contains(t, sections[0].Content, "IT")
}

func TestKPILikelihood_VocabularyDensity(t *testing.T) {
	rich := `OPERATIONAL METRICS
Subscribers, monthly active users, stores, employees, arpu and gaming revenue
are the key performance highlights of our operational review.`

	sections := SplitSections(rich)
	require.Len(t, sections, 1)
	assert.InDelta(t, 1.0, sections[0].KPILikelihood, 1e-9)
}

func TestKPILikelihood_NoVocabularyScoresZero(t *testing.T) {
	sections := SplitSections("LEGAL NOTES\nForward looking statements follow.")
	require.Len(t, sections, 1)
	assert.Zero(t, sections[0].KPILikelihood)
}

func TestKPILikelihood_BoundedAboveByOne(t *testing.T) {
	for _, s := range SplitSections("HIGHLIGHTS\nsubscribers stores employees arpu members operational metrics") {
		assert.LessOrEqual(t, s.KPILikelihood, 1.0)
		assert.GreaterOrEqual(t, s.KPILikelihood, 0.0)
	}
}
