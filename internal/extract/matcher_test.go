package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/kpiscan/internal/catalog"
	"github.com/finsight/kpiscan/internal/model"
)

func TestMatch_AnchoredSubscriberPhrase(t *testing.T) {
	matches := Match("We ended the quarter with 50.2 million paid subscribers.", catalog.Default())
	require.Len(t, matches, 1)
	assert.Equal(t, model.KPISubscribers, matches[0].Type)
	assert.Equal(t, "50.2", matches[0].Magnitude)
	assert.Equal(t, "million", matches[0].Unit)
	assert.Contains(t, matches[0].Text, "ended the quarter")
}

func TestMatch_BareNumberMentionIgnored(t *testing.T) {
	matches := Match("Revenue of 50.2 million compared favorably to last year.", catalog.Default())
	assert.Empty(t, matches)
}

func TestMatch_MultipleKPITypes(t *testing.T) {
	text := `We ended the quarter with 50.2 million paid subscribers.
The company operated 1,204 stores worldwide.
ARPU was $12.45 for the period.`

	matches := Match(text, catalog.Default())

	types := map[model.KPIType]int{}
	for _, m := range matches {
		types[m.Type]++
	}
	assert.GreaterOrEqual(t, types[model.KPISubscribers], 1)
	assert.GreaterOrEqual(t, types[model.KPIStores], 1)
	assert.GreaterOrEqual(t, types[model.KPIARPU], 1)
}

func TestMatch_ActiveUsers(t *testing.T) {
	matches := Match("The platform reported 430 million monthly active users and 95 million daily active users.", catalog.Default())

	var mau, dau bool
	for _, m := range matches {
		switch m.Type {
		case model.KPIMAU:
			mau = true
			assert.Equal(t, "430", m.Magnitude)
		case model.KPIDAU:
			dau = true
			assert.Equal(t, "95", m.Magnitude)
		}
	}
	assert.True(t, mau)
	assert.True(t, dau)
}

func TestMatch_GrossGamingRevenue(t *testing.T) {
	matches := Match("Gross gaming revenue of $845.3 million set a quarterly record.", catalog.Default())
	require.NotEmpty(t, matches)
	assert.Equal(t, model.KPIGGR, matches[0].Type)
	assert.Equal(t, "845.3", matches[0].Magnitude)
	assert.Equal(t, "million", matches[0].Unit)
}

func TestMatch_EmptyText(t *testing.T) {
	assert.Nil(t, Match("", catalog.Default()))
}

func TestMatch_CarriesPatternReference(t *testing.T) {
	matches := Match("Total subscribers reached 10.5 million.", catalog.Default())
	require.NotEmpty(t, matches)
	require.NotNil(t, matches[0].Pattern)
	assert.Equal(t, matches[0].Type, matches[0].Pattern.Type)
}
