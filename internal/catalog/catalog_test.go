package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/kpiscan/internal/model"
)

func TestCompileTemplate_RequiresMagnitudeGroup(t *testing.T) {
	_, err := CompileTemplate(`subscribers\s+(\d+)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mag")
}

func TestCompileTemplate_RejectsInvalidRegex(t *testing.T) {
	_, err := CompileTemplate(`(?P<mag>\d+`)
	assert.Error(t, err)
}

func TestCompileTemplate_UnitGroupOptional(t *testing.T) {
	tpl, err := CompileTemplate(`(?i)opened\s+(?P<mag>\d+)\s+stores`)
	require.NoError(t, err)

	hits := tpl.FindAll("We opened 42 stores this year.")
	require.Len(t, hits, 1)
	assert.Equal(t, "42", hits[0].Magnitude)
	assert.Empty(t, hits[0].Unit)
}

func TestFindAll_CapturesMagnitudeAndUnit(t *testing.T) {
	tpl, err := CompileTemplate(`(?i)reached\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion)?\s+users`)
	require.NoError(t, err)

	hits := tpl.FindAll("MAU reached 1.5 billion users while another metric reached 200 million users.")
	require.Len(t, hits, 2)
	assert.Equal(t, "1.5", hits[0].Magnitude)
	assert.Equal(t, "billion", hits[0].Unit)
	assert.Equal(t, "200", hits[1].Magnitude)
	assert.Equal(t, "million", hits[1].Unit)
}

func TestFindAll_NoMatchReturnsNil(t *testing.T) {
	tpl, err := CompileTemplate(`(?P<mag>\d+)\s+subscribers`)
	require.NoError(t, err)
	assert.Nil(t, tpl.FindAll("no numbers here"))
}

func TestNew_RejectsEmptyType(t *testing.T) {
	_, err := New([]Pattern{{Templates: []Template{mustTemplate(`(?P<mag>\d+)`)}}})
	assert.Error(t, err)
}

func TestNew_RejectsPatternWithoutTemplates(t *testing.T) {
	_, err := New([]Pattern{{Type: model.KPIType("vehicles")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vehicles")
}

func TestDefault_AllPatternsValid(t *testing.T) {
	cat := Default()
	require.Equal(t, 7, cat.Len())

	seen := map[model.KPIType]bool{}
	for _, p := range cat.Patterns() {
		assert.NotEmpty(t, p.Type)
		assert.NotEmpty(t, p.Templates, "pattern %s", p.Type)
		assert.False(t, seen[p.Type], "duplicate pattern type %s", p.Type)
		seen[p.Type] = true
	}
}

func TestAllowsUnit_EmptyTokenAlwaysAllowed(t *testing.T) {
	for _, p := range Default().Patterns() {
		assert.True(t, p.AllowsUnit(""), "pattern %s", p.Type)
	}
}

func TestAllowsUnit_CaseInsensitive(t *testing.T) {
	patterns := Default().Patterns()
	var subs *Pattern
	for i := range patterns {
		if patterns[i].Type == model.KPISubscribers {
			subs = &patterns[i]
		}
	}
	require.NotNil(t, subs)

	assert.True(t, subs.AllowsUnit("million"))
	assert.True(t, subs.AllowsUnit("Million"))
	assert.True(t, subs.AllowsUnit("BILLION"))
	assert.False(t, subs.AllowsUnit("furlongs"))
}

func TestAllowsUnit_NoDeclaredClassesAllowsAnything(t *testing.T) {
	cat, err := New([]Pattern{{
		Type:      model.KPIType("vehicles"),
		Templates: []Template{mustTemplate(`(?P<mag>\d+)`)},
	}})
	require.NoError(t, err)
	assert.True(t, cat.Patterns()[0].AllowsUnit("anything"))
}
