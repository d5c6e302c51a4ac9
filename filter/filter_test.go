package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

func sample() []models.Record {
	return []models.Record{
		{Site: "a.com", Country: "USA", GreenHost: true},
		{Site: "b.com", Country: "USA", GreenHost: false},
		{Site: "c.com", Country: "France", GreenHost: true},
		{Site: "d.com", Country: "France", GreenHost: false},
	}
}

func sites(records []models.Record) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.Site)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		state models.FilterState
		want  []string
	}{
		{"all", Default(), []string{"a.com", "b.com", "c.com", "d.com"}},
		{"green only", NewState(models.GreenOnly, models.SitesAll, nil), []string{"a.com", "c.com"}},
		{"not green", NewState(models.GreenNotGreen, models.SitesAll, nil), []string{"b.com", "d.com"}},
		{"custom", NewState(models.GreenAll, models.SitesCustom, []string{"d.com", "a.com"}), []string{"a.com", "d.com"}},
		{"not green and custom", NewState(models.GreenNotGreen, models.SitesCustom, []string{"a.com", "b.com"}), []string{"b.com"}},
		{"none", NewState(models.GreenAll, models.SitesNone, []string{"a.com"}), []string{}},
		{"custom with unknown site", NewState(models.GreenAll, models.SitesCustom, []string{"zzz"}), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sites(Apply(sample(), tt.state)))
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	states := []models.FilterState{
		Default(),
		NewState(models.GreenOnly, models.SitesCustom, []string{"a.com", "b.com"}),
		NewState(models.GreenNotGreen, models.SitesAll, nil),
	}
	for _, st := range states {
		once := Apply(sample(), st)
		assert.Equal(t, once, Apply(once, st))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sample()
	out := Apply(in, NewState(models.GreenOnly, models.SitesAll, nil))
	require.Len(t, out, 2)
	out[0].Site = "changed"
	assert.Equal(t, "a.com", in[0].Site)
	assert.Len(t, in, 4)
}

func TestNone_AlwaysEmpty(t *testing.T) {
	big := make([]models.Record, 1000)
	for i := range big {
		big[i] = models.Record{Site: "s", Country: "c"}
	}
	assert.Empty(t, Apply(big, NewState(models.GreenAll, models.SitesNone, nil)))
}

func TestNewState_EmptyCustomCollapses(t *testing.T) {
	st := NewState(models.GreenAll, models.SitesCustom, nil)
	assert.Equal(t, models.SitesNone, st.SiteMode)

	sel := []string{"a.com"}
	st = NewState(models.GreenAll, models.SitesCustom, sel)
	sel[0] = "mutated"
	assert.Equal(t, []string{"a.com"}, st.Selected)
}

func TestParseModes(t *testing.T) {
	g, err := ParseGreenMode("not_green")
	require.NoError(t, err)
	assert.Equal(t, models.GreenNotGreen, g)

	g, err = ParseGreenMode("")
	require.NoError(t, err)
	assert.Equal(t, models.GreenAll, g)

	_, err = ParseGreenMode("blue")
	assert.Error(t, err)

	s, err := ParseSiteMode("custom")
	require.NoError(t, err)
	assert.Equal(t, models.SitesCustom, s)

	_, err = ParseSiteMode("some")
	assert.Error(t, err)
}

func TestSites(t *testing.T) {
	recs := append(sample(), models.Record{Site: "a.com"})
	assert.Equal(t, []string{"a.com", "b.com", "c.com", "d.com"}, Sites(recs))
}
