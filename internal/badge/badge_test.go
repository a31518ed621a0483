package badge

import (
	"ratemyclass/internal/ratings"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	testCases := []struct {
		rating float64
		tier   Tier
	}{
		{rating: 5, tier: TIER_GREAT},
		{rating: 4, tier: TIER_GREAT},
		{rating: 3.999, tier: TIER_GOOD},
		{rating: 3, tier: TIER_GOOD},
		{rating: 2.999, tier: TIER_FAIR},
		{rating: 2, tier: TIER_FAIR},
		{rating: 1.999, tier: TIER_POOR},
		{rating: 1, tier: TIER_POOR},
		{rating: 0.999, tier: TIER_WORST},
		{rating: 0, tier: TIER_WORST},
	}
	for _, test := range testCases {
		require.Equal(t, test.tier, TierFor(test.rating), "rating %v", test.rating)
	}
}

func TestTierForIsTotal(t *testing.T) {
	tiers := []Tier{TIER_GREAT, TIER_GOOD, TIER_FAIR, TIER_POOR, TIER_WORST}
	for r := 0.0; r <= 5.0; r += 0.01 {
		require.Contains(t, tiers, TierFor(r))
	}
}

func TestFormatRating(t *testing.T) {
	require.Equal(t, "4.0", FormatRating(4))
	require.Equal(t, "1.0", FormatRating(1))
	require.Equal(t, "0.0", FormatRating(0))
	require.Equal(t, "3.7", FormatRating(3.7))
	require.Equal(t, "4.25", FormatRating(4.25))
}

func parseBadge(t *testing.T, markup string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	sel := doc.Find("div." + CLASS_NAME)
	require.Equal(t, 1, sel.Length())
	return sel
}

func TestRenderRated(t *testing.T) {
	record := &ratings.Record{Name: "Jane Doe", AvgRating: 4, NumRatings: 12, ID: "12345"}
	sel := parseBadge(t, Render(record, "Jane Doe", 1232, Options{}))

	require.True(t, sel.HasClass(CLASS_NAME+"-great"))
	require.Equal(t, "4.0", sel.Find("a").Text())
	require.Equal(t, "https://www.ratemyprofessors.com/professor/12345", sel.Find("a").AttrOr("href", ""))
	require.Contains(t, sel.AttrOr("style", ""), TIER_GREAT.Background)
	_, hasTitle := sel.Attr("title")
	require.False(t, hasTitle)
}

func TestRenderFallsBackToSearch(t *testing.T) {
	testCases := []struct {
		name   string
		record *ratings.Record
	}{
		{name: "lookup failed", record: nil},
		{name: "no ratings", record: &ratings.Record{Name: "Jane Doe", AvgRating: 0, NumRatings: 0, ID: "1"}},
		{name: "mismatch", record: &ratings.Record{Name: "Jon Doe", AvgRating: 4.2, NumRatings: 5, ID: "1"}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			sel := parseBadge(t, Render(test.record, "Jane Doe", 1232, Options{}))
			require.True(t, sel.HasClass(CLASS_NAME+"-search"))
			require.Equal(t, "search", sel.Find("a").Text())
			require.Equal(
				t,
				"https://www.ratemyprofessors.com/search/professors/1232?q=Jane+Doe",
				sel.Find("a").AttrOr("href", ""),
			)
		})
	}
}

func TestRenderTooltip(t *testing.T) {
	wouldTakeAgain := 87.0
	record := &ratings.Record{
		Name:                  "Jane Doe",
		Department:            "Computer Science",
		AvgRating:             3.7,
		NumRatings:            31,
		WouldTakeAgainPercent: &wouldTakeAgain,
		ID:                    "12345",
	}
	sel := parseBadge(t, Render(record, "jane doe", 1232, Options{Tooltips: true}))

	require.True(t, sel.HasClass(CLASS_NAME+"-good"))
	require.Equal(t, "3.7", sel.Find("a").Text())
	require.Equal(t, "Computer Science · 31 ratings · 87% would take again", sel.AttrOr("title", ""))
}

func TestRenderEscapesName(t *testing.T) {
	markup := Render(nil, `<script>alert("x")</script>`, 1232, Options{})
	require.NotContains(t, markup, "<script>")
}
