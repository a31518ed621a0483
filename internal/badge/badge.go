// Package badge renders the markup inserted next to an instructor's name.
package badge

import (
	"fmt"
	"html"
	"math"
	"net/url"
	"ratemyclass/internal/matcher"
	"ratemyclass/internal/ratings"
	"strconv"
	"strings"
)

const (
	base_url = "https://www.ratemyprofessors.com"

	// CLASS_NAME is set on every badge so annotated pages can be queried.
	CLASS_NAME = "rmp-badge"
)

type Tier struct {
	Name       string
	Background string
	Border     string
}

var (
	TIER_GREAT  = Tier{Name: "great", Background: "rgb(76, 175, 80)", Border: "rgb(56, 142, 60)"}
	TIER_GOOD   = Tier{Name: "good", Background: "rgb(255, 235, 59)", Border: "rgb(251, 192, 45)"}
	TIER_FAIR   = Tier{Name: "fair", Background: "rgb(255, 152, 0)", Border: "rgb(245, 124, 0)"}
	TIER_POOR   = Tier{Name: "poor", Background: "rgb(244, 67, 54)", Border: "rgb(211, 47, 47)"}
	TIER_WORST  = Tier{Name: "worst", Background: "rgb(183, 28, 28)", Border: "rgb(136, 14, 79)"}
	TIER_SEARCH = Tier{Name: "search", Background: "rgb(100, 181, 246)", Border: "rgb(30, 136, 229)"}
)

// TierFor maps an average rating to its tier, every lower bound is inclusive.
func TierFor(rating float64) Tier {
	switch {
	case rating >= 4:
		return TIER_GREAT
	case rating >= 3:
		return TIER_GOOD
	case rating >= 2:
		return TIER_FAIR
	case rating >= 1:
		return TIER_POOR
	default:
		return TIER_WORST
	}
}

// FormatRating renders whole numbers with one decimal ("4.0") and anything
// else in its shortest form ("3.7").
func FormatRating(rating float64) string {
	if rating == math.Trunc(rating) {
		return strconv.FormatFloat(rating, 'f', 1, 64)
	}
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

func (t Tier) style() string {
	fontSize := "larger"
	padding := ""
	if t == TIER_SEARCH {
		fontSize = "smaller"
		padding = "padding-top: 0.25em;padding-bottom: 0.25em;"
	}
	return fmt.Sprintf(
		"width: 50px;background-color: %s;display: flex;justify-content: center;border-radius: 10px;"+
			"border-top: 1px solid %s;border-bottom: 3px solid %s;font-size: %s;font-weight: bold;"+
			"text-shadow: -1px -1px 0 #000, 1px -1px 0 #000, -1px 1px 0 #000, 1px 1px 0 #000;%s",
		t.Background, t.Border, t.Border, fontSize, padding,
	)
}

func SearchURL(schoolID int, name string) string {
	return fmt.Sprintf("%s/search/professors/%d?q=%s", base_url, schoolID, url.QueryEscape(name))
}

func ProfessorURL(id string) string {
	return fmt.Sprintf("%s/professor/%s", base_url, url.PathEscape(id))
}

type Options struct {
	// Tooltips adds a title with the record's details to rated badges.
	Tooltips bool
}

// Trusted reports whether record may be shown as a rating for queriedName.
func Trusted(record *ratings.Record, queriedName string) bool {
	return record != nil &&
		record.NumRatings > 0 &&
		!matcher.IsMismatch(record.Name, queriedName)
}

func tooltip(record ratings.Record) string {
	parts := []string{}
	if record.Department != "" {
		parts = append(parts, record.Department)
	}
	parts = append(parts, fmt.Sprintf("%d ratings", record.NumRatings))
	if record.WouldTakeAgainPercent != nil && *record.WouldTakeAgainPercent >= 0 {
		parts = append(parts, fmt.Sprintf("%.0f%% would take again", *record.WouldTakeAgainPercent))
	}
	return strings.Join(parts, " · ")
}

func element(tier Tier, href, label, title string) string {
	titleAttr := ""
	if title != "" {
		titleAttr = fmt.Sprintf(` title="%s"`, html.EscapeString(title))
	}
	return fmt.Sprintf(
		`<div class="%s %s-%s" style="%s"%s><a style="color: white !important;" href="%s">%s</a></div>`,
		CLASS_NAME, CLASS_NAME, tier.Name,
		tier.style(),
		titleAttr,
		html.EscapeString(href),
		html.EscapeString(label),
	)
}

// Render returns the badge for queriedName. A nil record means the lookup
// failed, it renders the same search link as an untrusted record.
func Render(record *ratings.Record, queriedName string, schoolID int, opts Options) string {
	if !Trusted(record, queriedName) {
		return element(TIER_SEARCH, SearchURL(schoolID, queriedName), "search", "")
	}

	title := ""
	if opts.Tooltips {
		title = tooltip(*record)
	}
	return element(
		TierFor(record.AvgRating),
		ProfessorURL(record.ID),
		FormatRating(record.AvgRating),
		title,
	)
}
