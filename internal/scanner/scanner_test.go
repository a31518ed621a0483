package scanner

import (
	"context"
	"ratemyclass/internal/components/telemetry"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="PSGROUPBOXLABEL">3 Results</div>
<table>
	<tr><td><span id="MTG_INSTR$0">Smith, A</span></td></tr>
	<tr><td><span id="MTG_INSTR$1">  Jane
		Doe
	</span></td></tr>
</table>
</body></html>`

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func newTestScanner(host Host, tel telemetry.API) Scanner {
	return NewScanner(host, Options{WaitAttempts: 3, WaitInterval: time.Millisecond}, tel)
}

func TestProbeResultsFrameOrder(t *testing.T) {
	host := NewStaticHost()
	scanner := newTestScanner(host, telemetry.NewRecorder())

	_, err := scanner.ProbeResultsFrame(context.Background())
	require.ErrorIs(t, err, ErrNotReady)

	host.SetFrame(FALLBACK_FRAME_ID, parse(t, resultsPage))
	frame, err := scanner.ProbeResultsFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, FALLBACK_FRAME_ID, frame.ID)

	host.SetFrame("ptModFrame_3", parse(t, resultsPage))
	frame, err = scanner.ProbeResultsFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ptModFrame_3", frame.ID)

	host.SetFrame("ptModFrame_0", parse(t, resultsPage))
	frame, err = scanner.ProbeResultsFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ptModFrame_0", frame.ID)
}

func TestLocateResultsFrameIsBounded(t *testing.T) {
	scanner := newTestScanner(NewStaticHost(), telemetry.NewRecorder())
	_, err := scanner.LocateResultsFrame(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
}

// delayedHost only shows its frame after a number of lookups.
type delayedHost struct {
	*StaticHost
	remaining int
}

func (h *delayedHost) Frame(ctx context.Context, id string) (*goquery.Document, error) {
	if h.remaining > 0 {
		h.remaining--
		return nil, nil
	}
	return h.StaticHost.Frame(ctx, id)
}

func TestLocateResultsFrameWaits(t *testing.T) {
	static := NewStaticHost()
	static.SetFrame(FALLBACK_FRAME_ID, parse(t, resultsPage))
	// the first probe looks at all six candidates
	host := &delayedHost{StaticHost: static, remaining: len(FrameIDs)}

	scanner := newTestScanner(host, telemetry.NewRecorder())
	frame, err := scanner.LocateResultsFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, FALLBACK_FRAME_ID, frame.ID)
}

func TestReadResultCount(t *testing.T) {
	count, ok := ReadResultCount(parse(t, resultsPage))
	require.True(t, ok)
	require.Equal(t, ResultCount{Signal: "3", N: 3}, count)

	count, ok = ReadResultCount(parse(t, `<div class="PSGROUPBOXLABEL">Search Results</div>`))
	require.True(t, ok)
	require.Equal(t, ResultCount{Signal: "", N: 0}, count)

	_, ok = ReadResultCount(parse(t, `<div>loading</div>`))
	require.False(t, ok)
}

func TestWaitResultCount(t *testing.T) {
	host := NewStaticHost()
	host.SetFrame(FALLBACK_FRAME_ID, parse(t, `<div>loading</div>`))
	scanner := newTestScanner(host, telemetry.NewRecorder())

	frame := Frame{ID: FALLBACK_FRAME_ID}
	_, _, err := scanner.WaitResultCount(context.Background(), frame)
	require.ErrorIs(t, err, ErrNotReady)

	loaded := parse(t, resultsPage)
	host.SetFrame(FALLBACK_FRAME_ID, loaded)
	counted, count, err := scanner.WaitResultCount(context.Background(), frame)
	require.NoError(t, err)
	require.Equal(t, 3, count.N)
	require.Equal(t, FALLBACK_FRAME_ID, counted.ID)
	require.Same(t, loaded, counted.Doc)
}

func TestEnumerateNamesRowLimit(t *testing.T) {
	tel := telemetry.NewRecorder()
	scanner := NewScanner(NewStaticHost(), Options{MaxRows: 5}, tel)

	doc := parse(t, `<div class="PSGROUPBOXLABEL">1-50 of 300</div><span id="MTG_INSTR$0">Jane Doe</span>`)
	count, ok := ReadResultCount(doc)
	require.True(t, ok)
	require.Equal(t, 150300, count.N)

	result := scanner.EnumerateNames(Frame{ID: FALLBACK_FRAME_ID, Doc: doc}, count.N)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Skipped, 4)
	require.Len(t, tel.Find(telemetry.LEVEL_WARNING, report_scanner_row_limit), 1)
}

func TestEnumerateNames(t *testing.T) {
	tel := telemetry.NewRecorder()
	scanner := newTestScanner(NewStaticHost(), tel)

	result := scanner.EnumerateNames(Frame{ID: FALLBACK_FRAME_ID, Doc: parse(t, resultsPage)}, 3)

	diff := cmp.Diff([]Row{{Index: 1, ElementID: "MTG_INSTR$1", Name: "Jane Doe"}}, result.Rows)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, result.Skipped, 2)
	require.Equal(t, 0, result.Skipped[0].Index)
	require.ErrorIs(t, result.Skipped[0].Err, ErrMultipleInstructors)
	require.Equal(t, 2, result.Skipped[1].Index)
	require.ErrorIs(t, result.Skipped[1].Err, ErrMultipleInstructors)
	require.Contains(t, result.Skipped[1].Err.Error(), "course contains 2+ instructors")

	require.Len(t, tel.Find(telemetry.LEVEL_WARNING, report_scanner_enumerate), 2)
}

func TestAnnotate(t *testing.T) {
	host := NewStaticHost()
	doc := parse(t, resultsPage)
	host.SetFrame(FALLBACK_FRAME_ID, doc)
	scanner := newTestScanner(host, telemetry.NewRecorder())

	frame := Frame{ID: FALLBACK_FRAME_ID, Doc: doc}
	row := Row{Index: 1, ElementID: "MTG_INSTR$1", Name: "Jane Doe"}
	err := scanner.Annotate(context.Background(), frame, row, `<div class="badge"><a href="#">4.0</a></div>`)
	require.NoError(t, err)

	next := doc.Find(`[id="MTG_INSTR$1"]`).Next()
	require.True(t, next.HasClass("badge"))
	require.Equal(t, "4.0", next.Text())

	err = scanner.Annotate(context.Background(), frame, Row{ElementID: "MTG_INSTR$9"}, "<div></div>")
	require.Error(t, err)
}
