// Package scanner reads the class search results out of the registration
// page: which iframe holds them, how many there are and who teaches each one.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"ratemyclass/internal/components/assert"
	"ratemyclass/internal/components/telemetry"
	"ratemyclass/internal/components/wait"
	"ratemyclass/pkg/htmlutil"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_scanner_probe_frame = "scanner.probe-frame"
	report_scanner_enumerate   = "scanner.enumerate-names"
	report_scanner_row_limit   = "scanner.row-limit"

	RESULTS_LABEL_CLASS = "PSGROUPBOXLABEL"
	INSTRUCTOR_ID_FMT   = "MTG_INSTR$%d"
	FALLBACK_FRAME_ID   = "ptifrmtgtframe"

	// DEFAULT_MAX_ROWS is well above the largest result page the class
	// search renders.
	DEFAULT_MAX_ROWS = 1000
)

// FrameIDs are the candidate results frames in the order they are probed.
var FrameIDs = []string{
	"ptModFrame_0",
	"ptModFrame_1",
	"ptModFrame_2",
	"ptModFrame_3",
	"ptModFrame_4",
	FALLBACK_FRAME_ID,
}

var (
	// ErrNotReady means the frame or the results label is not on the page yet.
	ErrNotReady = wait.ErrNotReady
	// ErrMultipleInstructors means a row lists more than one instructor,
	// which cannot be looked up.
	ErrMultipleInstructors = errors.New("multiple instructors are not supported")

	errMissingRow = fmt.Errorf("course contains 2+ instructors: %w", ErrMultipleInstructors)
)

// Frame is a snapshot of the results iframe.
type Frame struct {
	ID  string
	Doc *goquery.Document
}

// ResultCount is the number of results shown by the results label.
type ResultCount struct {
	// Signal is the label's text reduced to its digits, a change in it is
	// what triggers a new pass.
	Signal string
	N      int
}

// Row is an instructor that can be looked up.
type Row struct {
	Index     int
	ElementID string
	Name      string
}

// Skip is a result row that will not be annotated.
type Skip struct {
	Index int
	Err   error
}

type Enumeration struct {
	Rows    []Row
	Skipped []Skip
}

type Options struct {
	// WaitAttempts bounds how often a missing frame or label is polled for.
	WaitAttempts int
	WaitInterval time.Duration
	// MaxRows caps how many rows a result count may ask for, labels with
	// more than one number ("1-50 of 300") read as a huge count.
	MaxRows      int
}

type Scanner struct {
	host Host
	opts Options
	tel  telemetry.API
}

func NewScanner(host Host, opts Options, tel telemetry.API) Scanner {
	assert.NotNil(host)
	assert.NotNil(tel)
	if opts.WaitAttempts <= 0 {
		opts.WaitAttempts = 50
	}
	if opts.WaitInterval <= 0 {
		opts.WaitInterval = 100 * time.Millisecond
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DEFAULT_MAX_ROWS
	}
	return Scanner{
		host: host,
		opts: opts,
		tel:  telemetry.NewScopedAPI("scanner", tel),
	}
}

func (s Scanner) waitOptions() wait.Options {
	return wait.Options{Attempts: s.opts.WaitAttempts, Interval: s.opts.WaitInterval}
}

// ProbeResultsFrame checks every candidate frame once and returns the first
// one that exists.
func (s Scanner) ProbeResultsFrame(ctx context.Context) (Frame, error) {
	for _, id := range FrameIDs {
		doc, err := s.host.Frame(ctx, id)
		if err != nil {
			s.tel.ReportWarning(report_scanner_probe_frame, err, id)
			return Frame{}, err
		}
		if doc != nil {
			return Frame{ID: id, Doc: doc}, nil
		}
	}
	return Frame{}, ErrNotReady
}

// LocateResultsFrame probes for the results frame until it shows up or the
// attempts run out (ErrNotReady).
func (s Scanner) LocateResultsFrame(ctx context.Context) (Frame, error) {
	return wait.Until(ctx, s.waitOptions(), s.ProbeResultsFrame)
}

// ReadResultCount reads the first results label of doc, ok is false while
// the label does not exist.
func ReadResultCount(doc *goquery.Document) (count ResultCount, ok bool) {
	label := doc.Find("." + RESULTS_LABEL_CLASS).First()
	if label.Length() == 0 {
		return ResultCount{}, false
	}

	signal := htmlutil.Digits(htmlutil.GetText(label.Nodes[0]))
	n, err := strconv.Atoi(signal)
	if err != nil {
		n = 0
	}
	return ResultCount{Signal: signal, N: n}, true
}

// WaitResultCount re-reads the frame until its results label exists. The
// returned Frame is the snapshot the count was read from, rows must be read
// from it as well.
func (s Scanner) WaitResultCount(ctx context.Context, frame Frame) (Frame, ResultCount, error) {
	type counted struct {
		frame Frame
		count ResultCount
	}
	result, err := wait.Until(ctx, s.waitOptions(), func(ctx context.Context) (counted, error) {
		doc, err := s.host.Frame(ctx, frame.ID)
		if err != nil {
			return counted{}, err
		}
		if doc == nil {
			return counted{}, ErrNotReady
		}
		count, ok := ReadResultCount(doc)
		if !ok {
			return counted{}, ErrNotReady
		}
		return counted{frame: Frame{ID: frame.ID, Doc: doc}, count: count}, nil
	})
	if err != nil {
		return Frame{}, ResultCount{}, err
	}
	return result.frame, result.count, nil
}

// EnumerateNames lists the instructor of every result row in [0, count).
// Rows that cannot be looked up are reported and returned in Skipped.
func (s Scanner) EnumerateNames(frame Frame, count int) Enumeration {
	if count > s.opts.MaxRows {
		s.tel.ReportWarning(
			report_scanner_row_limit,
			fmt.Errorf("result count %d is over the limit of %d rows", count, s.opts.MaxRows),
		)
		count = s.opts.MaxRows
	}

	var out Enumeration
	for i := 0; i < count; i++ {
		elementID := fmt.Sprintf(INSTRUCTOR_ID_FMT, i)
		sel := frame.Doc.Find(byID(elementID)).First()
		if sel.Length() == 0 {
			s.tel.ReportWarning(report_scanner_enumerate, errMissingRow, i)
			out.Skipped = append(out.Skipped, Skip{Index: i, Err: errMissingRow})
			continue
		}

		// whitespace is collapsed the way the rendered page shows it
		name := htmlutil.CleanText(htmlutil.GetText(sel.Nodes[0]))
		if strings.Contains(name, ",") {
			err := fmt.Errorf("instructors %q: %w", name, ErrMultipleInstructors)
			s.tel.ReportWarning(report_scanner_enumerate, err, i)
			out.Skipped = append(out.Skipped, Skip{Index: i, Err: err})
			continue
		}

		out.Rows = append(out.Rows, Row{
			Index:     i,
			ElementID: elementID,
			Name:      name,
		})
	}
	return out
}

// Annotate inserts markup after the row's name element.
func (s Scanner) Annotate(ctx context.Context, frame Frame, row Row, markup string) error {
	return s.host.InsertAfter(ctx, frame.ID, row.ElementID, markup)
}
