package scheduler

import (
	"context"
	"fmt"
	"ratemyclass/internal/badge"
	"ratemyclass/internal/matcher"
	"ratemyclass/internal/ratings"
	"ratemyclass/internal/scanner"
	"ratemyclass/internal/settings"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_pass_annotate   = "pass.annotate"
	report_pass_resolve    = "pass.resolve"
	report_pass_near_match = "pass.near-match"
	report_pass_settings   = "pass.settings"
)

// PassResult summarizes a pass.
type PassResult struct {
	Annotated int
	Skipped   int
	// Fallbacks is the number of annotated rows that got the search badge.
	Fallbacks int
}

func (s Scheduler) runPass(ctx context.Context) {
	passID, err := random.String(8)
	if err != nil {
		passID = "unknown"
	}

	ctx, span := tracer.Start(ctx, "pass")
	defer span.End()
	span.SetAttributes(attribute.String("pass.id", passID))

	before := s.resolver.Stats()
	result, err := s.Pass(ctx)
	after := s.resolver.Stats()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pass failed")
		s.tel.ReportBroken(report_scheduler_pass, err, passID)
	} else {
		s.tel.ReportDebug("pass completed", passID, result)
	}

	search := settings.Search{
		Requests: after.NetworkCalls - before.NetworkCalls,
		Lookups:  (after.NetworkCalls + after.CacheHits) - (before.NetworkCalls + before.CacheHits),
	}
	s.tel.ReportCount(report_scheduler_pass, search.Requests)
	// a pass cut short by shutdown still made its requests
	err = s.settings.RecordSearch(context.WithoutCancel(ctx), search)
	if err != nil {
		s.tel.ReportWarning(report_pass_settings, err, passID)
	}
}

// Pass scrapes the current results and annotates every instructor, it runs
// synchronously. Failures of a single row never stop the pass.
func (s Scheduler) Pass(ctx context.Context) (PassResult, error) {
	var result PassResult

	opts := badge.Options{}
	current, err := s.settings.Get(ctx)
	if err != nil {
		s.tel.ReportWarning(report_pass_settings, err)
	} else {
		opts.Tooltips = current.TooltipsEnabled
	}

	frame, err := s.scanner.LocateResultsFrame(ctx)
	if err != nil {
		return result, fmt.Errorf("locate results frame: %w", err)
	}
	frame, count, err := s.scanner.WaitResultCount(ctx, frame)
	if err != nil {
		return result, fmt.Errorf("read result count: %w", err)
	}

	enumeration := s.scanner.EnumerateNames(frame, count.N)
	result.Skipped = len(enumeration.Skipped)

	schoolID := s.resolver.School().ID
	for _, row := range enumeration.Rows {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		var record *ratings.Record
		resolved, err := s.resolver.Resolve(ctx, row.Name)
		if err != nil {
			s.tel.ReportWarning(report_pass_resolve, err, row.Name)
		} else {
			record = &resolved
			s.checkNearMatch(resolved, row)
		}

		if !badge.Trusted(record, row.Name) {
			result.Fallbacks++
		}
		markup := badge.Render(record, row.Name, schoolID, opts)

		err = s.scanner.Annotate(ctx, frame, row, markup)
		if err != nil {
			s.tel.ReportWarning(report_pass_annotate, err, row.Index)
			continue
		}
		result.Annotated++
	}

	return result, nil
}

func (s Scheduler) checkNearMatch(record ratings.Record, row scanner.Row) {
	if !matcher.IsMismatch(record.Name, row.Name) {
		return
	}
	similarity := matcher.Similarity(record.Name, row.Name)
	if similarity >= matcher.NEAR_MATCH {
		s.tel.ReportWarning(
			report_pass_near_match,
			fmt.Errorf("%q was answered with %q", row.Name, record.Name),
			similarity,
		)
	}
}
