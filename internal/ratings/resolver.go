package ratings

import (
	"context"
	"errors"
	"fmt"
	"ratemyclass/internal/components/assert"
	"ratemyclass/internal/components/telemetry"
	"ratemyclass/internal/relay"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

const (
	report_resolver_resolve = "resolver.resolve"
	report_resolver_cache   = "resolver.cache"
)

var tracer = otel.Tracer("ratemyclass.internal.ratings")
var meter = otel.Meter("ratemyclass.internal.ratings")

var lookupCounter, _ = meter.Int64Counter(
	"ratings.lookups",
	metric.WithDescription("professor lookups by outcome"),
)

type Options struct {
	// Endpoint defaults to DEFAULT_ENDPOINT.
	Endpoint string
	// UserAgent defaults to DEFAULT_USER_AGENT.
	UserAgent string
}

// Stats counts what a Resolver has done since it was created.
type Stats struct {
	NetworkCalls int64
	CacheHits    int64
}

// Resolver turns instructor names into rating records, every distinct name
// costs at most one upstream request for the lifetime of the Resolver.
type Resolver struct {
	relay     relay.Relay
	school    School
	endpoint  string
	userAgent string
	tel       telemetry.API

	mutex sync.RWMutex
	cache map[string]Record
	group singleflight.Group

	networkCalls atomic.Int64
	cacheHits    atomic.Int64
}

func NewResolver(r relay.Relay, school School, opts Options, tel telemetry.API) *Resolver {
	assert.NotNil(r)
	assert.NotNil(tel)
	assert.Positive(school.ID)

	if opts.Endpoint == "" {
		opts.Endpoint = DEFAULT_ENDPOINT
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DEFAULT_USER_AGENT
	}

	return &Resolver{
		relay:     r,
		school:    school,
		endpoint:  opts.Endpoint,
		userAgent: opts.UserAgent,
		tel:       telemetry.NewScopedAPI("ratings", tel),
		cache:     make(map[string]Record),
	}
}

func (r *Resolver) School() School {
	return r.school
}

func (r *Resolver) Stats() Stats {
	return Stats{
		NetworkCalls: r.networkCalls.Load(),
		CacheHits:    r.cacheHits.Load(),
	}
}

func (r *Resolver) cached(name string) (Record, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	record, ok := r.cache[name]
	return record, ok
}

// Resolve returns the rating record for name, the cache is keyed by the exact
// string given.
func (r *Resolver) Resolve(ctx context.Context, name string) (Record, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("professor.name", name))

	record, ok := r.cached(name)
	if ok {
		r.cacheHits.Add(1)
		lookupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "cache_hit")))
		r.tel.ReportDebug(report_resolver_cache, "hit", name)
		return record, nil
	}

	result, err, _ := r.group.Do(name, func() (any, error) {
		// another caller may have filled the cache while this one waited
		// for the previous flight to finish
		record, ok := r.cached(name)
		if ok {
			r.cacheHits.Add(1)
			return record, nil
		}

		record, err := r.fetch(ctx, name)
		if err != nil {
			return Record{}, err
		}

		r.mutex.Lock()
		r.cache[name] = record
		r.mutex.Unlock()
		return record, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve professor")
		if errors.Is(err, ErrNotFound) {
			lookupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "not_found")))
		} else {
			lookupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		}
		return Record{}, err
	}

	lookupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "fetched")))
	return result.(Record), nil
}

func (r *Resolver) fetch(ctx context.Context, name string) (Record, error) {
	req, err := buildSearchRequest(r.endpoint, r.userAgent, r.school, name)
	if err != nil {
		r.tel.ReportBroken(report_resolver_resolve, fmt.Errorf("build request: %w", err), name)
		return Record{}, err
	}

	r.networkCalls.Add(1)
	body, err := r.relay.Send(ctx, req)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrNetwork, err)
		r.tel.ReportWarning(report_resolver_resolve, err, name)
		return Record{}, err
	}

	record, err := parseSearchResponse(body)
	if errors.Is(err, ErrInvalidResponse) {
		r.tel.ReportWarning(report_resolver_resolve, err, name, string(body))
		return Record{}, err
	}
	if err != nil {
		r.tel.ReportDebug(report_resolver_resolve, err.Error(), name)
		return Record{}, err
	}

	r.tel.ReportDebug(report_resolver_resolve, "fetched", name, record)
	return record, nil
}
