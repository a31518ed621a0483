package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/textproto"
	"ratemyclass/internal/components/assert"
	"ratemyclass/internal/components/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_direct_send = "direct.send"
)

// headers owned by the transport, a browser's fetch() refuses to set these
// as well so they are dropped instead of forwarded.
var transportHeaders = map[string]struct{}{
	"Host":            {},
	"Content-Length":  {},
	"Connection":      {},
	"Accept-Encoding": {},
}

type DirectOptions struct {
	Timeout time.Duration
	// RequestsPerSecond limits outgoing requests, 0 means unlimited.
	RequestsPerSecond float64
}

// Direct performs requests itself using resty.
type Direct struct {
	http *resty.Client
	tel  telemetry.API
}

func NewDirect(opts DirectOptions, tel telemetry.API) Direct {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("relay", tel)

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(limit, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return Direct{http: httpClient, tel: tel}
}

func (d Direct) Send(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.URL == "" || req.Options == nil {
		return nil, &Error{Message: "request is missing url or options"}
	}

	method := req.Options.Method
	if method == "" {
		method = http.MethodGet
	}

	r := d.http.R().SetContext(ctx)
	for key, value := range req.Options.Headers {
		_, owned := transportHeaders[textproto.CanonicalMIMEHeaderKey(key)]
		if owned {
			continue
		}
		r.SetHeader(key, value)
	}
	if req.Options.Body != "" {
		r.SetBody(req.Options.Body)
	}

	res, err := r.Execute(method, req.URL)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}

	body := res.Body()
	if !json.Valid(body) {
		d.tel.ReportDebug(report_direct_send, telemetry.FormatHttpMessage(res))
		return nil, &Error{Message: fmt.Sprintf("failed to parse JSON: %s", res.String())}
	}
	return json.RawMessage(body), nil
}
