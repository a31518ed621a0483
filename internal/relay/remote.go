package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"ratemyclass/internal/components/assert"
	"ratemyclass/internal/components/telemetry"
	"time"

	"github.com/go-resty/resty/v2"
)

// Remote sends requests to a relay Handler running elsewhere.
type Remote struct {
	endpoint string
	http     *resty.Client
}

func NewRemote(endpoint string, timeout time.Duration, tel telemetry.API) Remote {
	assert.NotEmptyStr(endpoint)
	assert.NotNil(tel)

	httpClient := resty.New()
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}
	telemetry.InstrumentResty(httpClient, telemetry.NewScopedAPI("relay_remote", tel))

	return Remote{endpoint: endpoint, http: httpClient}
}

func (r Remote) Send(ctx context.Context, req Request) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	res, err := r.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(payload).
		Post(r.endpoint)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}

	body := res.Body()
	if !json.Valid(body) {
		return nil, &Error{Message: fmt.Sprintf("failed to parse JSON: %s", res.String())}
	}

	var failure Error
	err = json.Unmarshal(body, &failure)
	if err == nil && failure.Message != "" {
		return nil, &failure
	}
	return json.RawMessage(body), nil
}
