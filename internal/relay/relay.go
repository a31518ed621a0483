// Package relay carries an HTTP request descriptor to something that can
// perform it and brings back the parsed JSON body.
//
// The shape mirrors what a sandboxed page script would hand to a privileged
// background context: `{url, options: {method, headers, body}}` in, the parsed
// JSON or `{error: message}` out.
package relay

import (
	"context"
	"encoding/json"
)

type Options struct {
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

type Request struct {
	URL     string   `json:"url"`
	Options *Options `json:"options"`
}

// Relay performs a request out-of-band and returns the response body, which
// is guaranteed to be valid JSON when the error is nil.
//
// note: fault injection point
type Relay interface {
	Send(ctx context.Context, req Request) (json.RawMessage, error)
}

// Error is the `{error: message}` answer of a relay.
type Error struct {
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return "relay: " + e.Message
}
