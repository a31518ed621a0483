// Package telemetry is the logging and metrics surface every component
// reports through.
package telemetry

import (
	"fmt"
)

// API abstracts logging and metrics so tests can swap in a Recorder.
type API interface {
	// ReportBroken reports a component that broke and needs attention.
	//
	// id names the component, not the line that failed: a failed relay call
	// inside Resolver.Resolve is `resolver.resolve`, details go into params
	// or a wrapped error. ids are lowercase, dashes separate words of a
	// method. The package is usually given by a ScopedAPI so the id only
	// needs `<type>.<method>`.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something worth a look that is not necessarily
	// broken, see ReportBroken for ids.
	ReportWarning(id string, params ...any)

	// ReportDebug is dropped unless debug logging is on.
	ReportDebug(msg string, params ...any)

	// ReportCount records a sample of a count at the current time, samples
	// are data points and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, like a sub logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
