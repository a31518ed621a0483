package telemetry

import (
	"strings"
	"sync"
)

type Level int

const (
	LEVEL_BROKEN Level = iota
	LEVEL_WARNING
	LEVEL_DEBUG
	LEVEL_COUNT
)

// Report is a single call made against a Recorder.
type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory so tests can assert
// on what was logged.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Level: LEVEL_BROKEN, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Level: LEVEL_WARNING, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Level: LEVEL_DEBUG, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Level: LEVEL_COUNT, ID: id, Count: count})
}

// Reports returns a copy of every report with the given level.
func (r *Recorder) Reports(level Level) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Level == level {
			out = append(out, report)
		}
	}
	return out
}

// Find returns the reports of the given level whose id ends with suffix,
// this ignores any namespaces attached by ScopedAPI.
func (r *Recorder) Find(level Level, suffix string) []Report {
	var out []Report
	for _, report := range r.Reports(level) {
		if strings.HasSuffix(report.ID, suffix) {
			out = append(out, report)
		}
	}
	return out
}
