package report

import (
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

// ExtraKind tells the views how to present an Extra.
type ExtraKind string

const (
	// ExtraImage holds a data URI that can be used as an img src.
	ExtraImage ExtraKind = "image"
	// ExtraTrace holds the file path of a saved Playwright trace.
	ExtraTrace ExtraKind = "trace"
	// ExtraText holds plain text, e.g. an artifact capture error.
	ExtraText ExtraKind = "text"
)

// Extra is an attachment of a test record shown in the report.
type Extra struct {
	Kind    ExtraKind
	Name    string
	Content string
}

// Result is an immutable copy of a Record used for rendering.
type Result struct {
	ID       uuid.UUID
	Name     string
	Outcome  Outcome
	Finished bool
	Start    time.Time
	Duration time.Duration
	Failure  string
	Console  []string
	Extras   []Extra
}

// Record collects the outcome and attachments of a single test.
// All methods are safe for concurrent use.
type Record struct {
	id     uuid.UUID
	name   string
	report *Report

	mu       sync.RWMutex
	outcome  Outcome
	finished bool
	start    time.Time
	end      time.Time
	failure  string
	console  []string
	extras   []Extra
}

func newRecord(report *Report, name string, start time.Time) *Record {
	return &Record{
		id:     uuid.Must(uuid.NewV4()),
		name:   name,
		report: report,
		start:  start,
	}
}

func (r *Record) ID() uuid.UUID {
	return r.id
}

func (r *Record) Name() string {
	return r.name
}

// Finish stores the outcome of the test and notifies report subscribers.
// A non-nil err is kept as the failure message.
func (r *Record) Finish(outcome Outcome, err error) {
	r.mu.Lock()
	r.outcome = outcome
	r.finished = true
	r.end = r.report.now()
	if err != nil {
		r.failure = err.Error()
	}
	r.mu.Unlock()

	r.report.notify(r.Result())
}

// Teardown records an error that happened while releasing the session.
// A test that passed its call phase becomes errored in the teardown phase,
// an already failed test keeps its outcome and gets the error as text extra.
func (r *Record) Teardown(err error) {
	if err == nil {
		return
	}

	r.mu.Lock()
	if r.outcome.Status == StatusPassed {
		r.outcome = Outcome{Status: StatusErrored, Phase: PhaseTeardown}
		r.failure = err.Error()
	} else {
		r.extras = append(r.extras, Extra{Kind: ExtraText, Name: "teardown error", Content: err.Error()})
	}
	r.mu.Unlock()

	r.report.notify(r.Result())
}

// Outcome returns the current outcome, the zero value before Finish was called.
func (r *Record) Outcome() Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outcome
}

// AddImage attaches an encoded image (data URI).
func (r *Record) AddImage(name, dataURI string) {
	r.addExtra(Extra{Kind: ExtraImage, Name: name, Content: dataURI})
}

// AddTrace attaches the path of a saved trace archive.
func (r *Record) AddTrace(path string) {
	r.addExtra(Extra{Kind: ExtraTrace, Name: "trace", Content: path})
}

// AddText attaches a named text block.
func (r *Record) AddText(name, text string) {
	r.addExtra(Extra{Kind: ExtraText, Name: name, Content: text})
}

// SetConsole stores the captured browser console lines.
func (r *Record) SetConsole(lines []string) {
	r.mu.Lock()
	r.console = slices.Clone(lines)
	r.mu.Unlock()
}

func (r *Record) addExtra(extra Extra) {
	r.mu.Lock()
	r.extras = append(r.extras, extra)
	r.mu.Unlock()
}

// Result returns a copy of the current state.
func (r *Record) Result() Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var duration time.Duration
	if r.finished {
		duration = r.end.Sub(r.start)
	}

	return Result{
		ID:       r.id,
		Name:     r.name,
		Outcome:  r.outcome,
		Finished: r.finished,
		Start:    r.start,
		Duration: duration,
		Failure:  r.failure,
		Console:  slices.Clone(r.console),
		Extras:   slices.Clone(r.extras),
	}
}
