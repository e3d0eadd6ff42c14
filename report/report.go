package report

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"

	"github.com/networkteam/browsertest/config"
)

// TimestampLayout is used for report file names and artifact names.
const TimestampLayout = "20060102_150405"

// DefaultPath returns the generated report path used when none is configured.
func DefaultPath(dir string, t time.Time) string {
	return filepath.Join(dir, "report_"+t.Format(TimestampLayout)+".html")
}

// Report is the in-memory test report of one run.
// Records are added by parallel tests, so all methods are safe for concurrent use.
type Report struct {
	ID       uuid.UUID
	Title    string
	Metadata []config.MetadataEntry
	Started  time.Time

	now func() time.Time

	mu      sync.RWMutex
	records []*Record

	notifier *Notifier[Result]
}

// Options configures a Report.
type Options struct {
	// Now is used for record timestamps.
	// Default: time.Now
	Now func() time.Time
	// NotifierOptions configure the buffer of live update subscribers.
	// Default: nil, will use DefaultNotifierOptions()
	NotifierOptions *NotifierOptions
}

// New creates an empty report with default options.
func New(title string, metadata []config.MetadataEntry) *Report {
	return NewWithOptions(title, metadata, Options{})
}

// NewWithOptions creates an empty report.
func NewWithOptions(title string, metadata []config.MetadataEntry, options Options) *Report {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	notifierOptions := DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}

	return &Report{
		ID:       uuid.Must(uuid.NewV4()),
		Title:    title,
		Metadata: metadata,
		Started:  now(),
		now:      now,
		notifier: NewNotifierWithOptions[Result](notifierOptions),
	}
}

// Start adds a record for the named test.
func (r *Report) Start(name string) *Record {
	record := newRecord(r, name, r.now())

	r.mu.Lock()
	r.records = append(r.records, record)
	r.mu.Unlock()

	return record
}

// Results returns a copy of all records in start order.
func (r *Report) Results() []Result {
	r.mu.RLock()
	records := make([]*Record, len(r.records))
	copy(records, r.records)
	r.mu.RUnlock()

	return lo.Map(records, func(record *Record, _ int) Result {
		return record.Result()
	})
}

// Result returns the record with the given id.
func (r *Report) Result(id uuid.UUID) (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, found := lo.Find(r.records, func(record *Record) bool {
		return record.id == id
	})
	if !found {
		return Result{}, false
	}
	return record.Result(), true
}

// Summary counts finished records per status.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

// Summary returns the counts of finished records.
func (r *Report) Summary() Summary {
	finished := lo.Filter(r.Results(), func(result Result, _ int) bool {
		return result.Finished
	})
	counts := lo.CountValuesBy(finished, func(result Result) Status {
		return result.Outcome.Status
	})

	return Summary{
		Total:   len(finished),
		Passed:  counts[StatusPassed],
		Failed:  counts[StatusFailed],
		Errored: counts[StatusErrored],
		Skipped: counts[StatusSkipped],
	}
}

// Subscribe returns a channel receiving every finished or updated record.
// The subscription ends when ctx is done.
func (r *Report) Subscribe(ctx context.Context) <-chan Result {
	return r.notifier.Subscribe(ctx)
}

// Close ends all subscriptions.
func (r *Report) Close() {
	r.notifier.Close()
}

func (r *Report) notify(result Result) {
	r.notifier.Notify(result)
}
