package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/browsertest/config"
	"github.com/networkteam/browsertest/report"
)

// Screenshotter is implemented by playwright.Page.
type Screenshotter interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// TraceRecorder is implemented by playwright.Tracing.
type TraceRecorder interface {
	Stop(path ...string) error
}

// Target carries the session handles of one test into Collect.
// Any handle may be nil if the session never got that far, the matching step is skipped.
type Target struct {
	Name    string
	Page    Screenshotter
	Trace   TraceRecorder
	Console *ConsoleCollector
}

// Options configures a Collector.
type Options struct {
	// Dir is the root directory for screenshots and traces.
	// Default: reports
	Dir string
	// WorkerID partitions the artifact directories.
	// Default: config.DefaultWorkerID()
	WorkerID string
	// FullPage captures the whole scrollable page instead of the viewport.
	FullPage bool
	// Now is used for the artifact timestamp.
	// Default: time.Now
	Now func() time.Time
	// Logger receives a record for every saved artifact and every capture error.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultOptions returns the options used by New for unset fields.
func DefaultOptions() Options {
	return Options{
		Dir:      "reports",
		WorkerID: config.DefaultWorkerID(),
		Now:      time.Now,
		Logger:   slog.Default(),
	}
}

// Collector captures screenshots and traces of failed tests and attaches them to the report.
type Collector struct {
	options Options
}

// New creates a collector, unset options are taken from DefaultOptions.
func New(options Options) *Collector {
	defaults := DefaultOptions()
	if options.Dir == "" {
		options.Dir = defaults.Dir
	}
	if options.WorkerID == "" {
		options.WorkerID = defaults.WorkerID
	}
	if options.Now == nil {
		options.Now = defaults.Now
	}
	if options.Logger == nil {
		options.Logger = defaults.Logger
	}
	return &Collector{options: options}
}

// ShouldCapture reports whether artifacts are written for the outcome.
// Only failures of the test body qualify, setup and teardown errors do not.
func ShouldCapture(outcome report.Outcome) bool {
	return outcome.FailedInCall()
}

// Collect is called once per test after the call phase. It does nothing unless the
// test failed in the call phase. Otherwise it attaches the console tail, saves a
// screenshot and the trace and attaches both to record.
//
// The steps are independent of each other. Capture errors are joined, logged and
// attached to the record as text, they never change the outcome of the test.
func (c *Collector) Collect(ctx context.Context, outcome report.Outcome, target Target, record *report.Record) ([]Artifact, error) {
	if !ShouldCapture(outcome) {
		return nil, nil
	}

	paths := Paths(c.options.Dir, c.options.WorkerID, target.Name, c.options.Now())
	logger := c.options.Logger.With(slog.String("test", target.Name))

	if target.Console != nil {
		record.SetConsole(target.Console.Lines())
	}

	var (
		artifacts []Artifact
		errs      []error
	)

	if target.Page != nil {
		if err := c.captureScreenshot(target.Page, paths.Screenshot, record); err != nil {
			errs = append(errs, err)
		} else {
			artifacts = append(artifacts, Artifact{Kind: ArtifactScreenshot, Path: paths.Screenshot})
			logger.InfoContext(ctx, "Screenshot saved", slog.String("path", paths.Screenshot))
		}
	}

	if target.Trace != nil {
		if err := c.saveTrace(target.Trace, paths.Trace, record); err != nil {
			errs = append(errs, err)
		} else {
			artifacts = append(artifacts, Artifact{Kind: ArtifactTrace, Path: paths.Trace})
			logger.InfoContext(ctx, "Trace saved", slog.String("path", paths.Trace))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.WarnContext(ctx, "Capturing failure artifacts failed", slog.Any("error", err))
		record.AddText("artifact capture error", err.Error())
	}

	return artifacts, err
}

func (c *Collector) captureScreenshot(page Screenshotter, path string, record *report.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating screenshot directory: %w", err)
	}

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(c.options.FullPage),
	})
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading screenshot: %w", err)
	}
	record.AddImage("screenshot", EncodeImage(data))

	return nil
}

func (c *Collector) saveTrace(trace TraceRecorder, path string, record *report.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating trace directory: %w", err)
	}

	if err := trace.Stop(path); err != nil {
		return fmt.Errorf("stopping trace: %w", err)
	}
	record.AddTrace(path)

	return nil
}
