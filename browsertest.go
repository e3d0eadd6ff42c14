// Package browsertest runs Go tests against a real browser. Every test gets its own
// Playwright session, failed tests leave a screenshot and a trace behind and all
// outcomes end up in an HTML report.
//
// A typical setup creates one Harness per test package in TestMain:
//
//	var harness *browsertest.Harness
//
//	func TestMain(m *testing.M) {
//		cfg, err := config.Load("config/env.properties")
//		if err != nil {
//			log.Fatal(err)
//		}
//		harness, err = browsertest.New(cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		os.Exit(browsertest.Main(m, harness))
//	}
//
//	func TestHome(t *testing.T) {
//		harness.Run(t, func(t *browsertest.T, s *session.Session) {
//			...
//		})
//	}
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/networkteam/browsertest/collector"
	"github.com/networkteam/browsertest/config"
	"github.com/networkteam/browsertest/dashboard"
	"github.com/networkteam/browsertest/report"
	"github.com/networkteam/browsertest/session"
)

// SessionFactory creates the browser session of a test.
type SessionFactory func(ctx context.Context, opts session.Options) (*session.Session, error)

type Harness struct {
	cfg    config.Config
	logger *slog.Logger

	newSession SessionFactory
	install    func(kinds ...config.BrowserKind) error
	registry   *session.Registry
	collector  *collector.Collector

	report     *report.Report
	reportPath string
	server     *dashboard.Server

	closeOnce sync.Once
	closeErr  error
}

type Options struct {
	// Logger receives harness events (artifacts saved, report written, capture errors).
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
	// SessionFactory creates sessions.
	// Default: nil, will use session.New
	SessionFactory SessionFactory
	// Now is used for report and artifact timestamps.
	// Default: nil, will use time.Now
	Now func() time.Time
	// Install downloads the driver and the configured browser before the tests run in Main.
	// Default: nil, will use session.Install
	Install func(kinds ...config.BrowserKind) error
}

// New creates a harness with default options.
func New(cfg config.Config) (*Harness, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a harness for the given configuration.
// If cfg.ServeAddr is set, the live report viewer is started.
func NewWithOptions(cfg config.Config, options Options) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newSession := options.SessionFactory
	if newSession == nil {
		newSession = session.New
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}
	install := options.Install
	if install == nil {
		install = session.Install
	}

	reportPath := cfg.ReportPath
	if reportPath == "" {
		reportPath = report.DefaultPath(filepath.Join(cfg.ReportsDir, cfg.WorkerID), now())
	}

	h := &Harness{
		cfg:        cfg,
		logger:     logger,
		newSession: newSession,
		install:    install,
		registry:   session.NewRegistry(),
		collector: collector.New(collector.Options{
			Dir:      cfg.ReportsDir,
			WorkerID: cfg.WorkerID,
			Now:      now,
			Logger:   logger,
		}),
		report:     report.NewWithOptions(cfg.Project, cfg.Metadata(), report.Options{Now: now}),
		reportPath: reportPath,
	}

	if cfg.ServeAddr != "" {
		handler := dashboard.NewHandler(h.report, dashboard.WithArtifactsDir(cfg.ReportsDir))
		server, err := dashboard.Start(cfg.ServeAddr, handler, logger)
		if err != nil {
			h.report.Close()
			return nil, fmt.Errorf("starting report viewer: %w", err)
		}
		h.server = server
		logger.Info("Report viewer started", slog.String("url", server.URL()))
	}

	return h, nil
}

func (h *Harness) Config() config.Config {
	return h.cfg
}

func (h *Harness) Report() *report.Report {
	return h.report
}

// ReportPath is where Close writes the HTML report.
func (h *Harness) ReportPath() string {
	return h.reportPath
}

// Run executes fn as a browser test. The session is created before fn runs and
// closed after it returns, fails, panics or skips. If fn failed, a screenshot and
// the trace are attached to the report before the session is closed.
//
// A session that cannot be created fails the test as errored in setup, fn is not called.
func (h *Harness) Run(t *testing.T, fn func(t *T, s *session.Session)) {
	t.Helper()

	failures := &failureLog{}
	h.run(t, failures, func(s *session.Session) {
		fn(&T{T: t, failures: failures}, s)
	})
}

func (h *Harness) run(t testing.TB, failures *failureLog, body func(s *session.Session)) {
	t.Helper()

	ctx := context.Background()
	name := t.Name()
	record := h.report.Start(name)

	opts := session.OptionsFromConfig(h.cfg)
	opts.TraceTitle = name

	s, err := h.newSession(ctx, opts)
	if err != nil {
		record.Finish(report.Outcome{Status: report.StatusErrored, Phase: report.PhaseSetup}, err)
		h.logger.ErrorContext(ctx, "Creating browser session failed", slog.String("test", name), slog.Any("error", err))
		t.Fatalf("creating browser session: %v", err)
		return
	}
	h.registry.Add(s)

	defer func() {
		r := recover()

		outcome := report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}
		failure := failures.err()
		switch {
		case r != nil:
			outcome.Status = report.StatusFailed
			failure = errors.Join(failure, fmt.Errorf("panic: %v", r))
		case t.Failed():
			outcome.Status = report.StatusFailed
			if failure == nil {
				failure = errors.New("test failed")
			}
		case t.Skipped():
			outcome.Status = report.StatusSkipped
			failure = nil
		}

		h.finish(ctx, t, s, record, outcome, failure)

		if r != nil {
			panic(r)
		}
	}()

	body(s)
}

// finish is the reporting step of a test: outcome and session handles are passed in
// explicitly, artifacts are captured, the record is finished and the session closed.
func (h *Harness) finish(ctx context.Context, t testing.TB, s *session.Session, record *report.Record, outcome report.Outcome, failure error) {
	t.Helper()

	artifacts, err := h.collector.Collect(ctx, outcome, s.Target(t.Name()), record)
	for _, artifact := range artifacts {
		t.Logf("[%s saved] %s", artifact.Kind, artifact.Path)
	}
	if err != nil {
		t.Logf("capturing failure artifacts: %v", err)
	}

	record.Finish(outcome, failure)

	closeErr := s.Close()
	h.registry.Remove(s)
	if closeErr != nil {
		record.Teardown(closeErr)
		t.Errorf("closing browser session: %v", closeErr)
	}
}

// Close closes sessions that are still open, writes the report and stops the viewer.
// It is safe to call Close more than once.
func (h *Harness) Close() error {
	h.closeOnce.Do(func() {
		ctx := context.Background()

		var errs []error
		if err := h.registry.CloseAll(); err != nil {
			errs = append(errs, fmt.Errorf("closing leftover sessions: %w", err))
		}

		if err := dashboard.WriteFile(ctx, h.reportPath, h.report); err != nil {
			errs = append(errs, fmt.Errorf("writing report: %w", err))
		} else {
			summary := h.report.Summary()
			h.logger.Info("Report written",
				slog.String("path", h.reportPath),
				slog.Int("passed", summary.Passed),
				slog.Int("failed", summary.Failed),
				slog.Int("errored", summary.Errored),
				slog.Int("skipped", summary.Skipped),
			)
		}

		h.report.Close()

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("stopping report viewer: %w", err))
			}
		}

		h.closeErr = errors.Join(errs...)
	})
	return h.closeErr
}

// Main installs the configured browser, runs the tests and closes the harness.
// The returned code is meant for os.Exit.
func Main(m *testing.M, h *Harness) int {
	return h.main(m.Run)
}

func (h *Harness) main(run func() int) int {
	if err := h.install(h.cfg.Browser); err != nil {
		h.logger.Error("Installing playwright failed", slog.Any("error", err))
		if err := h.Close(); err != nil {
			h.logger.Error("Closing harness failed", slog.Any("error", err))
		}
		return 1
	}

	code := run()

	if err := h.Close(); err != nil {
		h.logger.Error("Closing harness failed", slog.Any("error", err))
		if code == 0 {
			code = 1
		}
	}
	return code
}
