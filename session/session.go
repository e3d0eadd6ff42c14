// Package session provisions one isolated Playwright browser session per test.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/browsertest/collector"
	"github.com/networkteam/browsertest/config"
)

// Options configures a new session.
type Options struct {
	Browser           config.BrowserKind
	Headless          bool
	Timeout           time.Duration
	NavigationTimeout time.Duration
	BaseURL           string

	// Trace starts a Playwright trace with screenshots and snapshots when the session is created.
	Trace bool
	// TraceTitle is shown in the trace viewer, usually the test name.
	TraceTitle string

	// ConsoleCapacity is the number of console lines kept. Zero disables console capture.
	ConsoleCapacity int
}

// OptionsFromConfig maps the harness configuration to session options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Browser:           cfg.Browser,
		Headless:          cfg.Headless,
		Timeout:           cfg.Timeout,
		NavigationTimeout: cfg.EffectiveNavigationTimeout(),
		BaseURL:           cfg.BaseURL,
		Trace:             cfg.Trace,
		ConsoleCapacity:   cfg.ConsoleCapacity,
	}
}

type release struct {
	name string
	fn   func() error
}

// Session owns the Playwright driver, browser, context and page of one test.
// It is never shared between tests.
type Session struct {
	PW      *playwright.Playwright
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	// Console holds the recent console output of Page, nil if capture is disabled.
	Console *collector.ConsoleCollector

	tracing bool

	mu        sync.Mutex
	releases  []release
	closeOnce sync.Once
	closeErr  error
}

// New acquires driver, browser, context and page in this order. Default timeouts are
// applied to the context and tracing is started if requested.
// If any step fails, everything acquired so far is released and the error is returned.
// There are no retries.
func New(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{}
	if err := s.open(ctx, opts); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

func (s *Session) open(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("starting playwright: %w", err)
	}
	s.PW = pw
	s.OnClose("playwright", pw.Stop)

	browserType, err := BrowserType(pw, opts.Browser)
	if err != nil {
		return err
	}
	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return fmt.Errorf("launching %s: %w", opts.Browser, err)
	}
	s.Browser = browser
	s.OnClose("browser", func() error { return browser.Close() })

	if err := ctx.Err(); err != nil {
		return err
	}

	browserContext, err := browser.NewContext(contextOptions(opts))
	if err != nil {
		return fmt.Errorf("creating browser context: %w", err)
	}
	s.Context = browserContext
	s.OnClose("context", func() error { return browserContext.Close() })

	browserContext.SetDefaultTimeout(milliseconds(opts.Timeout))
	browserContext.SetDefaultNavigationTimeout(milliseconds(opts.NavigationTimeout))

	if opts.Trace {
		err := browserContext.Tracing().Start(playwright.TracingStartOptions{
			Title:       playwright.String(opts.TraceTitle),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("starting trace: %w", err)
		}
		s.tracing = true
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	s.Page = page

	if opts.ConsoleCapacity > 0 {
		s.Console = collector.NewConsoleCollector(opts.ConsoleCapacity)
		s.Console.Attach(page)
	}

	return nil
}

func contextOptions(opts Options) playwright.BrowserNewContextOptions {
	options := playwright.BrowserNewContextOptions{}
	if opts.BaseURL != "" {
		options.BaseURL = playwright.String(opts.BaseURL)
	}
	return options
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

// BrowserType returns the Playwright browser type for kind.
func BrowserType(pw *playwright.Playwright, kind config.BrowserKind) (playwright.BrowserType, error) {
	switch kind {
	case config.BrowserChromium:
		return pw.Chromium, nil
	case config.BrowserFirefox:
		return pw.Firefox, nil
	case config.BrowserWebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBrowser, kind)
	}
}

// OnClose registers fn to run when the session is closed. Functions run in reverse
// registration order, so resources acquired later are released first.
func (s *Session) OnClose(name string, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases = append(s.releases, release{name: name, fn: fn})
}

// Tracing returns the running trace, nil if tracing was not started.
func (s *Session) Tracing() collector.TraceRecorder {
	if !s.tracing || s.Context == nil {
		return nil
	}
	return s.Context.Tracing()
}

// Target returns the handles the failure artifact collector needs for this session.
func (s *Session) Target(testName string) collector.Target {
	return collector.Target{
		Name:    testName,
		Page:    s.Page,
		Trace:   s.Tracing(),
		Console: s.Console,
	}
}

// Close releases all resources exactly once: the context (closing its page), then the
// browser, then the driver. Every release runs even if an earlier one fails, the errors
// are joined. Later calls return the result of the first.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		releases := slices.Clone(s.releases)
		s.releases = nil
		s.mu.Unlock()

		var errs []error
		for _, r := range slices.Backward(releases) {
			if err := r.fn(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", r.name, err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// Install downloads the browsers and driver for the given kinds.
func Install(kinds ...config.BrowserKind) error {
	browsers := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if _, err := config.ParseBrowserKind(string(kind)); err != nil {
			return err
		}
		browsers = append(browsers, string(kind))
	}
	return playwright.Install(&playwright.RunOptions{Browsers: browsers})
}
