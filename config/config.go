package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BrowserKind selects the browser engine a session is launched with.
type BrowserKind string

const (
	BrowserChromium BrowserKind = "chromium"
	BrowserFirefox  BrowserKind = "firefox"
	BrowserWebKit   BrowserKind = "webkit"
)

// ErrUnknownBrowser is returned for a browser kind other than chromium, firefox or webkit.
var ErrUnknownBrowser = errors.New("unknown browser kind")

// ParseBrowserKind accepts the engine names understood by Playwright.
func ParseBrowserKind(s string) (BrowserKind, error) {
	switch kind := BrowserKind(s); kind {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBrowser, s)
	}
}

const (
	DefaultTimeout         = 30 * time.Second
	DefaultReportsDir      = "reports"
	DefaultConsoleCapacity = 200
	DefaultProject         = "Playwright Automation Framework"
)

// Config holds everything needed to provision sessions and write the report.
// It is passed explicitly to the harness, there is no process-wide instance.
type Config struct {
	// Browser is the engine to launch.
	// Default: chromium
	Browser BrowserKind
	// Headless runs the browser without a visible window.
	// Default: true
	Headless bool
	// Timeout is applied as the default timeout for page actions.
	// Default: 30s
	Timeout time.Duration
	// NavigationTimeout is applied as the default navigation timeout.
	// Default: 0, will use Timeout
	NavigationTimeout time.Duration
	// BaseURL is set on every browser context so pages can navigate with relative paths.
	BaseURL string

	// Project and Environment are shown in the report header.
	Project     string
	Environment string

	// ReportsDir is the root for the HTML report, screenshots and traces.
	// Default: reports
	ReportsDir string
	// ReportPath is the HTML report file. An empty value generates a timestamped path in ReportsDir.
	ReportPath string
	// WorkerID partitions artifact directories and the generated report path between parallel test processes.
	// Default: DefaultWorkerID()
	WorkerID string

	// Trace records a Playwright trace for every session so it can be saved on failure.
	// Default: true
	Trace bool
	// ConsoleCapacity is the number of browser console lines kept per session.
	// Default: 200
	ConsoleCapacity int

	// ServeAddr starts the live report viewer on this address if not empty.
	ServeAddr string
}

// DefaultWorkerID names the running process by its executable and pid, e.g.
// "pages-4711" for the test binary pages.test. go test ./... runs one binary per
// package in parallel, so each of them writes to its own directories.
func DefaultWorkerID() string {
	return workerID(os.Args[0], os.Getpid())
}

func workerID(executable string, pid int) string {
	name := filepath.Base(executable)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, ".test")
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "_" {
		name = "worker"
	}
	return name + "-" + strconv.Itoa(pid)
}

// Default returns the configuration used when no environment file sets a value.
func Default() Config {
	return Config{
		Browser:         BrowserChromium,
		Headless:        true,
		Timeout:         DefaultTimeout,
		Project:         DefaultProject,
		ReportsDir:      DefaultReportsDir,
		WorkerID:        DefaultWorkerID(),
		Trace:           true,
		ConsoleCapacity: DefaultConsoleCapacity,
	}
}

// EffectiveNavigationTimeout returns NavigationTimeout, falling back to Timeout.
func (c Config) EffectiveNavigationTimeout() time.Duration {
	if c.NavigationTimeout > 0 {
		return c.NavigationTimeout
	}
	return c.Timeout
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if _, err := ParseBrowserKind(string(c.Browser)); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.NavigationTimeout < 0 {
		return fmt.Errorf("navigation timeout must not be negative, got %s", c.NavigationTimeout)
	}
	if c.ConsoleCapacity < 0 {
		return fmt.Errorf("console capacity must not be negative, got %d", c.ConsoleCapacity)
	}
	return nil
}

// MetadataEntry is a single key/value pair of the report header.
type MetadataEntry struct {
	Key   string
	Value string
}

// Metadata returns the report header entries in display order.
func (c Config) Metadata() []MetadataEntry {
	entries := []MetadataEntry{
		{Key: "Project", Value: c.Project},
	}
	if c.Environment != "" {
		entries = append(entries, MetadataEntry{Key: "Test Environment", Value: c.Environment})
	}
	return append(entries,
		MetadataEntry{Key: "Base URL", Value: c.BaseURL},
		MetadataEntry{Key: "Browser", Value: string(c.Browser)},
		MetadataEntry{Key: "Headless", Value: strconv.FormatBool(c.Headless)},
		MetadataEntry{Key: "Timeout", Value: c.Timeout.String()},
	)
}
