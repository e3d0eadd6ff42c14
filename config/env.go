package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is prepended to property keys when reading overrides from the process environment.
const EnvPrefix = "BROWSERTEST_"

// Property keys understood by FromProperties.
const (
	KeyBrowser           = "BROWSER"
	KeyHeadless          = "HEADLESS"
	KeyTimeout           = "TIMEOUT"
	KeyNavigationTimeout = "NAVIGATION_TIMEOUT"
	KeyBaseURL           = "BASE_URL"
	KeyProject           = "PROJECT"
	KeyEnvironment       = "ENVIRONMENT"
	KeyReportsDir        = "REPORTS_DIR"
	KeyReportPath        = "REPORT_PATH"
	KeyWorkerID          = "WORKER_ID"
	KeyTrace             = "TRACE"
	KeyServeAddr         = "SERVE_ADDR"
	KeyConsoleCapacity   = "CONSOLE_CAPACITY"
)

var allKeys = []string{
	KeyBrowser, KeyHeadless, KeyTimeout, KeyNavigationTimeout, KeyBaseURL, KeyProject, KeyEnvironment,
	KeyReportsDir, KeyReportPath, KeyWorkerID, KeyTrace, KeyServeAddr, KeyConsoleCapacity,
}

// LoadEnvFile reads a line-oriented key=value file.
// Blank lines and lines starting with # are ignored, the first = separates key and value
// and both sides are trimmed. Lines without = are skipped.
func LoadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("environment file not found: %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("opening environment file %s: %w", path, err)
	}
	defer f.Close()

	props := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading environment file %s: %w", path, err)
	}

	return props, nil
}

// FromProperties applies the given properties on top of Default.
// Unknown keys are ignored, invalid values return an error naming the key.
func FromProperties(props map[string]string) (Config, error) {
	cfg := Default()
	if err := cfg.apply(props); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Load reads the environment file at path and applies overrides from the process
// environment (BROWSERTEST_HEADLESS=false etc.) on top of it.
func Load(path string) (Config, error) {
	props, err := LoadEnvFile(path)
	if err != nil {
		return Config{}, err
	}
	for k, v := range environOverrides(os.LookupEnv) {
		props[k] = v
	}
	return FromProperties(props)
}

// FromEnviron returns Default with overrides from the process environment only.
func FromEnviron() (Config, error) {
	return FromProperties(environOverrides(os.LookupEnv))
}

func environOverrides(lookup func(string) (string, bool)) map[string]string {
	overrides := make(map[string]string)
	for _, key := range allKeys {
		if v, ok := lookup(EnvPrefix + key); ok {
			overrides[key] = v
		}
	}
	return overrides
}

func (c *Config) apply(props map[string]string) error {
	for key, value := range props {
		var err error
		switch key {
		case KeyBrowser:
			c.Browser, err = ParseBrowserKind(strings.ToLower(value))
		case KeyHeadless:
			c.Headless, err = strconv.ParseBool(value)
		case KeyTimeout:
			c.Timeout, err = parseMillis(value)
		case KeyNavigationTimeout:
			c.NavigationTimeout, err = parseMillis(value)
		case KeyBaseURL:
			c.BaseURL = value
		case KeyProject:
			c.Project = value
		case KeyEnvironment:
			c.Environment = value
		case KeyReportsDir:
			c.ReportsDir = value
		case KeyReportPath:
			c.ReportPath = value
		case KeyWorkerID:
			c.WorkerID = value
		case KeyTrace:
			c.Trace, err = strconv.ParseBool(value)
		case KeyServeAddr:
			c.ServeAddr = value
		case KeyConsoleCapacity:
			c.ConsoleCapacity, err = strconv.Atoi(value)
		}
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

// maxMillis is the largest millisecond value that fits into a time.Duration.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

func parseMillis(value string) (time.Duration, error) {
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	if ms > maxMillis || ms < -maxMillis {
		return 0, fmt.Errorf("%d ms is out of range", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
