package collector_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest/collector"
	"github.com/networkteam/browsertest/report"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x01, 0xff}

type fakePage struct {
	calls int
	err   error
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if len(options) > 0 && options[0].Path != nil {
		if err := os.WriteFile(*options[0].Path, pngBytes, 0o644); err != nil {
			return nil, err
		}
	}
	return pngBytes, nil
}

type fakeTrace struct {
	stoppedTo []string
	err       error
}

func (tr *fakeTrace) Stop(path ...string) error {
	tr.stoppedTo = append(tr.stoppedTo, path...)
	if tr.err != nil {
		return tr.err
	}
	for _, p := range path {
		if err := os.WriteFile(p, []byte("PK"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

var failedInCall = report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}

func newTestCollector(t *testing.T) (*collector.Collector, string) {
	t.Helper()

	dir := t.TempDir()
	return collector.New(collector.Options{
		Dir:      dir,
		WorkerID: "gw0",
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), dir
}

func TestShouldCapture(t *testing.T) {
	tests := []struct {
		outcome report.Outcome
		want    bool
	}{
		{outcome: report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}, want: true},
		{outcome: report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, want: false},
		{outcome: report.Outcome{Status: report.StatusErrored, Phase: report.PhaseCall}, want: false},
		{outcome: report.Outcome{Status: report.StatusSkipped, Phase: report.PhaseCall}, want: false},
		{outcome: report.Outcome{Status: report.StatusFailed, Phase: report.PhaseSetup}, want: false},
		{outcome: report.Outcome{Status: report.StatusFailed, Phase: report.PhaseTeardown}, want: false},
		{outcome: report.Outcome{Status: report.StatusErrored, Phase: report.PhaseSetup}, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome.Status)+"_"+string(tt.outcome.Phase), func(t *testing.T) {
			assert.Equal(t, tt.want, collector.ShouldCapture(tt.outcome))
		})
	}
}

func TestPaths(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

	paths := collector.Paths("reports", "gw1", "TestLogin/invalid password", ts)

	assert.Equal(t, filepath.Join("reports", "screenshots", "gw1", "TestLogin_invalid_password_20250601_123045.png"), paths.Screenshot)
	assert.Equal(t, filepath.Join("reports", "traces", "gw1", "TestLogin_invalid_password_20250601_123045.zip"), paths.Trace)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "TestA_b_c", collector.SanitizeName("TestA/b c"))
	assert.Equal(t, "Test-1.2", collector.SanitizeName("Test-1.2"))
	assert.Equal(t, "Test__", collector.SanitizeName("Test#ü"))
	assert.Equal(t, "test", collector.SanitizeName(""))
	assert.Equal(t, "test", collector.SanitizeName(".."))
}

func TestEncodeImage_RoundTrip(t *testing.T) {
	encoded := collector.EncodeImage(pngBytes)
	assert.Contains(t, encoded, "data:image/png;base64,")

	decoded, err := collector.DecodeImage(encoded)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)

	_, err = collector.DecodeImage("data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, collector.ErrNotPNGDataURI)

	_, err = collector.DecodeImage("data:image/png;base64,!!!")
	assert.Error(t, err)
}

func TestCollect_SkipsUnlessFailedInCall(t *testing.T) {
	c, dir := newTestCollector(t)
	rep := report.New("Run", nil)
	defer rep.Close()

	for _, outcome := range []report.Outcome{
		{Status: report.StatusPassed, Phase: report.PhaseCall},
		{Status: report.StatusErrored, Phase: report.PhaseSetup},
		{Status: report.StatusSkipped, Phase: report.PhaseCall},
	} {
		page := &fakePage{}
		trace := &fakeTrace{}
		rec := rep.Start("TestSkip")

		artifacts, err := c.Collect(context.Background(), outcome, collector.Target{Name: "TestSkip", Page: page, Trace: trace}, rec)
		require.NoError(t, err)

		assert.Empty(t, artifacts)
		assert.Zero(t, page.calls)
		assert.Empty(t, trace.stoppedTo)
		assert.Empty(t, rec.Result().Extras)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no artifact directories should be created")
}

func TestCollect_FailedTestWritesArtifacts(t *testing.T) {
	c, dir := newTestCollector(t)
	rep := report.New("Run", nil)
	defer rep.Close()

	console := collector.NewConsoleCollector(10)
	console.Add("error", "Uncaught TypeError")

	page := &fakePage{}
	trace := &fakeTrace{}
	rec := rep.Start("TestCheckout/pay")

	artifacts, err := c.Collect(context.Background(), failedInCall, collector.Target{
		Name:    "TestCheckout/pay",
		Page:    page,
		Trace:   trace,
		Console: console,
	}, rec)
	require.NoError(t, err)

	screenshotPath := filepath.Join(dir, "screenshots", "gw0", "TestCheckout_pay_20250601_123045.png")
	tracePath := filepath.Join(dir, "traces", "gw0", "TestCheckout_pay_20250601_123045.zip")

	assert.Equal(t, []collector.Artifact{
		{Kind: collector.ArtifactScreenshot, Path: screenshotPath},
		{Kind: collector.ArtifactTrace, Path: tracePath},
	}, artifacts)
	assert.FileExists(t, screenshotPath)
	assert.FileExists(t, tracePath)
	assert.Equal(t, []string{tracePath}, trace.stoppedTo)

	result := rec.Result()
	require.Len(t, result.Extras, 2)
	assert.Equal(t, report.ExtraImage, result.Extras[0].Kind)
	decoded, err := collector.DecodeImage(result.Extras[0].Content)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)
	assert.Equal(t, report.Extra{Kind: report.ExtraTrace, Name: "trace", Content: tracePath}, result.Extras[1])

	require.Len(t, result.Console, 1)
	assert.Contains(t, result.Console[0], "[error] Uncaught TypeError")
}

func TestCollect_MissingHandlesAreSkipped(t *testing.T) {
	c, _ := newTestCollector(t)
	rep := report.New("Run", nil)
	defer rep.Close()

	rec := rep.Start("TestNoSession")

	artifacts, err := c.Collect(context.Background(), failedInCall, collector.Target{Name: "TestNoSession"}, rec)
	require.NoError(t, err)

	assert.Empty(t, artifacts)
	assert.Empty(t, rec.Result().Extras)
}

func TestCollect_ScreenshotErrorDoesNotPreventTrace(t *testing.T) {
	c, _ := newTestCollector(t)
	rep := report.New("Run", nil)
	defer rep.Close()

	screenshotErr := errors.New("page crashed")
	trace := &fakeTrace{}
	rec := rep.Start("TestCrash")

	artifacts, err := c.Collect(context.Background(), failedInCall, collector.Target{
		Name:  "TestCrash",
		Page:  &fakePage{err: screenshotErr},
		Trace: trace,
	}, rec)

	require.Error(t, err)
	assert.ErrorIs(t, err, screenshotErr)
	require.Len(t, artifacts, 1)
	assert.Equal(t, collector.ArtifactTrace, artifacts[0].Kind)

	result := rec.Result()
	require.Len(t, result.Extras, 2)
	assert.Equal(t, report.ExtraTrace, result.Extras[0].Kind)
	assert.Equal(t, "artifact capture error", result.Extras[1].Name)
	assert.Contains(t, result.Extras[1].Content, "page crashed")
}
