package report_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest/config"
	"github.com/networkteam/browsertest/report"
)

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(step)
		return t
	}
}

func TestDefaultPath(t *testing.T) {
	ts := time.Date(2025, 3, 4, 13, 5, 9, 0, time.UTC)

	assert.Equal(t, filepath.Join("reports", "report_20250304_130509.html"), report.DefaultPath("reports", ts))
}

func TestReport_RecordLifecycle(t *testing.T) {
	rep := report.NewWithOptions("Run", config.Default().Metadata(), report.Options{
		Now: fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
	})
	defer rep.Close()

	rec := rep.Start("TestLogin")
	assert.Equal(t, report.Outcome{}, rec.Outcome())

	rec.AddImage("screenshot", "data:image/png;base64,AAAA")
	rec.AddTrace("reports/traces/main/TestLogin.zip")
	rec.SetConsole([]string{"[log] hello"})
	rec.Finish(report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}, errors.New("title mismatch"))

	results := rep.Results()
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "TestLogin", result.Name)
	assert.True(t, result.Finished)
	assert.Equal(t, report.StatusFailed, result.Outcome.Status)
	assert.Equal(t, "title mismatch", result.Failure)
	assert.Equal(t, time.Second, result.Duration)
	assert.Equal(t, []string{"[log] hello"}, result.Console)
	require.Len(t, result.Extras, 2)
	assert.Equal(t, report.ExtraImage, result.Extras[0].Kind)
	assert.Equal(t, report.ExtraTrace, result.Extras[1].Kind)

	byID, found := rep.Result(rec.ID())
	require.True(t, found)
	assert.Equal(t, result.Name, byID.Name)
}

func TestRecord_Teardown(t *testing.T) {
	rep := report.New("Run", nil)
	defer rep.Close()

	passed := rep.Start("TestPassed")
	passed.Finish(report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, nil)
	passed.Teardown(errors.New("browser close failed"))

	assert.Equal(t, report.Outcome{Status: report.StatusErrored, Phase: report.PhaseTeardown}, passed.Outcome())
	assert.Equal(t, "browser close failed", passed.Result().Failure)

	failed := rep.Start("TestFailed")
	failed.Finish(report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}, errors.New("boom"))
	failed.Teardown(errors.New("browser close failed"))

	result := failed.Result()
	assert.Equal(t, report.StatusFailed, result.Outcome.Status)
	assert.Equal(t, "boom", result.Failure)
	require.Len(t, result.Extras, 1)
	assert.Equal(t, "teardown error", result.Extras[0].Name)

	failed.Teardown(nil)
	assert.Len(t, failed.Result().Extras, 1)
}

func TestReport_Summary(t *testing.T) {
	rep := report.New("Run", nil)
	defer rep.Close()

	rep.Start("a").Finish(report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, nil)
	rep.Start("b").Finish(report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, nil)
	rep.Start("c").Finish(report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}, nil)
	rep.Start("d").Finish(report.Outcome{Status: report.StatusErrored, Phase: report.PhaseSetup}, nil)
	rep.Start("e") // still running

	assert.Equal(t, report.Summary{Total: 4, Passed: 2, Failed: 1, Errored: 1}, rep.Summary())
}

func TestReport_ConcurrentRecords(t *testing.T) {
	rep := report.New("Run", nil)
	defer rep.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := rep.Start("parallel")
			rec.AddText("note", "x")
			rec.Finish(report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, rep.Summary().Passed)
}

func TestReport_SubscribeReceivesFinishedRecords(t *testing.T) {
	rep := report.New("Run", nil)
	defer rep.Close()

	watcher := report.Watch(t, rep)

	rep.Start("TestLive").Finish(report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, nil)
	failed := rep.Start("TestBroken")
	failed.Finish(report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}, nil)
	failed.Teardown(errors.New("closing browser: disconnected"))

	results := watcher.Wait(3)
	require.Len(t, results, 3)
	assert.Equal(t, "TestLive", results[0].Name)
	assert.Equal(t, report.StatusPassed, results[0].Outcome.Status)
	assert.Equal(t, "TestBroken", results[1].Name)
	assert.Empty(t, results[1].Extras)
	assert.Equal(t, report.StatusFailed, results[2].Outcome.Status)
	require.Len(t, results[2].Extras, 1)
	assert.Equal(t, "teardown error", results[2].Extras[0].Name)
}

func TestReport_StartDoesNotNotify(t *testing.T) {
	rep := report.New("Run", nil)
	defer rep.Close()

	watcher := report.Watch(t, rep)
	rep.Start("TestRunning")

	assert.Empty(t, watcher.Stop())
}
