//go:build acceptance
// +build acceptance

package acceptance

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/browsertest"
	"github.com/networkteam/browsertest/dashboard"
	"github.com/networkteam/browsertest/report"
	"github.com/networkteam/browsertest/session"
)

func TestReportViewerShowsResultsLive(t *testing.T) {
	rep := report.New("Live run", harness.Config().Metadata())
	defer rep.Close()

	server := httptest.NewServer(dashboard.NewHandler(rep))
	defer server.Close()

	rep.Start("TestBefore").Finish(report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}, nil)

	harness.Run(t, func(t *browsertest.T, s *session.Session) {
		viewer := NewReportPage(t, s, server.URL)
		viewer.Open()

		assert.Equal(t, "Live run", viewer.Title())
		viewer.ExpectResult("TestBefore", "passed")
		viewer.ExpectSummary("1 passed")

		rep.Start("TestLater").Finish(report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall}, errors.New("expected true"))

		viewer.ExpectResult("TestLater", "failed")
		viewer.ExpectSummary("1 failed")
	})
}
