//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest/pages"
	"github.com/networkteam/browsertest/session"
)

// ReportPage is the page object of the live report viewer.
type ReportPage struct {
	*pages.BasePage
	waits *pages.Waits
}

func NewReportPage(t testing.TB, s *session.Session, viewerURL string) *ReportPage {
	return &ReportPage{
		BasePage: pages.NewBasePage(t, s.Page, viewerURL),
		waits:    pages.NewWaits(t, 0),
	}
}

// Open loads the viewer and waits until the event stream is connected.
func (p *ReportPage) Open() {
	p.T().Helper()

	p.Navigate("/")

	err := p.Page.Locator("body[data-live='connected']").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(5000),
	})
	require.NoError(p.T(), err, "event stream did not connect")
}

// Result returns the list item of the named test.
func (p *ReportPage) Result(name string) playwright.Locator {
	return p.Page.Locator("#results > li.result").Filter(playwright.LocatorFilterOptions{
		HasText: name,
	})
}

// ExpectResult waits until the named test is listed with the given status.
func (p *ReportPage) ExpectResult(name, status string) {
	p.T().Helper()

	item := p.Result(name)
	p.waits.Visible(item)

	err := p.Page.Locator("#results > li.result[data-status='"+status+"']").Filter(playwright.LocatorFilterOptions{
		HasText: name,
	}).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(5000),
	})
	require.NoError(p.T(), err, "result %s is not %s", name, status)
}

// ExpectSummary waits until the summary bar contains text.
func (p *ReportPage) ExpectSummary(text string) {
	p.T().Helper()

	err := p.Page.Locator("#summary").Filter(playwright.LocatorFilterOptions{
		HasText: text,
	}).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	require.NoError(p.T(), err, "summary does not show %q", text)
}
