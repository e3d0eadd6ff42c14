// Package pages contains Page Object helpers for tests running in a browsertest session.
package pages

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// BasePage wraps a Playwright page with navigation helpers.
// Embed it in page objects of the application under test.
type BasePage struct {
	Page    playwright.Page
	BaseURL string
	t       testing.TB
}

func NewBasePage(t testing.TB, page playwright.Page, baseURL string) *BasePage {
	return &BasePage{
		Page:    page,
		BaseURL: baseURL,
		t:       t,
	}
}

// T returns the test failures are reported to.
func (p *BasePage) T() testing.TB {
	return p.t
}

// ResolveURL resolves target against base. Absolute targets are returned unchanged.
func ResolveURL(base, target string) (string, error) {
	targetURL, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", target, err)
	}
	if base == "" || targetURL.IsAbs() {
		return targetURL.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", base, err)
	}
	return baseURL.ResolveReference(targetURL).String(), nil
}

// Navigate opens target, relative targets are resolved against BaseURL.
func (p *BasePage) Navigate(target string) {
	p.t.Helper()

	u, err := ResolveURL(p.BaseURL, target)
	require.NoError(p.t, err)

	_, err = p.Page.Goto(u)
	require.NoError(p.t, err, "failed to navigate to %s", u)
}

// Title returns the document title.
func (p *BasePage) Title() string {
	p.t.Helper()

	title, err := p.Page.Title()
	require.NoError(p.t, err, "failed to get page title")
	return title
}

// WaitForPageLoad waits until there are no network connections for at least 500 ms.
func (p *BasePage) WaitForPageLoad() {
	p.t.Helper()

	err := p.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
	require.NoError(p.t, err, "failed to wait for network idle")
}
