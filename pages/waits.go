package pages

import (
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// Waits are retrying expectations on locators, failing the test after the timeout.
type Waits struct {
	expect playwright.PlaywrightAssertions
	t      testing.TB
}

// NewWaits creates expectations with the given timeout, zero uses the Playwright default (5s).
func NewWaits(t testing.TB, timeout time.Duration) *Waits {
	var expect playwright.PlaywrightAssertions
	if timeout > 0 {
		expect = playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds()))
	} else {
		expect = playwright.NewPlaywrightAssertions()
	}
	return &Waits{expect: expect, t: t}
}

func (w *Waits) Visible(locator playwright.Locator) {
	w.t.Helper()
	require.NoError(w.t, w.expect.Locator(locator).ToBeVisible())
}

func (w *Waits) Enabled(locator playwright.Locator) {
	w.t.Helper()
	require.NoError(w.t, w.expect.Locator(locator).ToBeEnabled())
}

func (w *Waits) HasText(locator playwright.Locator, text string) {
	w.t.Helper()
	require.NoError(w.t, w.expect.Locator(locator).ToHaveText(text))
}
