//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest/pages"
	"github.com/networkteam/browsertest/session"
)

// LoginPage is the page object of the login form of the test application.
type LoginPage struct {
	*pages.BasePage
	waits *pages.Waits
}

func NewLoginPage(t testing.TB, s *session.Session, baseURL string) *LoginPage {
	return &LoginPage{
		BasePage: pages.NewBasePage(t, s.Page, baseURL),
		waits:    pages.NewWaits(t, 0),
	}
}

// Open navigates to the login form and waits until it can be used.
func (p *LoginPage) Open() {
	p.T().Helper()

	p.Navigate("/login")
	p.waits.Visible(p.Page.Locator("#username"))
	p.waits.Enabled(p.Page.Locator("#login"))
}

// Login submits the form with the given credentials.
func (p *LoginPage) Login(username, password string) {
	p.T().Helper()

	require.NoError(p.T(), p.Page.Locator("#username").Fill(username))
	require.NoError(p.T(), p.Page.Locator("#password").Fill(password))
	require.NoError(p.T(), p.Page.Locator("#login").Click())
	p.WaitForPageLoad()
}

// ExpectFlash waits for the flash message to show text.
func (p *LoginPage) ExpectFlash(text string) {
	p.T().Helper()

	p.waits.HasText(p.Page.Locator("#flash"), text)
}
