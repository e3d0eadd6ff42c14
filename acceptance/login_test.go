//go:build acceptance
// +build acceptance

package acceptance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest"
	"github.com/networkteam/browsertest/pages"
	"github.com/networkteam/browsertest/session"
)

func TestHomePageTitle(t *testing.T) {
	t.Parallel()

	harness.Run(t, func(t *browsertest.T, s *session.Session) {
		home := pages.NewBasePage(t, s.Page, harness.Config().BaseURL)
		home.Navigate("/")
		home.WaitForPageLoad()

		assert.Equal(t, "Example Domain", home.Title())
	})
}

func TestLoginWithValidCredentials(t *testing.T) {
	t.Parallel()

	harness.Run(t, func(t *browsertest.T, s *session.Session) {
		login := NewLoginPage(t, s, harness.Config().BaseURL)
		login.Open()
		login.Login(validUsername, validPassword)

		assert.True(t, strings.HasSuffix(s.Page.URL(), "/secure"), "expected secure area, got %s", s.Page.URL())
		login.ExpectFlash("You logged into a secure area!")
	})
}

func TestLoginWithInvalidPassword(t *testing.T) {
	t.Parallel()

	harness.Run(t, func(t *browsertest.T, s *session.Session) {
		login := NewLoginPage(t, s, harness.Config().BaseURL)
		login.Open()
		login.Login(validUsername, "wrong")

		login.ExpectFlash("Your username or password is invalid!")
		assert.Equal(t, "Login Page", login.Title())
	})
}

// Every test gets a fresh context, so the cookie of a login in another test must not leak.
func TestSecureAreaRequiresLogin(t *testing.T) {
	t.Parallel()

	harness.Run(t, func(t *browsertest.T, s *session.Session) {
		page := pages.NewBasePage(t, s.Page, harness.Config().BaseURL)
		page.Navigate("/secure")
		page.WaitForPageLoad()

		assert.True(t, strings.HasSuffix(s.Page.URL(), "/login"), "expected redirect to login, got %s", s.Page.URL())
	})
}

func TestConsoleIsCaptured(t *testing.T) {
	harness.Run(t, func(t *browsertest.T, s *session.Session) {
		require.NotNil(t, s.Console)

		page := pages.NewBasePage(t, s.Page, harness.Config().BaseURL)
		page.Navigate("/console")
		page.WaitForPageLoad()

		require.Eventually(t, func() bool {
			return len(s.Console.Entries()) >= 2
		}, pollTimeout, pollInterval)

		lines := strings.Join(s.Console.Lines(), "\n")
		assert.Contains(t, lines, "[log] hello from the page")
		assert.Contains(t, lines, "[error] something broke")
	})
}
