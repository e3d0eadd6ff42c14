package collector_test

import (
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest/collector"
)

type fakeConsoleSource struct {
	onConsole   func(playwright.ConsoleMessage)
	onPageError func(error)
}

func (s *fakeConsoleSource) OnConsole(fn func(playwright.ConsoleMessage)) {
	s.onConsole = fn
}

func (s *fakeConsoleSource) OnPageError(fn func(error)) {
	s.onPageError = fn
}

func TestConsoleCollector_Attach(t *testing.T) {
	source := &fakeConsoleSource{}
	console := collector.NewConsoleCollector(10)

	console.Attach(source)

	require.NotNil(t, source.onConsole)
	require.NotNil(t, source.onPageError)

	source.onPageError(errors.New("ReferenceError: foo is not defined"))

	entries := console.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "pageerror", entries[0].Kind)
	assert.Equal(t, "ReferenceError: foo is not defined", entries[0].Text)
}

func TestConsoleCollector_KeepsMostRecent(t *testing.T) {
	console := collector.NewConsoleCollector(2)

	console.Add("log", "one")
	console.Add("warning", "two")
	console.Add("error", "three")

	lines := console.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[warning] two")
	assert.Contains(t, lines[1], "[error] three")
}
