package collector

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
)

// ConsoleEntry is a single line of browser output.
type ConsoleEntry struct {
	Time time.Time
	// Kind is the console message type (log, warning, error, ...) or "pageerror" for uncaught exceptions.
	Kind string
	Text string
}

func (e ConsoleEntry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05.000"), e.Kind, e.Text)
}

// ConsoleSource is implemented by playwright.Page.
type ConsoleSource interface {
	OnConsole(fn func(playwright.ConsoleMessage))
	OnPageError(fn func(error))
}

// ConsoleCollector keeps the most recent console messages and page errors of a page
// so they can be attached to the report of a failed test.
type ConsoleCollector struct {
	buffer *RingBuffer[ConsoleEntry]
}

// NewConsoleCollector creates a collector keeping at most capacity entries.
func NewConsoleCollector(capacity int) *ConsoleCollector {
	return &ConsoleCollector{
		buffer: NewRingBuffer[ConsoleEntry](capacity),
	}
}

// Attach subscribes to console messages and uncaught errors of the page.
func (c *ConsoleCollector) Attach(source ConsoleSource) {
	source.OnConsole(func(msg playwright.ConsoleMessage) {
		c.Add(msg.Type(), msg.Text())
	})
	source.OnPageError(func(err error) {
		c.Add("pageerror", err.Error())
	})
}

// Add records a console line.
func (c *ConsoleCollector) Add(kind, text string) {
	c.buffer.Add(ConsoleEntry{
		Time: time.Now(),
		Kind: kind,
		Text: text,
	})
}

// Entries returns the collected entries, oldest first.
func (c *ConsoleCollector) Entries() []ConsoleEntry {
	return c.buffer.All()
}

// Lines returns the collected entries formatted for the report.
func (c *ConsoleCollector) Lines() []string {
	return lo.Map(c.Entries(), func(entry ConsoleEntry, _ int) string {
		return entry.String()
	})
}
