package browsertest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// T is the *testing.T of a browser test. Failure messages reported through it are
// also shown in the HTML report.
type T struct {
	*testing.T
	failures *failureLog
}

func (t *T) Error(args ...any) {
	t.T.Helper()
	t.failures.add(fmt.Sprintln(args...))
	t.T.Error(args...)
}

func (t *T) Errorf(format string, args ...any) {
	t.T.Helper()
	t.failures.add(fmt.Sprintf(format, args...))
	t.T.Errorf(format, args...)
}

func (t *T) Fatal(args ...any) {
	t.T.Helper()
	t.failures.add(fmt.Sprintln(args...))
	t.T.Fatal(args...)
}

func (t *T) Fatalf(format string, args ...any) {
	t.T.Helper()
	t.failures.add(fmt.Sprintf(format, args...))
	t.T.Fatalf(format, args...)
}

type failureLog struct {
	mu       sync.Mutex
	messages []string
}

func (l *failureLog) add(msg string) {
	msg = strings.TrimRight(msg, "\n")
	if msg == "" {
		return
	}
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()
}

// err returns all recorded messages as one error, nil if there are none.
func (l *failureLog) err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.messages) == 0 {
		return nil
	}
	return errors.New(strings.Join(l.messages, "\n"))
}
