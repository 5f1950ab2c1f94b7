// Package logger is the central log for the application. Entries are kept in
// a fixed length ring and can be echoed to an io.Writer as they arrive.
//
// Logging is gated by a Permission. Components carry a context that
// implements the Permission interface, which means logging can be switched
// off for a component that is being run speculatively (for example, when the
// mixer is being rendered headless or stepped by a test harness).
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Permission implementations indicate whether the environment making a log
// request is allowed to create new log entries.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow is the Permission to use when logging should always be allowed.
var Allow Permission = allow{}

// the maximum number of entries kept in the central log
const maxEntries = 256

// Entry is a single line in the log.
type Entry struct {
	Tag      string
	Detail   string
	Repeated int
	Time     time.Time
}

func (e Entry) String() string {
	if e.Repeated > 0 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Repeated+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

type logger struct {
	crit    sync.Mutex
	entries []Entry
	echo    io.Writer
}

var central = &logger{
	entries: make([]Entry, 0, maxEntries),
}

func (l *logger) log(tag string, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// multi-line details are split into separate entries with the same tag
	for _, d := range strings.Split(detail, "\n") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}

		// collapse repeated entries
		if n := len(l.entries); n > 0 {
			last := &l.entries[n-1]
			if last.Tag == tag && last.Detail == d {
				last.Repeated++
				last.Time = time.Now()
				continue
			}
		}

		e := Entry{
			Tag:    tag,
			Detail: d,
			Time:   time.Now(),
		}

		if len(l.entries) >= maxEntries {
			l.entries = l.entries[1:]
		}
		l.entries = append(l.entries, e)

		if l.echo != nil {
			fmt.Fprintln(l.echo, e.String())
		}
	}
}

// Log adds an entry to the central log. The detail argument can be an error, a
// fmt.Stringer or a string. Anything else is formatted with the %v verb.
func Log(perm Permission, tag string, detail any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}

	var s string
	switch d := detail.(type) {
	case error:
		s = d.Error()
	case fmt.Stringer:
		s = d.String()
	case string:
		s = d
	default:
		s = fmt.Sprintf("%v", d)
	}

	central.log(tag, s)
}

// Logf adds a formatted entry to the central log.
func Logf(perm Permission, tag string, format string, args ...any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.log(tag, fmt.Sprintf(format, args...))
}

// Clear all entries from the central log.
func Clear() {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.entries = central.entries[:0]
}

// Tail writes the last n entries to the io.Writer. A value of n less than
// zero writes all entries.
func Tail(w io.Writer, n int) {
	central.crit.Lock()
	defer central.crit.Unlock()

	if n < 0 || n > len(central.entries) {
		n = len(central.entries)
	}
	for _, e := range central.entries[len(central.entries)-n:] {
		fmt.Fprintln(w, e.String())
	}
}

// Entries returns a copy of the entries currently in the central log.
func Entries() []Entry {
	central.crit.Lock()
	defer central.crit.Unlock()
	c := make([]Entry, len(central.entries))
	copy(c, central.entries)
	return c
}

// SetEcho sets the io.Writer that new entries are echoed to. A nil writer
// switches echoing off. If writeRecent is true then the entries already in
// the log are written to the new io.Writer immediately.
func SetEcho(w io.Writer, writeRecent bool) {
	central.crit.Lock()
	defer central.crit.Unlock()

	central.echo = w
	if w != nil && writeRecent {
		for _, e := range central.entries {
			fmt.Fprintln(w, e.String())
		}
	}
}
