package trap

import (
	"io"

	"rvos/kernel/kfmt"
)

// errorLogSize is the number of error occurrences retained for diagnostics.
const errorLogSize = 32

// errorLogEntry pairs an error occurrence with its dispatch outcome.
type errorLogEntry struct {
	err    SystemError
	result ErrorResult
}

// errorLog is a circular buffer of recent error occurrences. The total
// counter keeps growing after the buffer wraps so diagnostics can report
// how many entries were lost.
type errorLog struct {
	entries [errorLogSize]errorLogEntry
	next    int
	total   uint64
}

// log records an error and the result its dispatch produced, overwriting
// the oldest entry once the buffer is full.
func (l *errorLog) log(err SystemError, result ErrorResult) {
	l.entries[l.next] = errorLogEntry{err: err, result: result}
	l.next = (l.next + 1) % errorLogSize
	l.total++
}

// clear drops all retained entries.
func (l *errorLog) clear() {
	*l = errorLog{}
}

// printRecent writes the most recent n entries to w in chronological order,
// oldest first. n is clamped to the number of retained entries.
func (l *errorLog) printRecent(n int, w io.Writer) {
	retained := int(l.total)
	if retained > errorLogSize {
		retained = errorLogSize
	}
	if n > retained {
		n = retained
	}
	if n <= 0 {
		return
	}

	kfmt.Fprintf(w, "error log: %d total, showing last %d\n", l.total, n)

	// The slot before next holds the newest entry; walk back n slots to
	// find where the chronological window starts.
	start := l.next - n
	if start < 0 {
		start += errorLogSize
	}

	for i := 0; i < n; i++ {
		entry := &l.entries[(start+i)%errorLogSize]
		code := entry.err.Code
		kfmt.Fprintf(w, "[%d] %s/%s #%d -> %s", entry.err.Timestamp,
			code.Source().String(), code.Severity().String(), int(code.Number()), entry.result.String())
		if entry.err.HasAddr {
			kfmt.Fprintf(w, " addr=%x", entry.err.Addr)
		}
		if entry.err.IP != 0 {
			kfmt.Fprintf(w, " ip=%x", entry.err.IP)
		}
		kfmt.Fprintf(w, "\n")
	}
}
