// Package console provides an io.Writer over the firmware character
// console so it can be installed as the kfmt output sink.
package console

import "rvos/kernel/sbi"

// putcharFn is swapped out by tests.
var putcharFn = sbi.ConsolePutchar

// Writer forwards written bytes to the firmware console one character at a
// time. The zero value is ready to use.
type Writer struct{}

// Write implements io.Writer.
func (Writer) Write(p []byte) (int, error) {
	for _, c := range p {
		putcharFn(c)
	}

	return len(p), nil
}
