package sync

import "testing"

func TestSpinlockAcquireRelease(t *testing.T) {
	var l Spinlock

	l.Acquire()
	if l.TryToAcquire() {
		t.Fatal("expected TryToAcquire to fail while lock is held")
	}

	l.Release()
	if !l.TryToAcquire() {
		t.Fatal("expected TryToAcquire to succeed after Release")
	}

	// Releasing a free lock is a no-op
	l.Release()
	l.Release()
	if !l.TryToAcquire() {
		t.Fatal("expected TryToAcquire to succeed after double Release")
	}
}

func TestSpinlockContention(t *testing.T) {
	var (
		l       Spinlock
		counter int
		done    = make(chan struct{})
	)

	for w := 0; w < 4; w++ {
		go func() {
			for i := 0; i < 1000; i++ {
				l.Acquire()
				counter++
				l.Release()
			}
			done <- struct{}{}
		}()
	}

	for w := 0; w < 4; w++ {
		<-done
	}

	if exp := 4000; counter != exp {
		t.Fatalf("expected counter to be %d; got %d", exp, counter)
	}
}
