//go:build !riscv64

package sbi

import (
	"sync/atomic"
	"testing"
)

func TestGetTimeIsMonotonic(t *testing.T) {
	prev := GetTime()
	for i := 0; i < 16; i++ {
		next := GetTime()
		if next <= prev {
			t.Fatalf("expected time counter to advance; got %d after %d", next, prev)
		}
		prev = next
	}
}

func TestConsoleGetcharWithoutInput(t *testing.T) {
	if _, ok := ConsoleGetchar(); ok {
		t.Fatal("expected no console input to be available")
	}
}

func TestSystemResetRequests(t *testing.T) {
	specs := []struct {
		issue   func()
		expType ResetType
		expWhy  ResetReason
	}{
		{func() { Shutdown(ReasonSystemFailure) }, ResetShutdown, ReasonSystemFailure},
		{func() { Reboot(ResetColdReboot, ReasonNone) }, ResetColdReboot, ReasonNone},
		{func() { Reboot(ResetWarmReboot, ReasonSystemFailure) }, ResetWarmReboot, ReasonSystemFailure},
	}

	for specIndex, spec := range specs {
		before := atomic.LoadUint32(&resetRequests)
		spec.issue()

		if got := atomic.LoadUint32(&resetRequests); got != before+1 {
			t.Errorf("[spec %d] expected a reset request to be recorded", specIndex)
		}
		if got := ResetType(atomic.LoadUint32(&lastResetType)); got != spec.expType {
			t.Errorf("[spec %d] expected reset type %d; got %d", specIndex, spec.expType, got)
		}
		if got := ResetReason(atomic.LoadUint32(&lastResetWhy)); got != spec.expWhy {
			t.Errorf("[spec %d] expected reset reason %d; got %d", specIndex, spec.expWhy, got)
		}
	}
}
