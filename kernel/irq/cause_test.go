package irq

import "testing"

func TestCauseDecoding(t *testing.T) {
	const intBit = uint64(1) << 63

	specs := []struct {
		raw     uint64
		expType TrapType
		expInt  bool
	}{
		{intBit | 1, TrapSoftwareInterrupt, true},
		{intBit | 5, TrapTimerInterrupt, true},
		{intBit | 9, TrapExternalInterrupt, true},
		{intBit | 2, TrapUnknown, true},
		{intBit | 11, TrapUnknown, true},
		{0, TrapInstrMisaligned, false},
		{1, TrapInstrAccessFault, false},
		{2, TrapIllegalInstruction, false},
		{3, TrapBreakpoint, false},
		{4, TrapLoadMisaligned, false},
		{5, TrapLoadAccessFault, false},
		{6, TrapStoreMisaligned, false},
		{7, TrapStoreAccessFault, false},
		{8, TrapSystemCall, false},
		{12, TrapInstrPageFault, false},
		{13, TrapLoadPageFault, false},
		{15, TrapStorePageFault, false},
		{9, TrapUnknown, false},
		{14, TrapUnknown, false},
		{63, TrapUnknown, false},
	}

	for specIndex, spec := range specs {
		c := Cause(spec.raw)

		if got := c.IsInterrupt(); got != spec.expInt {
			t.Errorf("[spec %d] expected IsInterrupt to return %t; got %t", specIndex, spec.expInt, got)
		}
		if got := c.Type(); got != spec.expType {
			t.Errorf("[spec %d] expected cause %x to decode as %s; got %s", specIndex, spec.raw, spec.expType, got)
		}
		if got := c.Code(); got != spec.raw&^intBit {
			t.Errorf("[spec %d] expected code %d; got %d", specIndex, spec.raw&^intBit, got)
		}
	}
}

func TestTrapTypeProperties(t *testing.T) {
	for tt := TrapType(0); int(tt) < NumTrapTypes; tt++ {
		expInt := tt == TrapSoftwareInterrupt || tt == TrapTimerInterrupt || tt == TrapExternalInterrupt
		if got := tt.IsInterrupt(); got != expInt {
			t.Errorf("expected %s IsInterrupt to return %t; got %t", tt, expInt, got)
		}
		if tt != TrapUnknown && tt.String() == "unknown" {
			t.Errorf("trap type %d is missing a string representation", tt)
		}
	}
}
