package trap

import (
	"bytes"
	"strings"
	"testing"

	"rvos/kernel/irq"
)

func passHandler(*irq.Context) Result { return Pass }

func userEntry(priority uint8, description string, registrar RegistrarID, ctx ContextID) handlerEntry {
	return handlerEntry{
		fn:          passHandler,
		priority:    priority,
		description: description,
		protection:  ProtectionUser,
		registrar:   registrar,
		context:     ctx,
	}
}

func systemEntry(priority uint8, description string) handlerEntry {
	return handlerEntry{
		fn:          passHandler,
		priority:    priority,
		description: description,
		protection:  ProtectionSystem,
		registrar:   SystemRegistrar,
		context:     KernelContext,
	}
}

func chainDescriptions(t *handlerTable, tt irq.TrapType) []string {
	var out []string
	for i := 0; i < t.counts[tt]; i++ {
		out = append(out, t.entries[tt][i].description)
	}
	return out
}

func TestHandlerTableSortedInsert(t *testing.T) {
	var table handlerTable
	tt := irq.TrapTimerInterrupt

	// Insert out of order, including priority ties, and verify the chain
	// stays sorted with ties in registration order.
	for _, spec := range []struct {
		priority uint8
		desc     string
	}{
		{50, "mid"},
		{10, "first"},
		{90, "last"},
		{50, "mid-2"},
		{10, "first-2"},
	} {
		if err := table.register(tt, userEntry(spec.priority, spec.desc, 1, 0)); err != nil {
			t.Fatalf("expected registration of %q to succeed; got %v", spec.desc, err)
		}
	}

	exp := []string{"first", "first-2", "mid", "mid-2", "last"}
	got := chainDescriptions(&table, tt)
	if len(got) != len(exp) {
		t.Fatalf("expected %d chain entries; got %d", len(exp), len(got))
	}
	for i := range exp {
		if got[i] != exp[i] {
			t.Errorf("expected chain slot %d to hold %q; got %q", i, exp[i], got[i])
		}
	}

	// Removing an interior entry must preserve the order of the rest.
	if err := table.unregister(tt, "mid", 1); err != nil {
		t.Fatalf("expected unregistration to succeed; got %v", err)
	}
	exp = []string{"first", "first-2", "mid-2", "last"}
	got = chainDescriptions(&table, tt)
	for i := range exp {
		if got[i] != exp[i] {
			t.Errorf("expected chain slot %d to hold %q after removal; got %q", i, exp[i], got[i])
		}
	}
}

func TestHandlerTableDuplicateRejection(t *testing.T) {
	var table handlerTable
	tt := irq.TrapSystemCall

	if err := table.register(tt, userEntry(10, "svc", 1, 0)); err != nil {
		t.Fatalf("expected registration to succeed; got %v", err)
	}
	if err := table.register(tt, userEntry(20, "svc", 2, 0)); err != ErrRegistrationFailed {
		t.Fatalf("expected duplicate description to be rejected; got %v", err)
	}

	// The same description on a different trap type is a new handler.
	if err := table.register(irq.TrapBreakpoint, userEntry(20, "svc", 2, 0)); err != nil {
		t.Fatalf("expected registration on another type to succeed; got %v", err)
	}
}

func TestHandlerTableCapacity(t *testing.T) {
	var table handlerTable
	tt := irq.TrapExternalInterrupt

	descs := []string{"h0", "h1", "h2", "h3", "h4", "h5", "h6", "h7"}
	for i, desc := range descs {
		if err := table.register(tt, userEntry(uint8(i), desc, 1, 0)); err != nil {
			t.Fatalf("expected registration %d to succeed; got %v", i, err)
		}
	}

	if err := table.register(tt, userEntry(0, "overflow", 1, 0)); err != ErrRegistrationFailed {
		t.Fatalf("expected a full chain to reject registration; got %v", err)
	}
	if got := table.count(tt); got != maxHandlersPerType {
		t.Fatalf("expected the failed registration to leave the count at %d; got %d", maxHandlersPerType, got)
	}
}

func TestHandlerTableOwnership(t *testing.T) {
	creator := RegistrarID(7)
	stranger := RegistrarID(8)
	tt := irq.TrapLoadPageFault

	specs := []struct {
		entry     handlerEntry
		registrar RegistrarID
		expErr    error
	}{
		// User handlers: only the exact creator may remove them; the
		// kernel identity gets no override on the targeted path.
		{userEntry(10, "h", creator, 0), creator, nil},
		{userEntry(10, "h", creator, 0), stranger, ErrInvalidRegistrar},
		{userEntry(10, "h", creator, 0), SystemRegistrar, ErrInvalidRegistrar},
		// System handlers: only the kernel may remove them.
		{systemEntry(10, "h"), SystemRegistrar, nil},
		{systemEntry(10, "h"), creator, ErrProtectedHandler},
	}

	for specIndex, spec := range specs {
		var table handlerTable
		if err := table.register(tt, spec.entry); err != nil {
			t.Fatalf("[spec %d] expected registration to succeed; got %v", specIndex, err)
		}

		err := table.unregister(tt, "h", spec.registrar)
		if spec.expErr == nil && err != nil {
			t.Errorf("[spec %d] expected unregistration to succeed; got %v", specIndex, err)
		}
		if spec.expErr != nil && err != spec.expErr {
			t.Errorf("[spec %d] expected %v; got %v", specIndex, spec.expErr, err)
		}

		expCount := 0
		if spec.expErr != nil {
			expCount = 1
		}
		if got := table.count(tt); got != expCount {
			t.Errorf("[spec %d] expected %d remaining entries; got %d", specIndex, expCount, got)
		}
	}

	var table handlerTable
	if err := table.unregister(tt, "absent", SystemRegistrar); err != ErrHandlerNotFound {
		t.Errorf("expected ErrHandlerNotFound for an absent handler; got %v", err)
	}
}

func TestHandlerTableContextCleanup(t *testing.T) {
	var table handlerTable
	owner := RegistrarID(3)
	other := RegistrarID(4)
	doomed := ContextID(9)

	table.register(irq.TrapSystemCall, userEntry(10, "doomed-svc", owner, doomed))
	table.register(irq.TrapSystemCall, userEntry(20, "survivor", owner, ContextID(11)))
	table.register(irq.TrapTimerInterrupt, userEntry(10, "doomed-timer", owner, doomed))
	table.register(irq.TrapTimerInterrupt, userEntry(20, "doomed-other-owner", other, doomed))

	sysEntry := systemEntry(5, "doomed-protected")
	sysEntry.context = doomed
	table.register(irq.TrapBreakpoint, sysEntry)

	// A user registrar removes its own handlers for the context; the
	// protected entry and entries owned by other registrars survive.
	if got := table.unregisterContext(doomed, owner); got != 2 {
		t.Fatalf("expected 2 handlers removed; got %d", got)
	}
	if got := table.count(irq.TrapSystemCall); got != 1 {
		t.Errorf("expected the unrelated handler to survive; count %d", got)
	}
	if got := table.count(irq.TrapBreakpoint); got != 1 {
		t.Errorf("expected the protected handler to survive; count %d", got)
	}

	// The kernel registrar sweeps the rest.
	if got := table.unregisterContext(doomed, SystemRegistrar); got != 2 {
		t.Fatalf("expected the kernel sweep to remove 2 handlers; got %d", got)
	}

	// The kernel context is never swept.
	if got := table.unregisterContext(KernelContext, SystemRegistrar); got != 0 {
		t.Errorf("expected the kernel context to be exempt from cleanup; got %d", got)
	}
}

func TestHandlerTableDump(t *testing.T) {
	var table handlerTable
	table.register(irq.TrapSystemCall, userEntry(10, "svc-tracer", 2, 5))
	table.register(irq.TrapTimerInterrupt, systemEntry(50, "tick"))

	var buf bytes.Buffer
	table.dumpTo(&buf)
	out := buf.String()

	for _, exp := range []string{"system call", "svc-tracer", "timer interrupt", "tick", "user", "system"} {
		if !strings.Contains(out, exp) {
			t.Errorf("expected handler dump to contain %q; dump:\n%s", exp, out)
		}
	}
}
