package trap

import (
	"io"

	"rvos/kernel"
	"rvos/kernel/irq"
	"rvos/kernel/kfmt"
)

// maxHandlersPerType caps the number of handlers that can be chained on a
// single trap type.
const maxHandlersPerType = 8

// handlerEntry is one slot in the dispatch table.
type handlerEntry struct {
	fn          HandlerFunc
	priority    uint8
	description string
	protection  ProtectionLevel
	registrar   RegistrarID
	context     ContextID
}

// handlerTable stores the registered handlers for every trap type. Each
// per-type slice is kept sorted ascending by priority; equal priorities
// keep their insertion order. The table performs no locking of its own,
// the owning container serializes access.
type handlerTable struct {
	entries [irq.NumTrapTypes][maxHandlersPerType]handlerEntry
	counts  [irq.NumTrapTypes]int
}

// register inserts entry into the chain for tt, keeping the chain sorted.
// Registration fails when the chain is full or when an entry with the same
// description already exists for tt.
func (t *handlerTable) register(tt irq.TrapType, entry handlerEntry) *kernel.Error {
	if int(tt) >= irq.NumTrapTypes || entry.fn == nil {
		return ErrInvalidArgument
	}

	count := t.counts[tt]
	if count == maxHandlersPerType {
		return ErrRegistrationFailed
	}

	chain := &t.entries[tt]
	for i := 0; i < count; i++ {
		if chain[i].description == entry.description {
			return ErrRegistrationFailed
		}
	}

	// Insert before the first entry with a strictly greater priority so
	// equal priorities dispatch in registration order.
	pos := count
	for i := 0; i < count; i++ {
		if chain[i].priority > entry.priority {
			pos = i
			break
		}
	}

	copy(chain[pos+1:count+1], chain[pos:count])
	chain[pos] = entry
	t.counts[tt] = count + 1
	return nil
}

// unregister removes the handler for tt with the given description. System
// protected entries can only be removed by the kernel registrar; user
// entries only by the registrar that added them.
func (t *handlerTable) unregister(tt irq.TrapType, description string, registrar RegistrarID) *kernel.Error {
	if int(tt) >= irq.NumTrapTypes {
		return ErrInvalidArgument
	}

	chain := &t.entries[tt]
	for i := 0; i < t.counts[tt]; i++ {
		if chain[i].description != description {
			continue
		}

		if err := t.mayRemove(&chain[i], registrar); err != nil {
			return err
		}

		t.removeAt(tt, i)
		return nil
	}

	return ErrHandlerNotFound
}

// unregisterContext removes every handler owned by ctx that registrar is
// allowed to remove and returns the number of removed entries. Entries the
// registrar may not remove are skipped, not treated as errors. The kernel
// registrar sweeps unchecked: teardown of a dead context must be able to
// reclaim every slot it held, whoever registered into it.
func (t *handlerTable) unregisterContext(ctx ContextID, registrar RegistrarID) int {
	if ctx == KernelContext {
		return 0
	}

	var removed int
	for tt := 0; tt < irq.NumTrapTypes; tt++ {
		chain := &t.entries[tt]

		// Walk backwards so removal does not disturb unvisited slots.
		for i := t.counts[tt] - 1; i >= 0; i-- {
			if chain[i].context != ctx {
				continue
			}
			if registrar != SystemRegistrar && t.mayRemove(&chain[i], registrar) != nil {
				continue
			}

			t.removeAt(irq.TrapType(tt), i)
			removed++
		}
	}

	return removed
}

// mayRemove checks whether registrar is allowed to remove entry. System
// protected entries require the kernel registrar; user entries require the
// exact creator, the kernel identity included.
func (t *handlerTable) mayRemove(entry *handlerEntry, registrar RegistrarID) *kernel.Error {
	if entry.protection == ProtectionSystem {
		if registrar != SystemRegistrar {
			return ErrProtectedHandler
		}
		return nil
	}
	if entry.registrar != registrar {
		return ErrInvalidRegistrar
	}

	return nil
}

// removeAt deletes slot i from the chain for tt, shifting the remaining
// entries left so the sorted order is preserved.
func (t *handlerTable) removeAt(tt irq.TrapType, i int) {
	chain := &t.entries[tt]
	count := t.counts[tt]

	copy(chain[i:count-1], chain[i+1:count])
	chain[count-1] = handlerEntry{}
	t.counts[tt] = count - 1
}

// count returns the number of handlers chained on tt.
func (t *handlerTable) count(tt irq.TrapType) int {
	if int(tt) >= irq.NumTrapTypes {
		return 0
	}

	return t.counts[tt]
}

// snapshot copies the handler functions chained on tt into buf and returns
// the number copied. Dispatch runs from such a snapshot so no lock is held
// while handler code executes.
func (t *handlerTable) snapshot(tt irq.TrapType, buf *[maxHandlersPerType]HandlerFunc) int {
	count := t.counts[tt]
	for i := 0; i < count; i++ {
		buf[i] = t.entries[tt][i].fn
	}

	return count
}

// dumpTo writes a human readable listing of all registered handlers to w.
func (t *handlerTable) dumpTo(w io.Writer) {
	for tt := 0; tt < irq.NumTrapTypes; tt++ {
		count := t.counts[tt]
		if count == 0 {
			continue
		}

		kfmt.Fprintf(w, "%s:\n", irq.TrapType(tt).String())
		for i := 0; i < count; i++ {
			entry := &t.entries[tt][i]
			kfmt.Fprintf(w, "  [prio %3d] %s (%s, registrar %d, context %d)\n",
				int(entry.priority), entry.description, entry.protection.String(),
				uint64(entry.registrar), uint64(entry.context))
		}
	}
}
