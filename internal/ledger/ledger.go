// Package ledger records which remote resources a deployment created.
// Entries keep their insertion order, which is the order resources were
// created in, so teardown can walk them backwards.
package ledger

import (
	"context"
	"fmt"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
)

// Entry is a single logical name to remote identifier record.
type Entry struct {
	Name string
	ID   string
}

// Ledger is the ordered record of created resources plus the region they live in.
// Identifiers supplied by the operator (an existing network to reuse) are kept
// apart from created ones: they satisfy dependencies but are never torn down.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	region  string
	entries []Entry
	index   map[string]int
	adopted []Entry
	store   Store
}

// New returns an empty ledger for the given region.
func New(region string) *Ledger {
	return &Ledger{
		region: region,
		index:  make(map[string]int),
	}
}

// Open loads the ledger held by store and binds it so Persist writes back there.
// Absent state yields an empty ledger.
func Open(ctx context.Context, store Store) (*Ledger, error) {
	l, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = New("")
	}
	l.store = store
	return l, nil
}

// Region returns the region the recorded resources live in.
func (l *Ledger) Region() string {
	return l.region
}

// SetRegion sets the region the recorded resources live in.
func (l *Ledger) SetRegion(region string) {
	l.region = region
}

// Set records or overwrites the identifier for name.
// Overwriting keeps the entry's original position.
func (l *Ledger) Set(name, id string) {
	if i, ok := l.index[name]; ok {
		l.entries[i].ID = id
		return
	}
	l.index[name] = len(l.entries)
	l.entries = append(l.entries, Entry{Name: name, ID: id})
}

// Get returns the identifier for name, looking at created entries first and
// adopted ones second. ok is false when neither holds it.
func (l *Ledger) Get(name string) (id string, ok bool) {
	if i, found := l.index[name]; found {
		return l.entries[i].ID, true
	}
	for _, e := range l.adopted {
		if e.Name == name {
			return e.ID, true
		}
	}
	return "", false
}

// Owned reports whether name was created by this deployment.
func (l *Ledger) Owned(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Adopt records an operator-supplied identifier that must never be deleted.
func (l *Ledger) Adopt(name, id string) {
	for i, e := range l.adopted {
		if e.Name == name {
			l.adopted[i].ID = id
			return
		}
	}
	l.adopted = append(l.adopted, Entry{Name: name, ID: id})
}

// Adopted returns the operator-supplied entries in the order they were recorded.
func (l *Ledger) Adopted() []Entry {
	return append([]Entry(nil), l.adopted...)
}

// Delete removes the created entry for name, if any.
func (l *Ledger) Delete(name string) {
	i, ok := l.index[name]
	if !ok {
		return
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	delete(l.index, name)
	for j := i; j < len(l.entries); j++ {
		l.index[l.entries[j].Name] = j
	}
}

// Entries returns the created entries in creation order.
func (l *Ledger) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Names returns the created entry names in creation order.
func (l *Ledger) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of created entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// IsEmpty reports whether nothing created is recorded.
func (l *Ledger) IsEmpty() bool {
	return len(l.entries) == 0
}

// Reset forgets adopted entries once nothing created remains.
func (l *Ledger) Reset() {
	if l.IsEmpty() {
		l.adopted = nil
	}
}

// Persist writes the full ledger to the store it was opened from.
func (l *Ledger) Persist(ctx context.Context) error {
	if l.store == nil {
		return appErrors.ErrLedger("ledger has no store to persist to", nil)
	}
	return l.store.Save(ctx, l)
}

// Bind attaches store so subsequent Persist calls write to it.
func (l *Ledger) Bind(store Store) {
	l.store = store
}

// Equal reports whether both ledgers hold the same region, entries and order.
func (l *Ledger) Equal(other *Ledger) bool {
	if l.region != other.region || len(l.entries) != len(other.entries) || len(l.adopted) != len(other.adopted) {
		return false
	}
	for i := range l.entries {
		if l.entries[i] != other.entries[i] {
			return false
		}
	}
	for i := range l.adopted {
		if l.adopted[i] != other.adopted[i] {
			return false
		}
	}
	return true
}

// String renders the entries for log output.
func (l *Ledger) String() string {
	return fmt.Sprintf("ledger(region=%s, entries=%v, adopted=%v)", l.region, l.entries, l.adopted)
}
