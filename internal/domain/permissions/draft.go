package permissions

import "sync"

// Draft separates locally edited flags from the last persisted document.
// Edits touch only the working copy until Apply or Discard.
type Draft struct {
	mu      sync.RWMutex
	base    Document
	working Document
}

func NewDraft(base Document) *Draft {
	return &Draft{base: base.Clone(), working: base.Clone()}
}

func (d *Draft) Toggle(role Role, capability Capability) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.working.Toggle(role, capability)
}

// Document returns a copy of the working document.
func (d *Draft) Document() Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.working.Clone()
}

// Base returns a copy of the last persisted (or loaded) document.
func (d *Draft) Base() Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.base.Clone()
}

func (d *Draft) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.working.Equal(d.base)
}

func (d *Draft) Changes() []Change {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.working.Diff(d.base)
}

// Apply marks saved as persisted. The working copy becomes saved as well.
func (d *Draft) Apply(saved Document) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.base = saved.Clone()
	d.working = saved.Clone()
}

// Commit records that sent was persisted as saved. Edits made after sent was
// taken stay pending against the new base.
func (d *Draft) Commit(sent, saved Document) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.working.Equal(sent) {
		d.working = saved.Clone()
	}
	d.base = saved.Clone()
}

// Discard drops pending edits and returns to the persisted document.
func (d *Draft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.working = d.base.Clone()
}

// Reset replaces the working copy with the compiled-in defaults. The
// persisted document is untouched, so the draft is dirty afterwards whenever
// the server held something else.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.working = Defaults()
}
