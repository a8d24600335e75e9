package onboarding

// Record is the wizard aggregate: one snapshot per tab key. Snapshots are
// never modified after they are stored; Merge builds a new Record instead.
type Record map[string]FormValues

// Snapshot returns a copy of the stored values for tab, empty if the tab has
// never been merged.
func (r Record) Snapshot(tab Tab) FormValues {
	snap, ok := r[tab.Key()]
	if !ok {
		return FormValues{}
	}
	return snap.Clone()
}

// Merge returns a copy of r in which tab's snapshot is replaced by live. The
// input record and live values are left untouched.
func Merge(r Record, tab Tab, live FormValues) Record {
	out := make(Record, len(r)+1)
	for k, snap := range r {
		out[k] = snap
	}
	if tab.IsValid() {
		out[tab.Key()] = live.Clone()
	}
	return out
}
