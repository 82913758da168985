package domain

// AttrDiff captures one attribute changing between snapshots
type AttrDiff struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Change is one element of a diff between a local and a remote snapshot
type Change struct {
	Action LogAction           `json:"action"`
	Kind   RecordKind          `json:"kind"`
	Key    string              `json:"key"`
	Record *Record             `json:"record,omitempty"`
	Diff   map[string]AttrDiff `json:"diff,omitempty"`
}

// ChangeSet is the ordered output of the diff engine
type ChangeSet struct {
	Changes []Change `json:"changes"`
}

// Add appends a change to the set
func (cs *ChangeSet) Add(c Change) {
	cs.Changes = append(cs.Changes, c)
}

// Counts tallies the change set by action. No-change entries count as
// skipped, matching the job counters.
func (cs *ChangeSet) Counts() SyncCounts {
	var counts SyncCounts
	for _, c := range cs.Changes {
		switch c.Action {
		case LogActionCreate:
			counts.Created++
		case LogActionUpdate:
			counts.Updated++
		case LogActionDelete:
			counts.Deleted++
		case LogActionNoChange:
			counts.Skipped++
		}
	}
	return counts
}

// IsEmpty reports whether the set contains no effective changes
func (cs *ChangeSet) IsEmpty() bool {
	for _, c := range cs.Changes {
		if c.Action != LogActionNoChange {
			return false
		}
	}
	return true
}
