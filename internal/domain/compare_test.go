package domain

import "testing"

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "dc1", "dc1", true},
		{"different strings", "dc1", "dc2", false},
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"int vs string form", 1500, "1500", true},
		{"float vs string form", 1.5, "1.5", true},
		{"bool vs string form", true, "true", true},
		{"int vs float same value", 0, 0.0, true},
		{"different numbers", 1500, "9000", false},
		{"equal slices", []any{"a", "b"}, []any{"a", "b"}, true},
		{"different slices", []any{"a"}, []any{"b"}, false},
		{"equal maps", map[string]any{"k": "v"}, map[string]any{"k": "v"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareValues(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAttrsEqual(t *testing.T) {
	a := map[string]any{"site": "dc1", "mtu": 1500}
	if !AttrsEqual(a, map[string]any{"site": "dc1", "mtu": "1500"}) {
		t.Error("coerced attrs must compare equal")
	}
	if AttrsEqual(a, map[string]any{"site": "dc1"}) {
		t.Error("missing key must compare unequal")
	}
	if AttrsEqual(a, map[string]any{"site": "dc2", "mtu": 1500}) {
		t.Error("changed value must compare unequal")
	}
}

func TestRecordIdentity(t *testing.T) {
	rec := NewRecord(RecordKindDevice, "leaf01")
	if rec.ID != "device:leaf01" {
		t.Errorf("id = %q, want device:leaf01", rec.ID)
	}
	if rec.Repr() != "device leaf01" {
		t.Errorf("repr = %q, want %q", rec.Repr(), "device leaf01")
	}
}

func TestChangeSetCounts(t *testing.T) {
	cs := &ChangeSet{}
	cs.Add(Change{Action: LogActionCreate})
	cs.Add(Change{Action: LogActionUpdate})
	cs.Add(Change{Action: LogActionNoChange})
	cs.Add(Change{Action: LogActionNoChange})
	cs.Add(Change{Action: LogActionDelete})

	counts := cs.Counts()
	if counts.Created != 1 || counts.Updated != 1 || counts.Deleted != 1 || counts.Skipped != 2 {
		t.Errorf("counts = %+v", counts)
	}
	if counts.Total() != 5 {
		t.Errorf("total = %d, want 5", counts.Total())
	}
	if cs.IsEmpty() {
		t.Error("set with effective changes reported empty")
	}

	onlyNoChange := &ChangeSet{}
	onlyNoChange.Add(Change{Action: LogActionNoChange})
	if !onlyNoChange.IsEmpty() {
		t.Error("all no-change set must report empty")
	}
}

func TestLogEntryCapturesRepr(t *testing.T) {
	rec := NewRecord(RecordKindSubnet, "10.0.0.0/24")
	entry := NewLogEntry("job1", LogActionCreate, LogStatusSuccess, rec)

	if entry.SyncedObjectID != rec.ID {
		t.Errorf("synced_object_id = %q, want %q", entry.SyncedObjectID, rec.ID)
	}
	if entry.ObjectRepr != "subnet 10.0.0.0/24" {
		t.Errorf("object_repr = %q", entry.ObjectRepr)
	}

	// Job-level entries carry no object reference
	bare := NewLogEntry("job1", LogActionNoChange, LogStatusFailure, nil)
	if bare.SyncedObjectID != "" || bare.ObjectRepr != "" {
		t.Errorf("bare entry = %+v", bare)
	}
}
