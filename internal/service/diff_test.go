package service

import (
	"fmt"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"verity/internal/domain"
)

func makeRecord(kind domain.RecordKind, key string, attrs map[string]any) domain.Record {
	rec := domain.NewRecord(kind, key)
	for k, v := range attrs {
		rec.SetAttr(k, v)
	}
	return *rec
}

func setOf(records ...domain.Record) *domain.RecordSet {
	set := domain.NewRecordSet()
	for _, rec := range records {
		set.Add(rec)
	}
	return set
}

func actions(cs *domain.ChangeSet) []string {
	var out []string
	for _, c := range cs.Changes {
		out = append(out, fmt.Sprintf("%s:%s:%s", c.Action, c.Kind, c.Key))
	}
	return out
}

func TestDiffSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		local  []domain.Record
		remote *domain.RecordSet
		opts   DiffOptions
		want   []string
	}{
		{
			name:   "all creates against empty local",
			local:  nil,
			remote: setOf(makeRecord(domain.RecordKindDevice, "b", nil), makeRecord(domain.RecordKindDevice, "a", nil)),
			want:   []string{"create:device:a", "create:device:b"},
		},
		{
			name:   "unchanged records are no-change",
			local:  []domain.Record{makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc1"})},
			remote: setOf(makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc1"})),
			want:   []string{"no-change:device:a"},
		},
		{
			name:   "attribute change is an update",
			local:  []domain.Record{makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc1"})},
			remote: setOf(makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc2"})),
			want:   []string{"update:device:a"},
		},
		{
			name:   "absent records kept without delete-on-sync",
			local:  []domain.Record{makeRecord(domain.RecordKindDevice, "gone", nil)},
			remote: setOf(),
			want:   nil,
		},
		{
			name:   "absent records deleted with delete-on-sync",
			local:  []domain.Record{makeRecord(domain.RecordKindDevice, "gone", nil)},
			remote: setOf(),
			opts:   DiffOptions{DeleteOnAbsent: true},
			want:   []string{"delete:device:gone"},
		},
		{
			name: "mixed actions ordered creates updates nochanges deletes",
			local: []domain.Record{
				makeRecord(domain.RecordKindDevice, "upd", map[string]any{"site": "dc1"}),
				makeRecord(domain.RecordKindDevice, "same", map[string]any{"site": "dc1"}),
				makeRecord(domain.RecordKindDevice, "gone", nil),
			},
			remote: setOf(
				makeRecord(domain.RecordKindDevice, "same", map[string]any{"site": "dc1"}),
				makeRecord(domain.RecordKindDevice, "upd", map[string]any{"site": "dc2"}),
				makeRecord(domain.RecordKindDevice, "new", nil),
			),
			opts: DiffOptions{DeleteOnAbsent: true},
			want: []string{"create:device:new", "update:device:upd", "no-change:device:same", "delete:device:gone"},
		},
		{
			name:   "duplicate remote keys collapse to one change",
			local:  nil,
			remote: setOf(makeRecord(domain.RecordKindVLAN, "100", nil), makeRecord(domain.RecordKindVLAN, "100", nil)),
			want:   []string{"create:vlan:100"},
		},
		{
			name:   "numeric string values compare equal",
			local:  []domain.Record{makeRecord(domain.RecordKindVLAN, "100", map[string]any{"mtu": 1500})},
			remote: setOf(makeRecord(domain.RecordKindVLAN, "100", map[string]any{"mtu": "1500"})),
			want:   []string{"no-change:vlan:100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := actions(DiffSnapshots(tt.local, tt.remote, tt.opts))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiffSnapshotsRecordsAttrDiff(t *testing.T) {
	local := []domain.Record{makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc1", "role": "leaf"})}
	remote := setOf(makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc2", "role": "leaf"}))

	cs := DiffSnapshots(local, remote, DiffOptions{})
	if len(cs.Changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(cs.Changes))
	}
	diff := cs.Changes[0].Diff
	if len(diff) != 1 {
		t.Fatalf("diff = %v, want just site", diff)
	}
	if diff["site"].Before != "dc1" || diff["site"].After != "dc2" {
		t.Errorf("site diff = %+v", diff["site"])
	}
}

func TestDiffSnapshotsClearedAttr(t *testing.T) {
	local := []domain.Record{makeRecord(domain.RecordKindDevice, "a", map[string]any{"site": "dc1"})}
	remote := setOf(makeRecord(domain.RecordKindDevice, "a", nil))

	cs := DiffSnapshots(local, remote, DiffOptions{})
	if cs.Changes[0].Action != domain.LogActionUpdate {
		t.Fatalf("action = %s, want update", cs.Changes[0].Action)
	}
	d, ok := cs.Changes[0].Diff["site"]
	if !ok || d.Before != "dc1" || d.After != nil {
		t.Errorf("cleared attr diff = %+v", d)
	}
}

// Diffing must be deterministic and idempotent: the same inputs always
// yield the same changes, and a snapshot diffed against itself yields
// only no-change entries.
func TestDiffSnapshotsProperties(t *testing.T) {
	kinds := []domain.RecordKind{
		domain.RecordKindDevice, domain.RecordKindIPAddress,
		domain.RecordKindSubnet, domain.RecordKindVLAN,
	}

	genRecords := func(t *rapid.T, label string) []domain.Record {
		n := rapid.IntRange(0, 20).Draw(t, label+"_n")
		seen := make(map[string]bool)
		var records []domain.Record
		for i := 0; i < n; i++ {
			kind := rapid.SampledFrom(kinds).Draw(t, label+"_kind")
			key := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, label+"_key")
			id := domain.RecordID(kind, key)
			if seen[id] {
				continue
			}
			seen[id] = true
			attrs := map[string]any{}
			if rapid.Bool().Draw(t, label+"_hasattr") {
				attrs["site"] = rapid.SampledFrom([]string{"dc1", "dc2", "dc3"}).Draw(t, label+"_site")
			}
			records = append(records, makeRecord(kind, key, attrs))
		}
		return records
	}

	t.Run("deterministic", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			local := genRecords(t, "local")
			remote := setOf(genRecords(t, "remote")...)
			opts := DiffOptions{DeleteOnAbsent: rapid.Bool().Draw(t, "delete")}

			first := actions(DiffSnapshots(local, remote, opts))
			second := actions(DiffSnapshots(local, remote, opts))
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("diff not deterministic: %v vs %v", first, second)
			}
		})
	})

	t.Run("self diff is all no-change", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			records := genRecords(t, "rec")
			cs := DiffSnapshots(records, setOf(records...), DiffOptions{DeleteOnAbsent: true})
			if !cs.IsEmpty() {
				t.Fatalf("self diff produced changes: %v", actions(cs))
			}
			counts := cs.Counts()
			if counts.Skipped != len(records) {
				t.Fatalf("skipped = %d, want %d", counts.Skipped, len(records))
			}
		})
	})
}
