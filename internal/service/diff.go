package service

import (
	"sort"

	"verity/internal/domain"
)

// DiffOptions tune the snapshot comparison
type DiffOptions struct {
	// DeleteOnAbsent emits delete changes for local records the remote
	// snapshot no longer contains
	DeleteOnAbsent bool
}

// DiffSnapshots compares the local records against a remote snapshot
// and produces the changes needed to make local match remote. Records
// are matched by ID (kind plus natural key). Output order is
// deterministic: creates, updates, no-changes, then deletes, each
// sorted by record ID. Diffing the same inputs twice yields the same
// change set, and applying a change set then re-diffing yields only
// no-change entries.
func DiffSnapshots(local []domain.Record, remote *domain.RecordSet, opts DiffOptions) *domain.ChangeSet {
	localByID := make(map[string]*domain.Record, len(local))
	for i := range local {
		localByID[local[i].ID] = &local[i]
	}

	var creates, updates, unchanged, deletes []domain.Change

	seen := make(map[string]bool, remote.Len())
	for i := range remote.Records {
		rec := &remote.Records[i]
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true

		existing, ok := localByID[rec.ID]
		if !ok {
			creates = append(creates, domain.Change{
				Action: domain.LogActionCreate,
				Kind:   rec.Kind,
				Key:    rec.Key,
				Record: rec,
			})
			continue
		}

		attrDiff := diffAttrs(existing.Attrs, rec.Attrs)
		if len(attrDiff) == 0 && existing.Source == rec.Source {
			unchanged = append(unchanged, domain.Change{
				Action: domain.LogActionNoChange,
				Kind:   rec.Kind,
				Key:    rec.Key,
				Record: rec,
			})
			continue
		}
		updates = append(updates, domain.Change{
			Action: domain.LogActionUpdate,
			Kind:   rec.Kind,
			Key:    rec.Key,
			Record: rec,
			Diff:   attrDiff,
		})
	}

	if opts.DeleteOnAbsent {
		for i := range local {
			rec := &local[i]
			if seen[rec.ID] {
				continue
			}
			deletes = append(deletes, domain.Change{
				Action: domain.LogActionDelete,
				Kind:   rec.Kind,
				Key:    rec.Key,
				Record: rec,
			})
		}
	}

	sortChanges(creates)
	sortChanges(updates)
	sortChanges(unchanged)
	sortChanges(deletes)

	cs := &domain.ChangeSet{}
	for _, group := range [][]domain.Change{creates, updates, unchanged, deletes} {
		for _, c := range group {
			cs.Add(c)
		}
	}
	return cs
}

// diffAttrs returns the attribute-level differences between two maps.
// Attributes present locally but absent remotely are treated as
// cleared (after = nil).
func diffAttrs(local, remote map[string]any) map[string]domain.AttrDiff {
	diff := make(map[string]domain.AttrDiff)
	for key, remoteVal := range remote {
		localVal, ok := local[key]
		if !ok {
			diff[key] = domain.AttrDiff{Before: nil, After: remoteVal}
			continue
		}
		if !domain.CompareValues(localVal, remoteVal) {
			diff[key] = domain.AttrDiff{Before: localVal, After: remoteVal}
		}
	}
	for key, localVal := range local {
		if _, ok := remote[key]; !ok {
			diff[key] = domain.AttrDiff{Before: localVal, After: nil}
		}
	}
	if len(diff) == 0 {
		return nil
	}
	return diff
}

func sortChanges(changes []domain.Change) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Kind != changes[j].Kind {
			return changes[i].Kind < changes[j].Kind
		}
		return changes[i].Key < changes[j].Key
	})
}
