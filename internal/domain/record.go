package domain

import (
	"fmt"
	"time"
)

// RecordKind classifies what a synced record represents
type RecordKind string

const (
	RecordKindDevice    RecordKind = "device"
	RecordKindIPAddress RecordKind = "ip_address"
	RecordKindSubnet    RecordKind = "subnet"
	RecordKindVLAN      RecordKind = "vlan"
)

// Record is one object in the source of truth inventory
type Record struct {
	ID    string         `json:"id"`
	Kind  RecordKind     `json:"kind"`
	Key   string         `json:"key"`
	Attrs map[string]any `json:"attrs,omitempty"`

	// Source is the integration that last wrote this record
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord creates a record with initialized attributes
func NewRecord(kind RecordKind, key string) *Record {
	now := time.Now()
	return &Record{
		ID:        RecordID(kind, key),
		Kind:      kind,
		Key:       key,
		Attrs:     make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordID derives the canonical record ID from kind and natural key
func RecordID(kind RecordKind, key string) string {
	return fmt.Sprintf("%s:%s", kind, key)
}

// SetAttr sets an attribute value
func (r *Record) SetAttr(key string, value any) {
	if r.Attrs == nil {
		r.Attrs = make(map[string]any)
	}
	r.Attrs[key] = value
}

// GetAttr gets an attribute value
func (r *Record) GetAttr(key string) (any, bool) {
	if r.Attrs == nil {
		return nil, false
	}
	val, ok := r.Attrs[key]
	return val, ok
}

// GetAttrString gets an attribute as a string
func (r *Record) GetAttrString(key string) string {
	val, ok := r.GetAttr(key)
	if !ok {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// Repr returns the human-readable representation recorded in sync log
// entries. It is captured when the entry is written and never updated
// afterwards, so log history survives later renames.
func (r *Record) Repr() string {
	return fmt.Sprintf("%s %s", r.Kind, r.Key)
}

// RecordSet is a snapshot fragment produced by one adapter pull
type RecordSet struct {
	Records []Record `json:"records"`
}

// NewRecordSet creates an empty record set
func NewRecordSet() *RecordSet {
	return &RecordSet{Records: make([]Record, 0)}
}

// Add appends a record to the set
func (s *RecordSet) Add(rec Record) {
	s.Records = append(s.Records, rec)
}

// Len returns the number of records in the set
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
