package service

import (
	"context"
	"fmt"

	"verity/internal/codec"
	"verity/internal/domain"
)

// InventoryStore is the persistence surface for record queries
type InventoryStore interface {
	GetRecord(ctx context.Context, id string) (*domain.Record, error)
	ListRecords(ctx context.Context, kind, source string) ([]domain.Record, error)
	UpsertRecord(ctx context.Context, rec *domain.Record) error
	DeleteRecord(ctx context.Context, id string) error
	CountRecords(ctx context.Context) (int, error)
}

// InventoryService serves record queries plus bulk import and export
type InventoryService struct {
	store InventoryStore
	bus   *EventBus
}

// NewInventoryService creates an inventory service
func NewInventoryService(store InventoryStore, bus *EventBus) *InventoryService {
	return &InventoryService{store: store, bus: bus}
}

// Get returns a record by ID, nil if absent
func (s *InventoryService) Get(ctx context.Context, id string) (*domain.Record, error) {
	return s.store.GetRecord(ctx, id)
}

// List returns records filtered by kind and source
func (s *InventoryService) List(ctx context.Context, kind, source string) ([]domain.Record, error) {
	return s.store.ListRecords(ctx, kind, source)
}

// Count returns the total record count
func (s *InventoryService) Count(ctx context.Context) (int, error) {
	return s.store.CountRecords(ctx)
}

// Put upserts a record and publishes the change
func (s *InventoryService) Put(ctx context.Context, rec *domain.Record) error {
	if rec.Kind == "" || rec.Key == "" {
		return fmt.Errorf("record kind and key are required")
	}
	if rec.ID == "" {
		rec.ID = domain.RecordID(rec.Kind, rec.Key)
	}
	if err := s.store.UpsertRecord(ctx, rec); err != nil {
		return err
	}
	s.bus.Publish(EventRecordUpdated, map[string]any{
		"id":     rec.ID,
		"kind":   string(rec.Kind),
		"key":    rec.Key,
		"source": rec.Source,
	})
	return nil
}

// Delete removes a record by ID and publishes the deletion
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(EventRecordDeleted, map[string]any{"id": id})
	return nil
}

// Import decodes an uploaded snapshot and upserts every record in it.
// Records without a source are attributed to "import". Returns the
// number of records written.
func (s *InventoryService) Import(ctx context.Context, data []byte, format string) (int, error) {
	c, err := codec.ForName(format)
	if err != nil {
		return 0, err
	}
	set, err := c.Decode(data)
	if err != nil {
		return 0, err
	}

	for i := range set.Records {
		rec := &set.Records[i]
		if rec.Source == "" {
			rec.Source = "import"
		}
		if err := s.store.UpsertRecord(ctx, rec); err != nil {
			return i, fmt.Errorf("import record %s: %w", rec.ID, err)
		}
		s.bus.Publish(EventRecordUpdated, map[string]any{
			"id":     rec.ID,
			"kind":   string(rec.Kind),
			"key":    rec.Key,
			"source": rec.Source,
		})
	}
	return set.Len(), nil
}

// Export serializes the current records, filtered by kind and source,
// in the requested format.
func (s *InventoryService) Export(ctx context.Context, kind, source, format string) ([]byte, error) {
	c, err := codec.ForName(format)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, kind, source)
	if err != nil {
		return nil, err
	}
	set := domain.NewRecordSet()
	for _, rec := range records {
		set.Add(rec)
	}
	return c.Encode(set)
}
