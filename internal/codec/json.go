package codec

import (
	"encoding/json"
	"fmt"

	"verity/internal/domain"
)

// JSON decodes and encodes record sets as JSON documents
type JSON struct{}

func (JSON) Name() string { return "json" }

type jsonRecord struct {
	Kind   string         `json:"kind"`
	Key    string         `json:"key"`
	Attrs  map[string]any `json:"attrs,omitempty"`
	Source string         `json:"source,omitempty"`
}

type jsonDocument struct {
	Records []jsonRecord `json:"records"`
}

func (JSON) Decode(data []byte) (*domain.RecordSet, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	set := domain.NewRecordSet()
	for i, jr := range doc.Records {
		if jr.Kind == "" || jr.Key == "" {
			return nil, fmt.Errorf("record %d: kind and key are required", i)
		}
		rec := domain.NewRecord(domain.RecordKind(jr.Kind), jr.Key)
		rec.Source = jr.Source
		for k, v := range jr.Attrs {
			rec.SetAttr(k, v)
		}
		set.Add(*rec)
	}
	return set, nil
}

func (JSON) Encode(set *domain.RecordSet) ([]byte, error) {
	doc := jsonDocument{Records: make([]jsonRecord, 0, set.Len())}
	for _, rec := range set.Records {
		doc.Records = append(doc.Records, jsonRecord{
			Kind:   string(rec.Kind),
			Key:    rec.Key,
			Attrs:  rec.Attrs,
			Source: rec.Source,
		})
	}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}
