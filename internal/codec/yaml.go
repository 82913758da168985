package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"verity/internal/domain"
)

// YAML decodes and encodes record sets as YAML documents.
// The document shape mirrors the JSON API export:
//
//	records:
//	  - kind: device
//	    key: leaf01
//	    attrs:
//	      site: dc1
type YAML struct{}

func (YAML) Name() string { return "yaml" }

// yamlRecord is the file form of a record; identity fields only, the
// ID and timestamps are derived on load.
type yamlRecord struct {
	Kind   string         `yaml:"kind"`
	Key    string         `yaml:"key"`
	Attrs  map[string]any `yaml:"attrs,omitempty"`
	Source string         `yaml:"source,omitempty"`
}

type yamlDocument struct {
	Records []yamlRecord `yaml:"records"`
}

func (YAML) Decode(data []byte) (*domain.RecordSet, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	set := domain.NewRecordSet()
	for i, yr := range doc.Records {
		if yr.Kind == "" || yr.Key == "" {
			return nil, fmt.Errorf("record %d: kind and key are required", i)
		}
		rec := domain.NewRecord(domain.RecordKind(yr.Kind), yr.Key)
		rec.Source = yr.Source
		for k, v := range yr.Attrs {
			rec.SetAttr(k, v)
		}
		set.Add(*rec)
	}
	return set, nil
}

func (YAML) Encode(set *domain.RecordSet) ([]byte, error) {
	doc := yamlDocument{Records: make([]yamlRecord, 0, set.Len())}
	for _, rec := range set.Records {
		doc.Records = append(doc.Records, yamlRecord{
			Kind:   string(rec.Kind),
			Key:    rec.Key,
			Attrs:  rec.Attrs,
			Source: rec.Source,
		})
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}
