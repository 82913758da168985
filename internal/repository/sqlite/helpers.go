package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToTimePtr safely converts sql.NullTime to *time.Time
func nullToTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timePtrToNull safely converts *time.Time to sql.NullTime
func timePtrToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// unmarshalJSONField safely unmarshals JSON from a nullable string
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a value to a nullable JSON string.
// Returns empty NullString for nil or empty maps.
func marshalToNull(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}

	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
