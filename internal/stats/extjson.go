package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ObjectID accepts either a plain string or a MongoDB extended JSON {"$oid": "..."} wrapper.
type ObjectID string

func (id *ObjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("decode object id: %w", err)
		}
		*id = ObjectID(wrapped.OID)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode object id: %w", err)
	}
	*id = ObjectID(s)
	return nil
}

// Time accepts RFC3339 strings, epoch milliseconds, and the extended JSON
// {"$date": ...} wrapper in either of those two forms (plus {"$numberLong": "..."}).
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	switch data[0] {
	case '{':
		var wrapped struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		if len(wrapped.Date) == 0 {
			var long struct {
				NumberLong string `json:"$numberLong"`
			}
			if err := json.Unmarshal(data, &long); err != nil || long.NumberLong == "" {
				return fmt.Errorf("decode timestamp: unsupported object %s", data)
			}
			return t.fromMillisString(long.NumberLong)
		}
		return t.UnmarshalJSON(wrapped.Date)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		parsed, err := parseTimestamp(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	default:
		return t.fromMillisString(string(data))
	}
}

func (t *Time) fromMillisString(s string) error {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("decode timestamp: unrecognized format %q", s)
}
