package dayutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar day in JSON payloads. It decodes either a bare
// "2006-01-02" day, taken in Location, or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.ParseInLocation(KeyFormat, s, Location); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected %s or RFC 3339)", s, KeyFormat)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the day key.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(DayKey(d.Time))
}
