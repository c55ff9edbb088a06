package request

import (
	"bytes"
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date accepts either a calendar date ("2024-03-15") or a full RFC 3339
// timestamp, which is what the dashboard's date pickers send. A timestamp
// names an instant, so its calendar day depends on the business time
// zone; resolve it with In.
type Date struct {
	time.Time
	civil bool
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		d.civil = true
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// In returns the calendar day as UTC midnight. Calendar dates are kept as
// sent; timestamps take the day they fall on in loc (UTC when nil). A
// missing date gives the zero time.
func (d *Date) In(loc *time.Location) time.Time {
	if d == nil || d.Time.IsZero() {
		return time.Time{}
	}
	if d.civil {
		return d.Time
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := d.Time.In(loc).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// PtrIn is In for optional fields: an absent field gives nil, an empty
// one the zero time.
func (d *Date) PtrIn(loc *time.Location) *time.Time {
	if d == nil {
		return nil
	}
	t := d.In(loc)
	return &t
}
