package adminfront

import (
	"bytes"
	"time"
)

// Layouts the backend has been observed emitting for timestamps. user-info
// formats explicitly, while list endpoints serialize raw datetimes, so both
// spellings show up in one session.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// apiTime unmarshals the backend's assorted timestamp spellings. Null and
// empty values decode to the zero time.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(data, `"`)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, string(raw))
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}

	return lastErr
}

func (t *apiTime) timePtr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	tt := t.Time
	return &tt
}
