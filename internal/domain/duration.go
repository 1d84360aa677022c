package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so report durations serialize as the
// human-readable form ("1m2.3s") instead of nanosecond integers.
type Duration time.Duration

// MarshalJSON encodes the duration in time.Duration.String() form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts both the string form and a bare nanosecond number.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("failed to parse duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
}

// String returns the human-readable form.
func (d Duration) String() string {
	return time.Duration(d).String()
}
