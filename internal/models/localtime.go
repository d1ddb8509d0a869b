package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	localDateTimeLayout = "2006-01-02T15:04:05"
	localDateLayout     = "2006-01-02"
)

var localTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	localDateTimeLayout,
	localDateLayout,
}

// LocalTime is a backend timestamp serialized without a zone ("2024-01-05T10:00:00")
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

// ParseLocalTime parses any of the timestamp forms the backend emits
func ParseLocalTime(value string) (LocalTime, error) {
	value = strings.TrimSpace(value)
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid timestamp %q", value)
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = LocalTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localDateTimeLayout))
}

// DateParam formats t as a LocalDate query parameter
func DateParam(t time.Time) string {
	return t.Format(localDateLayout)
}

// DateTimeParam formats t as a LocalDateTime query parameter
func DateTimeParam(t time.Time) string {
	return t.Format(localDateTimeLayout)
}
