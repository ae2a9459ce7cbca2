package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is a non-negative engagement figure. The LLM is asked for quoted numbers,
// so it decodes from JSON numbers as well as strings like "1200", "1,200" or "1.2K".
type Count int64

// UnmarshalJSON implements json.Unmarshaler
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := ParseCount(s)
		if err != nil {
			return err
		}
		*c = n
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid count %s: %w", string(data), err)
	}
	n, err := countFromFloat(f)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

// countFromFloat rounds f into [0, math.MaxInt64]. NaN and infinities are rejected.
func countFromFloat(f float64) (Count, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid count %v", f)
	}
	if f < 0 {
		return 0, nil
	}
	if f >= math.MaxInt64 {
		return Count(math.MaxInt64), nil
	}
	return Count(math.Round(f)), nil
}

// ParseCount parses a human-formatted count such as "1,234", "1.2K", "3M" or "~500".
// An empty string parses as zero.
func ParseCount(s string) (Count, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "~")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'b', 'B':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", s, err)
	}
	return countFromFloat(f * multiplier)
}

// Score is a 0-100 rating. It decodes from integral or fractional JSON numbers and
// numeric strings, rounding to the nearest integer. Range checks are left to validation.
type Score int

// UnmarshalJSON implements json.Unmarshaler
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid score %s: %w", string(data), err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("score %s out of range", string(data))
	}
	*s = Score(math.Round(f))
	return nil
}
