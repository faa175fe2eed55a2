package problem

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Count is a quantity from upstream problem data. Decoding never fails:
// anything that is not a number or a numeric string becomes 0. Negative
// values are kept as-is. Fractions are truncated toward zero and magnitudes
// are clamped to MaxCount.
type Count int

// MaxCount bounds decoded counts in either direction.
const MaxCount = math.MaxInt32

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var text string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(data)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*c = Count(math.Trunc(max(min(f, MaxCount), -MaxCount)))
	return nil
}

// Int returns c as a plain int.
func (c Count) Int() int {
	return int(c)
}

// Value is a numeric answer echoed by the grader. It accepts JSON numbers
// and strings and keeps the text for display.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	default:
		*v = Value(data)
	}
	return nil
}

func (v Value) String() string {
	return string(v)
}
