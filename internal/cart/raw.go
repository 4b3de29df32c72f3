package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Raw is a decoded JSON object as it arrives from the API, from a
// persisted snapshot, or from the product catalog. Only the parsers in
// this package look inside it.
type Raw = map[string]any

// asRaw returns v as an object when it is one.
func asRaw(v any) (Raw, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case map[string]string:
		if m == nil {
			return nil, false
		}
		out := make(Raw, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// number converts v the way a loose JSON consumer would. Missing or
// unparseable values yield NaN so callers can fall through to defaults.
func number(v any) float64 {
	switch n := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// numberOr returns number(v) unless it is zero or NaN.
func numberOr(v any, fallback float64) float64 {
	f := number(v)
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// amount coerces a monetary field. Negative values are floored at zero.
func amount(v any) float64 {
	return math.Max(0, numberOr(v, 0))
}

// identifier converts an id-like value to its string form. ObjectId-like
// objects ({"$oid": "..."}) are unwrapped. Empty values are not ids.
func identifier(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case float64:
		if math.IsNaN(id) || math.IsInf(id, 0) {
			return "", false
		}
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case json.Number:
		return id.String(), id.String() != ""
	}
	if m, ok := asRaw(v); ok {
		if oid, ok := m["$oid"]; ok {
			return identifier(oid)
		}
	}
	return "", false
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	}
	return false, false
}

// timestamp accepts RFC 3339 strings and epoch milliseconds.
func timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	case time.Time:
		return t, !t.IsZero()
	default:
		if ms := number(v); !math.IsNaN(ms) && ms > 0 {
			return time.UnixMilli(int64(ms)).UTC(), true
		}
	}
	return time.Time{}, false
}

// attributes reads a variant selector map. Non-string values are
// stringified; nested objects are skipped.
func attributes(v any) (Attributes, bool) {
	m, ok := asRaw(v)
	if !ok {
		return nil, false
	}
	out := make(Attributes, len(m))
	for k, val := range m {
		switch s := val.(type) {
		case string:
			out[k] = s
		case float64, int, int64, json.Number, bool:
			if id, ok := identifier(s); ok {
				out[k] = id
			} else if b, ok := s.(bool); ok {
				out[k] = strconv.FormatBool(b)
			}
		}
	}
	return out, true
}
