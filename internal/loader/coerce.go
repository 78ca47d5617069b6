package loader

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// Coerce converts one raw CSV cell into the value bound for column field.
// The result is nil, a string, a float64 or an int64.
//
//   - float columns: the first ',' becomes '.', the longest numeric prefix is
//     parsed; empty, unparseable or zero yields nil.
//   - integer columns: the longest integer prefix is parsed; unparseable or
//     zero yields nil.
//   - everything else: empty yields nil, any other string passes through.
func Coerce(field, raw string) any {
	if raw == "" {
		return nil
	}
	switch fieldKinds[field] {
	case kindFloat:
		if f, ok := parseFloatPrefix(strings.Replace(raw, ",", ".", 1)); ok {
			return f
		}
		return nil
	case kindInt:
		if n, ok := parseIntPrefix(raw); ok {
			return n
		}
		return nil
	default:
		return raw
	}
}

// parseFloatPrefix parses the leading decimal number of s, ignoring leading
// whitespace and trailing garbage. A zero value is reported as not ok.
func parseFloatPrefix(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimLeft(s, " \t\r\n\v\f"))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || f == 0 {
		return 0, false
	}
	return f, true
}

func parseIntPrefix(s string) (int64, bool) {
	m := intPrefix.FindString(strings.TrimLeft(s, " \t\r\n\v\f"))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// CoerceRow builds a Record from a header-keyed CSV row. Columns absent from
// the row are null.
func CoerceRow(row map[string]string) Record {
	rec := make(Record, len(Fields))
	for i, field := range Fields {
		if raw, ok := row[field]; ok {
			rec[i] = Coerce(field, raw)
		}
	}
	return rec
}
