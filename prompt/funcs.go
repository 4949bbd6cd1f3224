package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"
)

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"json":     toJSON,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"trim":     strings.TrimSpace,
		"join":     join,
		"default":  defaultValue,
		"money":    money,
		"bullets":  bullets,
	}
}

// truncate cuts s to maxLen runes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

// toJSON pretty-prints v, falling back to %v.
func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// defaultValue returns def when val is nil or an empty string.
func defaultValue(val, def any) any {
	if val == nil {
		return def
	}
	if s, ok := val.(string); ok && s == "" {
		return def
	}
	return val
}

// join joins any slice with sep.
func join(items any, sep string) string {
	parts := stringify(items)
	return strings.Join(parts, sep)
}

// bullets renders a slice as "- item" lines.
func bullets(items any) string {
	parts := stringify(items)
	for i, p := range parts {
		parts[i] = "- " + p
	}
	return strings.Join(parts, "\n")
}

func stringify(items any) []string {
	if items == nil {
		return nil
	}
	if ss, ok := items.([]string); ok {
		out := make([]string, len(ss))
		copy(out, ss)
		return out
	}
	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return []string{fmt.Sprint(items)}
	}
	out := make([]string, v.Len())
	for i := range out {
		out[i] = fmt.Sprint(v.Index(i).Interface())
	}
	return out
}

// money formats a number as US dollars with thousands separators: $1,250,000.
// Cents are shown only when non-zero.
func money(v any) string {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case float32:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return n
		}
		f = parsed
	default:
		return fmt.Sprint(v)
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	whole := math.Floor(f)
	cents := math.Round((f - whole) * 100)
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if cents > 0 {
		return fmt.Sprintf("%s$%s.%02d", sign, b.String(), int(cents))
	}
	return sign + "$" + b.String()
}
