package variant

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

const indentUnit = "  "

// Render returns v as pretty-printed JSON with a two-space indent.
// Variants render as their inner value, structs as arrays, and dict keys
// are rendered as strings and sorted so the output is deterministic.
func Render(v Value) string {
	var b strings.Builder
	render(&b, v, 0)
	return b.String()
}

func render(b *strings.Builder, v Value, depth int) {
	switch v.kind {
	case Invalid:
		b.WriteString("null")
	case Bool:
		b.WriteString(strconv.FormatBool(v.b))
	case Int16, Int32, Int64:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case Byte, Uint16, Uint32, Uint64, UnixFD:
		b.WriteString(strconv.FormatUint(v.u, 10))
	case Double:
		b.WriteString(formatFloat(v.f))
	case String, ObjectPath, Signature:
		b.WriteString(quote(v.s))
	case Variant:
		render(b, v.Inner(), depth)
	case Array, Struct:
		renderList(b, v.elems, depth)
	case Dict:
		renderDict(b, v.entries, depth)
	}
}

func renderList(b *strings.Builder, elems []Value, depth int) {
	if len(elems) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	for i, e := range elems {
		writeIndent(b, depth+1)
		render(b, e, depth+1)
		if i < len(elems)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteByte(']')
}

func renderDict(b *strings.Builder, entries []Entry, depth int) {
	if len(entries) == 0 {
		b.WriteString("{}")
		return
	}

	type keyed struct {
		key   string
		value Value
	}
	sorted := make([]keyed, len(entries))
	for i, e := range entries {
		sorted[i] = keyed{key: KeyText(e.Key), value: e.Value}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	b.WriteString("{\n")
	for i, e := range sorted {
		writeIndent(b, depth+1)
		b.WriteString(quote(e.key))
		b.WriteString(": ")
		render(b, e.value, depth+1)
		if i < len(sorted)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteByte('}')
}

// KeyText renders a dict key as the bare text used for the JSON object key
func KeyText(k Value) string {
	switch k.kind {
	case String, ObjectPath, Signature:
		return k.s
	case Variant:
		return KeyText(k.Inner())
	default:
		return Render(k)
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

// formatFloat keeps a fractional part on integral values (1.0, not 1) and
// renders non-finite values as null, as JSON has no literal for them.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-5 || abs >= 1e16) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
