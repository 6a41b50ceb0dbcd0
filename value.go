// FILE: value.go
package sink

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// ValueKind enumerates the closed set of loggable payload shapes.
type ValueKind int

const (
	// KindAbsent is the empty payload.
	KindAbsent ValueKind = iota
	// KindText is a plain message.
	KindText
	// KindError carries an error.
	KindError
	// KindRecord is an ordered key/value structured record.
	KindRecord
)

// Field is one key/value pair of a structured record.
type Field struct {
	Key string
	Val any
}

// Value is a loggable payload as a closed variant. Front ends build a Value,
// Render it, and hand the resulting flat line to Writer.Write.
type Value struct {
	kind   ValueKind
	text   string
	err    error
	fields []Field
}

// Text builds a plain-message value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// ErrValue builds an error-carrying value.
func ErrValue(err error) Value {
	return Value{kind: KindError, err: err}
}

// Record builds a structured-record value from ordered fields.
func Record(fields ...Field) Value {
	return Value{kind: KindRecord, fields: fields}
}

// None builds the absent value, rendering to an empty line.
func None() Value {
	return Value{kind: KindAbsent}
}

// Kind reports the variant.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Render produces the flat single-line text of the value. Structured records
// render as space-separated key=value pairs; nested containers are walked
// with an explicit visited set so self-referential data cannot recurse
// forever.
func (v Value) Render() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindError:
		if v.err == nil {
			return "error=nil"
		}
		return "error=" + v.err.Error()
	case KindRecord:
		var buf []byte
		for i, f := range v.fields {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, f.Key...)
			buf = append(buf, '=')
			buf = renderAny(buf, f.Val, make(map[uintptr]struct{}))
		}
		return string(buf)
	default:
		return ""
	}
}

// renderAny appends a compact representation of val to buf.
// fallback to go-spew/spew with data structure information for types that are not explicitly supported.
func renderAny(buf []byte, val any, visited map[uintptr]struct{}) []byte {
	switch v := val.(type) {
	case string:
		return append(buf, v...)
	case int:
		return strconv.AppendInt(buf, int64(v), 10)
	case int64:
		return strconv.AppendInt(buf, v, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(buf, v, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(v), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, v, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, v)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return v.AppendFormat(buf, time.RFC3339Nano)
	case time.Duration:
		return append(buf, v.String()...)
	case error:
		return append(buf, v.Error()...)
	case fmt.Stringer:
		return append(buf, v.String()...)
	case []byte:
		return hex.AppendEncode(buf, v) // prevent special character corruption
	}
	return renderReflect(buf, reflect.ValueOf(val), visited)
}

// renderReflect walks containers with an explicit visited set, independent
// of any serialization library's own cycle handling.
func renderReflect(buf []byte, rv reflect.Value, visited map[uintptr]struct{}) []byte {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return append(buf, "nil"...)
		}
		ptr := rv.Pointer()
		if _, seen := visited[ptr]; seen {
			return append(buf, "<cycle>"...)
		}
		visited[ptr] = struct{}{}
		buf = renderAny(buf, rv.Elem().Interface(), visited)
		delete(visited, ptr)
		return buf

	case reflect.Map:
		if rv.IsNil() {
			return append(buf, "map[]"...)
		}
		ptr := rv.Pointer()
		if _, seen := visited[ptr]; seen {
			return append(buf, "<cycle>"...)
		}
		visited[ptr] = struct{}{}

		// Sort keys for consistent output
		keys := rv.MapKeys()
		rendered := make([]string, 0, len(keys))
		for _, k := range keys {
			var kb []byte
			kb = renderAny(kb, k.Interface(), visited)
			var vb []byte
			vb = renderAny(vb, rv.MapIndex(k).Interface(), visited)
			rendered = append(rendered, string(kb)+":"+string(vb))
		}
		sort.Strings(rendered)

		buf = append(buf, "map["...)
		for i, s := range rendered {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, s...)
		}
		buf = append(buf, ']')
		delete(visited, ptr)
		return buf

	case reflect.Slice:
		if rv.IsNil() {
			return append(buf, "[]"...)
		}
		ptr := rv.Pointer()
		if _, seen := visited[ptr]; seen {
			return append(buf, "<cycle>"...)
		}
		visited[ptr] = struct{}{}
		buf = renderSequence(buf, rv, visited)
		delete(visited, ptr)
		return buf

	case reflect.Array:
		return renderSequence(buf, rv, visited)

	case reflect.Struct:
		buf = append(buf, '{')
		t := rv.Type()
		wrote := false
		for i := 0; i < rv.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if wrote {
				buf = append(buf, ' ')
			}
			buf = append(buf, t.Field(i).Name...)
			buf = append(buf, ':')
			buf = renderAny(buf, rv.Field(i).Interface(), visited)
			wrote = true
		}
		return append(buf, '}')

	case reflect.Interface:
		if rv.IsNil() {
			return append(buf, "nil"...)
		}
		return renderAny(buf, rv.Elem().Interface(), visited)

	default:
		// Channels, funcs, unsafe pointers and anything else uncommon:
		// delegate to spew for a compact structural dump.
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true, // Cleaner for logs
			DisableCapacities:       true, // Less noise
			SortKeys:                true, // Consistent map output
		}
		dumper.Fdump(&b, rv.Interface())
		return append(buf, bytes.TrimSpace(b.Bytes())...)
	}
}

func renderSequence(buf []byte, rv reflect.Value, visited map[uintptr]struct{}) []byte {
	buf = append(buf, '[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = renderAny(buf, rv.Index(i).Interface(), visited)
	}
	return append(buf, ']')
}
