// Package keyenc derives canonical cache keys from argument lists.
//
// The encoding is type-tagged so values of different kinds never
// collide ("1" vs 1), and canonical so structurally equal values encode
// identically regardless of map insertion order or time zone. Values
// without a stable structure (funcs, channels) fall back to an identity
// token; such arguments never produce cross-call cache reuse, which is
// a deliberate limitation rather than a bug.
package keyenc

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Encode serializes an argument list into a deterministic string key.
// A nil or empty list encodes to the fixed key "()", so zero-argument
// functions memoize under a single entry.
func Encode(args []any) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		encodeValue(&b, reflect.ValueOf(a), nil)
	}
	b.WriteByte(')')
	return b.String()
}

// encodeValue appends the canonical form of v. seen guards against
// pointer cycles; it is allocated lazily on the first pointer hop.
func encodeValue(b *strings.Builder, v reflect.Value, seen map[uintptr]struct{}) {
	if !v.IsValid() {
		b.WriteString("nil")
		return
	}

	// Dates canonicalize to their instant, not their representation:
	// the same moment in different zones yields the same key.
	if v.Type() == timeType && v.CanInterface() {
		b.WriteString("t:")
		b.WriteString(strconv.FormatInt(v.Interface().(time.Time).UnixNano(), 10))
		return
	}

	switch v.Kind() {
	case reflect.Bool:
		b.WriteString("b:")
		b.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString("i:")
		b.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString("u:")
		b.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		b.WriteString("f:")
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))

	case reflect.Complex64, reflect.Complex128:
		b.WriteString("c:")
		b.WriteString(strconv.FormatComplex(v.Complex(), 'g', -1, 128))

	case reflect.String:
		b.WriteString("s:")
		b.WriteString(strconv.Quote(v.String()))

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			b.WriteString("nil")
			return
		}
		b.WriteString("a:[")
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			encodeValue(b, v.Index(i), seen)
		}
		b.WriteByte(']')

	case reflect.Map:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		// Entries sorted by encoded key: equal maps built in different
		// insertion orders yield identical keys.
		entries := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			var e strings.Builder
			encodeValue(&e, iter.Key(), seen)
			e.WriteString("=>")
			encodeValue(&e, iter.Value(), seen)
			entries = append(entries, e.String())
		}
		sort.Strings(entries)
		b.WriteString("m:{")
		b.WriteString(strings.Join(entries, ","))
		b.WriteByte('}')

	case reflect.Struct:
		// Exported fields only, sorted by name for a canonical order.
		t := v.Type()
		fields := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			var e strings.Builder
			e.WriteString(f.Name)
			e.WriteByte(':')
			encodeValue(&e, v.Field(i), seen)
			fields = append(fields, e.String())
		}
		sort.Strings(fields)
		b.WriteString("o:{")
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('}')

	case reflect.Pointer:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		addr := v.Pointer()
		if seen == nil {
			seen = make(map[uintptr]struct{})
		} else if _, ok := seen[addr]; ok {
			// Cycle: fall back to identity for the repeated node.
			b.WriteString("ref:0x")
			b.WriteString(strconv.FormatUint(uint64(addr), 16))
			return
		}
		seen[addr] = struct{}{}
		encodeValue(b, v.Elem(), seen)
		delete(seen, addr)

	case reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		encodeValue(b, v.Elem(), seen)

	default:
		// Funcs, channels, unsafe pointers: identity token.
		b.WriteString("x:0x")
		b.WriteString(strconv.FormatUint(uint64(v.Pointer()), 16))
	}
}
