package identity

import (
	"encoding/json"
	"math"
	"strconv"
)

// Payload reads a raw provider userinfo document and tracks which keys were consumed.
// Keys never consumed by a named attribute are returned verbatim by Remaining,
// which is how normalizers fill Identity.Extra without losing data.
//
// A key is consumed only when its value has the expected shape. A key holding,
// say, an object where a string is expected stays in Remaining.
type Payload struct {
	raw  map[string]any
	used map[string]struct{}
}

func NewPayload(raw map[string]any) *Payload {
	return &Payload{raw: raw, used: make(map[string]struct{}, len(raw))}
}

// Has reports whether the key is present, regardless of its value.
func (p *Payload) Has(key string) bool {
	_, ok := p.raw[key]
	return ok
}

// String returns the value of key as a string.
// Numbers are rendered without loss and null reads as "".
// Reading the same key twice is allowed.
func (p *Payload) String(key string) string {
	s, _ := p.Lookup(key)
	return s
}

// Lookup is String that also reports whether the key was consumed.
func (p *Payload) Lookup(key string) (string, bool) {
	v, ok := p.raw[key]
	if !ok {
		return "", false
	}
	s, ok := stringValue(v)
	if !ok {
		return "", false
	}
	p.used[key] = struct{}{}
	return s, true
}

// Flag returns the value of key as a verification flag.
func (p *Payload) Flag(key string) Flag {
	v, ok := p.raw[key]
	if !ok {
		return Flag{}
	}
	f, ok := FlagOf(v)
	if !ok {
		return Flag{}
	}
	p.used[key] = struct{}{}
	return f
}

// Raw returns the value of key untouched and marks it consumed.
func (p *Payload) Raw(key string) (any, bool) {
	v, ok := p.raw[key]
	if ok {
		p.used[key] = struct{}{}
	}
	return v, ok
}

// Remaining returns every key not consumed so far, values untouched.
// It returns nil when nothing remains.
func (p *Payload) Remaining() map[string]any {
	var out map[string]any
	for k, v := range p.raw {
		if _, ok := p.used[k]; ok {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(p.raw)-len(p.used))
		}
		out[k] = v
	}
	return out
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
