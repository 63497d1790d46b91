package identity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FlagKind reports which representation a Flag carries.
type FlagKind uint8

const (
	FlagNone FlagKind = iota
	FlagString
	FlagInt
	FlagBool
)

func (k FlagKind) String() string {
	switch k {
	case FlagString:
		return "string"
	case FlagInt:
		return "int"
	case FlagBool:
		return "bool"
	default:
		return "none"
	}
}

// Flag holds a verification marker exactly as the provider sent it.
// Providers disagree on the wire type ("true", 1, true), so the value is kept
// in its original representation and only resolved by Truthy.
type Flag struct {
	kind FlagKind
	s    string
	i    int64
	b    bool
}

func StringFlag(s string) Flag { return Flag{kind: FlagString, s: s} }
func IntFlag(i int64) Flag     { return Flag{kind: FlagInt, i: i} }
func BoolFlag(b bool) Flag     { return Flag{kind: FlagBool, b: b} }

// FlagOf converts a decoded JSON value into a Flag.
// It reports false for values that are neither string, integer nor bool.
// A nil value yields the empty flag.
func FlagOf(v any) (Flag, bool) {
	switch t := v.(type) {
	case nil:
		return Flag{}, true
	case Flag:
		return t, true
	case string:
		return StringFlag(t), true
	case bool:
		return BoolFlag(t), true
	case int:
		return IntFlag(int64(t)), true
	case int32:
		return IntFlag(int64(t)), true
	case int64:
		return IntFlag(t), true
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return Flag{}, false
		}
		return IntFlag(i), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || t > math.MaxInt64 || t < math.MinInt64 {
			return Flag{}, false
		}
		return IntFlag(int64(t)), true
	default:
		return Flag{}, false
	}
}

func (f Flag) Kind() FlagKind { return f.kind }

// IsZero reports whether the flag carries no value.
func (f Flag) IsZero() bool { return f.kind == FlagNone }

func (f Flag) AsString() (string, bool) { return f.s, f.kind == FlagString }
func (f Flag) AsInt() (int64, bool)     { return f.i, f.kind == FlagInt }
func (f Flag) AsBool() (bool, bool)     { return f.b, f.kind == FlagBool }

// Value returns the flag in its original representation, or nil.
func (f Flag) Value() any {
	switch f.kind {
	case FlagString:
		return f.s
	case FlagInt:
		return f.i
	case FlagBool:
		return f.b
	default:
		return nil
	}
}

// Truthy resolves the flag to a boolean for consumers that need one.
func (f Flag) Truthy() bool {
	switch f.kind {
	case FlagBool:
		return f.b
	case FlagInt:
		return f.i != 0
	case FlagString:
		switch strings.ToLower(strings.TrimSpace(f.s)) {
		case "true", "t", "1", "yes", "y", "on", "verified":
			return true
		}
	}
	return false
}

func (f Flag) String() string {
	if f.kind == FlagNone {
		return "<none>"
	}
	return fmt.Sprint(f.Value())
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value())
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	flag, ok := FlagOf(v)
	if !ok {
		return fmt.Errorf("identity: unsupported flag value %s", data)
	}
	*f = flag
	return nil
}
