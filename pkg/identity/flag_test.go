package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
)

func TestFlagOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     any
		kind   identity.FlagKind
		value  any
		truthy bool
		ok     bool
	}{
		{name: "nil", in: nil, kind: identity.FlagNone, value: nil, ok: true},
		{name: "bool true", in: true, kind: identity.FlagBool, value: true, truthy: true, ok: true},
		{name: "bool false", in: false, kind: identity.FlagBool, value: false, ok: true},
		{name: "string true", in: "true", kind: identity.FlagString, value: "true", truthy: true, ok: true},
		{name: "string false", in: "false", kind: identity.FlagString, value: "false", ok: true},
		{name: "integral float", in: float64(1), kind: identity.FlagInt, value: int64(1), truthy: true, ok: true},
		{name: "zero int", in: 0, kind: identity.FlagInt, value: int64(0), ok: true},
		{name: "json number", in: json.Number("1"), kind: identity.FlagInt, value: int64(1), truthy: true, ok: true},
		{name: "fractional float", in: 1.5, ok: false},
		{name: "object", in: map[string]any{"a": 1}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, ok := identity.FlagOf(tt.in)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.kind, f.Kind())
			assert.Equal(t, tt.value, f.Value())
			assert.Equal(t, tt.truthy, f.Truthy())
		})
	}
}

func TestFlag_JSON(t *testing.T) {
	t.Parallel()

	t.Run("keeps original representation", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{`"true"`, `1`, `true`, `null`} {
			var f identity.Flag
			require.NoError(t, json.Unmarshal([]byte(raw), &f))
			out, err := json.Marshal(f)
			require.NoError(t, err)
			assert.JSONEq(t, raw, string(out))
		}
	})

	t.Run("rejects unsupported values", func(t *testing.T) {
		t.Parallel()
		var f identity.Flag
		assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &f))
	})

	t.Run("empty flag is omitted from identity", func(t *testing.T) {
		t.Parallel()
		out, err := json.Marshal(identity.Identity{Email: "a@example.com"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"email":"a@example.com"}`, string(out))
	})
}
