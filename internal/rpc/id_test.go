// Package rpc tests the Id wire shape.
package rpc

// file: internal/rpc/id_test.go

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestId_MarshalJSON_RoundTripsByKind(t *testing.T) {
	cases := []struct {
		name string
		id   Id
		want string
	}{
		{"number", NumberId(42), "42"},
		{"negative number", NumberId(-7), "-7"},
		{"string", StringId("abc"), `"abc"`},
		{"null", NullId, "null"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.id)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))

			var decoded Id
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, tc.id, decoded)
		})
	}
}

func TestId_UnmarshalJSON_RejectsOtherShapes(t *testing.T) {
	var id Id
	err := json.Unmarshal([]byte("true"), &id)
	assert.Error(t, err)

	err = json.Unmarshal([]byte("{}"), &id)
	assert.Error(t, err)
}

func TestId_IsNull(t *testing.T) {
	assert.True(t, NullId.IsNull())
	assert.False(t, NumberId(1).IsNull())
	assert.False(t, StringId("x").IsNull())
}

func TestId_ComparableAsMapKey(t *testing.T) {
	m := map[Id]string{
		NumberId(1):   "one",
		StringId("a"): "letter a",
	}
	assert.Equal(t, "one", m[NumberId(1)])
	assert.Equal(t, "letter a", m[StringId("a")])
	_, ok := m[NumberId(2)]
	assert.False(t, ok)
}
