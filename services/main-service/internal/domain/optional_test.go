package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		Title Optional[string] `json:"title"`
		Limit Optional[int]    `json:"participantLimit"`
		Paid  Optional[bool]   `json:"paid"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Jazz night","participantLimit":0,"paid":null}`), &body))

	v, ok := body.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "Jazz night", v)

	// zero is a real value, not "unchanged"
	n, ok := body.Limit.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	assert.False(t, body.Paid.IsSet())
}

func TestOptional_ApplyAndMap(t *testing.T) {
	dst := 5
	assert.False(t, None[int]().Apply(&dst))
	assert.Equal(t, 5, dst)

	assert.True(t, Some(7).Apply(&dst))
	assert.Equal(t, 7, dst)

	doubled := MapOptional(Some(4), func(v int) int { return v * 2 })
	assert.Equal(t, 8, doubled.OrElse(0))
	assert.False(t, MapOptional(None[int](), func(v int) int { return v }).IsSet())
}

func TestOptional_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
	}{A: Some("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(b))
}
