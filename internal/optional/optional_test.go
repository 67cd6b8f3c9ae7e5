package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Day      Value[int]    `json:"day"`
	Subject  Value[string] `json:"subject"`
	Teachers Value[[]uint] `json:"teachers"`
}

func TestZeroIsDistinctFromUnset(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"day":0,"subject":null}`), &p))

	day, ok := p.Day.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, day)

	assert.False(t, p.Subject.IsSet())
	assert.False(t, p.Teachers.IsSet())
	assert.Equal(t, "Алгебра", p.Subject.Or("Алгебра"))
}

func TestSliceValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"teachers":[3,1]}`), &p))
	assert.Equal(t, []uint{3, 1}, p.Teachers.Or(nil))

	err := json.Unmarshal([]byte(`{"day":"monday"}`), &p)
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	out, err := json.Marshal(patch{Day: Some(2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":2,"subject":null,"teachers":null}`, string(out))
}
