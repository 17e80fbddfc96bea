package epoch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillisRoundTrip(t *testing.T) {
	type wrapper struct {
		At Millis `json:"at"`
	}

	at := time.UnixMilli(1730000000123)
	b, err := json.Marshal(wrapper{At: New(at)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":1730000000123}`, string(b))

	var got wrapper
	require.NoError(t, json.Unmarshal(b, &got))
	assert.True(t, got.At.Equal(at))
}

func TestMillisNullAndFraction(t *testing.T) {
	var m Millis
	require.NoError(t, json.Unmarshal([]byte("null"), &m))
	assert.True(t, m.IsZero())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	require.NoError(t, json.Unmarshal([]byte("1500.9"), &m))
	assert.Equal(t, int64(1500), m.UnixMilli())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &m))
}
