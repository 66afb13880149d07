package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValue_ScanDriverTypes(t *testing.T) {
	cases := []struct {
		src  interface{}
		want string
	}{
		{[]byte(`{"a":1}`), `{"a":1}`},
		{`"texto"`, `"texto"`},
		{int64(8), `8`},
		{float64(2.5), `2.5`},
		{true, `true`},
		{nil, `null`},
	}
	for _, tc := range cases {
		var v ConfigValue
		require.NoError(t, v.Scan(tc.src))
		assert.Equal(t, tc.want, string(v))
	}

	var v ConfigValue
	assert.Error(t, v.Scan(struct{}{}))
}

func TestConfigValue_ValueAndJSON(t *testing.T) {
	stored, err := ConfigValue(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "null", stored)

	stored, err = ConfigValue(`[1,2]`).Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", stored)

	out, err := json.Marshal(SiteConfig{Key: "n", Value: ConfigValue(`8`)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":8`)

	var row SiteConfig
	require.NoError(t, json.Unmarshal([]byte(`{"key":"x","value":[true]}`), &row))
	assert.Equal(t, `[true]`, string(row.Value))
}
