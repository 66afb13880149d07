package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigins(t *testing.T) {
	c := &Config{
		FrontendURL: "https://centralcelulares.com.py/",
		CORSOrigins: []string{"http://localhost:5500", " https://admin.centralcelulares.com.py ", ""},
	}
	assert.Equal(t, []string{
		"http://localhost:5500",
		"http://127.0.0.1:5500",
		"https://centralcelulares.com.py",
		"https://admin.centralcelulares.com.py",
	}, c.AllowedOrigins())

	assert.Len(t, (&Config{}).AllowedOrigins(), 2)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CATALOG_TEST_LIST", "a@example.com, ,b@example.com,")
	t.Setenv("CATALOG_TEST_INT", "nope")
	t.Setenv("CATALOG_TEST_BOOL", "false")

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, getEnvList("CATALOG_TEST_LIST"))
	assert.Nil(t, getEnvList("CATALOG_TEST_UNSET"))
	assert.Equal(t, 7, getEnvInt("CATALOG_TEST_INT", 7))
	assert.False(t, getEnvBool("CATALOG_TEST_BOOL", true))
	assert.Equal(t, "fallback", getEnv("CATALOG_TEST_UNSET", "fallback"))
}
