package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLogger_EvictsOldestAndReturnsLatestFirst(t *testing.T) {
	l := NewErrorLogger(2)
	l.LogError("ERROR", "products", "first", "", nil)
	l.LogError("ERROR", "products", "second", "", map[string]interface{}{"id": 3})
	l.LogError("WARN", "storage", "third", "disk full", nil)

	logs := l.GetErrorLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "third", logs[0].Message)
	assert.Equal(t, "second", logs[1].Message)
	assert.Equal(t, `{"id":3}`, logs[1].Context)
	assert.NotEmpty(t, logs[0].Stack)
}

func TestErrorLogger_SetCapacityAndClear(t *testing.T) {
	l := NewErrorLogger(5)
	for i := 0; i < 5; i++ {
		l.LogError("ERROR", "config", "boom", "", nil)
	}
	l.SetCapacity(3)
	assert.Len(t, l.GetErrorLogs(), 3)

	l.ClearErrorLogs()
	assert.Empty(t, l.GetErrorLogs())

	l.LogError("ERROR", "config", "again", "", nil)
	assert.Equal(t, 1, l.GetErrorLogs()[0].ID)
}
