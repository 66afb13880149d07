package core

import (
	"catalog/models"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrorLogger keeps the most recent server-side failures in memory.
type ErrorLogger struct {
	logs      []*models.ErrorLog
	mu        sync.RWMutex
	maxLogs   int
	idCounter int
}

var ErrorLoggerInstance = NewErrorLogger(100)

// NewErrorLogger creates a ring holding at most capacity entries.
func NewErrorLogger(capacity int) *ErrorLogger {
	if capacity <= 0 {
		capacity = 100
	}
	return &ErrorLogger{
		logs:    make([]*models.ErrorLog, 0, capacity),
		maxLogs: capacity,
	}
}

// SetCapacity changes the ring size, dropping the oldest entries if needed.
func (e *ErrorLogger) SetCapacity(capacity int) {
	if capacity <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxLogs = capacity
	if over := len(e.logs) - capacity; over > 0 {
		e.logs = append([]*models.ErrorLog(nil), e.logs[over:]...)
	}
}

// LogError records an entry and mirrors it to the zap logger.
func (e *ErrorLogger) LogError(level, source, message, detail string, contextData map[string]interface{}) {
	stack := getStackTrace(3)

	contextJSON := ""
	if contextData != nil {
		if data, err := json.Marshal(contextData); err == nil {
			contextJSON = string(data)
		}
	}

	fields := []zap.Field{zap.String("source", source), zap.String("detail", detail)}
	if contextJSON != "" {
		fields = append(fields, zap.String("context", contextJSON))
	}
	if level == "WARN" {
		zap.L().Warn(message, fields...)
	} else {
		zap.L().Error(message, fields...)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.logs) >= e.maxLogs {
		e.logs = e.logs[1:]
	}

	e.idCounter++
	e.logs = append(e.logs, &models.ErrorLog{
		ID:        e.idCounter,
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
		Detail:    detail,
		Stack:     stack,
		Context:   contextJSON,
	})
}

// GetErrorLogs returns the kept entries, latest first.
func (e *ErrorLogger) GetErrorLogs() []*models.ErrorLog {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := len(e.logs)
	result := make([]*models.ErrorLog, total)
	for i := 0; i < total; i++ {
		result[i] = e.logs[total-1-i]
	}
	return result
}

// ClearErrorLogs removes all entries and resets ids.
func (e *ErrorLogger) ClearErrorLogs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logs = make([]*models.ErrorLog, 0, e.maxLogs)
	e.idCounter = 0
}

func getStackTrace(skip int) string {
	const maxDepth = 10
	var stack string

	for i := skip; i < skip+maxDepth; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		funcName := "unknown"
		if fn := runtime.FuncForPC(pc); fn != nil {
			funcName = fn.Name()
		}

		stack += fmt.Sprintf("%s:%d %s\n", file, line, funcName)
	}

	return stack
}

// LogErrorWithContext records an ERROR entry on the global logger.
func LogErrorWithContext(source, message, detail string, context map[string]interface{}) {
	ErrorLoggerInstance.LogError("ERROR", source, message, detail, context)
}

// LogWarn records a WARN entry on the global logger.
func LogWarn(source, message, detail string) {
	ErrorLoggerInstance.LogError("WARN", source, message, detail, nil)
}
