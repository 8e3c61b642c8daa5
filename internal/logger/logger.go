// Package logger writes one JSON object per line.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Level orders log severities; lines below the configured level are dropped.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("level(%d)", int32(l))
	}
	return levelNames[l]
}

// ParseLevel accepts debug, info, warn (or warning) and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type logEntry struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Message   string                 `json:"msg"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

var (
	output   = log.New(os.Stdout, "", 0)
	minLevel atomic.Int32
)

func init() { minLevel.Store(int32(LevelInfo)) }

// SetOutput redirects log lines, e.g. to a buffer in tests.
func SetOutput(w io.Writer) { output.SetOutput(w) }

// SetLevel drops lines below l.
func SetLevel(l Level) { minLevel.Store(int32(l)) }

// Enabled reports whether lines at l are written.
func Enabled(l Level) bool { return int32(l) >= minLevel.Load() }

// Log writes msg at level l.
func Log(l Level, msg string, extra map[string]interface{}) {
	if !Enabled(l) {
		return
	}
	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     l.String(),
		Message:   msg,
		Extra:     extra,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		// extra held something unencodable; keep the message
		entry.Extra = map[string]interface{}{"marshal_error": err.Error()}
		data, _ = json.Marshal(entry)
	}
	output.Println(string(data))
}

func Debug(msg string, extra map[string]interface{}) { Log(LevelDebug, msg, extra) }

func Info(msg string, extra map[string]interface{}) { Log(LevelInfo, msg, extra) }

func Warn(msg string, extra map[string]interface{}) { Log(LevelWarn, msg, extra) }

func Error(msg string, extra map[string]interface{}) { Log(LevelError, msg, extra) }
