package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// Fields is passed as the trailing argument of Error/Warn/Info to attach context.
type Fields map[string]interface{}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	DebugLogger *log.Logger
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger

	minLevel = LevelInfo
)

func init() {
	DebugLogger = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel accepts debug|info|warn|error, anything else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func SetLevel(l Level) {
	minLevel = l
}

func Debug(msg string, v ...interface{}) {
	if minLevel > LevelDebug {
		return
	}
	DebugLogger.Output(2, render(msg, v))
}

func Info(msg string, v ...interface{}) {
	if minLevel > LevelInfo {
		return
	}
	InfoLogger.Output(2, render(msg, v))
}

func Warn(msg string, v ...interface{}) {
	if minLevel > LevelWarn {
		return
	}
	WarnLogger.Output(2, render(msg, v))
}

// Error logs msg with err appended. A trailing Fields argument is rendered as key=value pairs,
// other arguments are treated as Printf operands of msg.
func Error(msg string, err error, v ...interface{}) {
	line := render(msg, v)
	if err != nil {
		line += ": " + err.Error()
	}
	ErrorLogger.Output(2, line)
}

func render(msg string, v []interface{}) string {
	var fields Fields
	args := make([]interface{}, 0, len(v))
	for _, a := range v {
		switch t := a.(type) {
		case Fields:
			fields = t
		case nil:
			// nil placeholders are skipped
		default:
			args = append(args, a)
		}
	}
	if len(args) > 0 && strings.Contains(msg, "%") {
		msg = fmt.Sprintf(msg, args...)
	} else if len(args) > 0 {
		msg = strings.TrimSpace(msg + " " + fmt.Sprint(args...))
	}
	if len(fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
