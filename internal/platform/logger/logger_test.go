package logger

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestError_RendersFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	old := ErrorLogger
	ErrorLogger = log.New(&buf, "ERROR: ", 0)
	defer func() { ErrorLogger = old }()

	Error("AddItem: upsert failed", errors.New("boom"), Fields{"user_id": "u1", "produk_id": "p1"})

	assert.Equal(t, "ERROR: AddItem: upsert failed produk_id=p1 user_id=u1: boom\n", buf.String())
}

func TestInfo_FormatsArgsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	old := InfoLogger
	InfoLogger = log.New(&buf, "", 0)
	defer func() { InfoLogger = old; SetLevel(LevelInfo) }()
	SetLevel(LevelInfo)

	Info("listening on %s", ":8080")
	assert.Equal(t, "listening on :8080\n", buf.String())

	buf.Reset()
	SetLevel(LevelWarn)
	Info("hidden")
	assert.Empty(t, buf.String())
}
