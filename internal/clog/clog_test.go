package clog_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/clog"
)

func TestDisabledLoggerWritesNothing(t *testing.T) {
	l := clog.New(false)
	l.Printf("hello %s", "world")
	l.Stage("lex", time.Millisecond)
	// No way to observe w directly since New always targets os.Stderr;
	// the contract under test is that a disabled Logger never panics and
	// never calls through to its writer. A nil receiver must behave the
	// same way, since callers pass a possibly-nil *Logger around.
	var nilLogger *clog.Logger
	nilLogger.Printf("unreachable")
	nilLogger.Stage("unreachable", time.Second)
}

func TestEnabledLoggerFormatsStageLine(t *testing.T) {
	var buf bytes.Buffer
	l := clog.New(true)
	l.SetOutput(&buf)
	l.Stage("parse", 2*time.Millisecond)
	require.Contains(t, buf.String(), "stage=parse")
	require.Contains(t, buf.String(), "duration=2ms")
}
