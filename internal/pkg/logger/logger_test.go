package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func newBufferedLogger() (*StdLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &StdLogger{logger: log.New(&buf, "", 0)}, &buf
}

func TestSetVerboseEnablesInfo(t *testing.T) {
	l, buf := newBufferedLogger()

	l.Info("quiet", nil)
	l.Debug("quiet", nil)
	if buf.Len() != 0 {
		t.Fatalf("info/debug printed without verbose: %q", buf.String())
	}

	l.SetVerbose(true)
	l.Info("loud", map[string]interface{}{"k": "v"})
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("info not printed with verbose: %q", buf.String())
	}
}

func TestWarnAlwaysPrints(t *testing.T) {
	l, buf := newBufferedLogger()

	l.Warn("careful", nil)
	if !strings.Contains(buf.String(), "careful") {
		t.Fatalf("warn suppressed: %q", buf.String())
	}
}
