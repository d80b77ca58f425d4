package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	l.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message logged without verbose")
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing: %q", out)
	}

	buf.Reset()
	New(&buf, true).WithField("chunk", 3).Debug("loading chunk")
	if !strings.Contains(buf.String(), "chunk=3") {
		t.Errorf("debug message missing fields: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.IsLevelEnabled(logrus.InfoLevel) {
		t.Error("discard logger has info enabled")
	}
}
