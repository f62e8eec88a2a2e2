package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewToPrefixesComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewTo(&buf, "cron").Printf("run %d", 1)
	if !strings.Contains(buf.String(), "[cron] run 1") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
