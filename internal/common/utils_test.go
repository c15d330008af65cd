package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerTo_Quiet(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, true)
	logger.Info("hidden")
	logger.Error("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("quiet logger wrote info record: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("quiet logger dropped error record: %s", out)
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "post"); got != "1 post" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(3, "post"); got != "3 posts" {
		t.Errorf("Plural(3) = %q", got)
	}
}
