package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithComponentAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	log := WithComponent("orchestrator")
	log.Info("turn started", "turn_id", "abc")

	out := buf.String()
	assert.Contains(t, out, "turn started")
	assert.Contains(t, out, "component=orchestrator")
	assert.Contains(t, out, "turn_id=abc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("unknown").String())
}

func TestSetOutputCapturesSubsequentLogs(t *testing.T) {
	var first, second bytes.Buffer

	SetOutput(&first)
	WithComponent("a").Info("one")

	SetOutput(&second)
	WithComponent("b").Info("two")

	assert.True(t, strings.Contains(first.String(), "one"))
	assert.False(t, strings.Contains(first.String(), "two"))
	assert.True(t, strings.Contains(second.String(), "two"))
}
