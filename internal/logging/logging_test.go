package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut, "galaxy", false)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String(), "debug lines are dropped while debug is off")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	l.Infof("count=%d", 100)
	assert.Contains(t, out.String(), "[galaxy] DEBUG: shown 2")
	assert.Contains(t, out.String(), "[galaxy] INFO: count=100")

	l.Warnf("careful")
	l.Errorf("broken: %v", "x")
	assert.Contains(t, errOut.String(), "[galaxy] WARN: careful")
	assert.Contains(t, errOut.String(), "[galaxy] ERROR: broken: x")
	assert.NotContains(t, out.String(), "WARN")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(&out, &out, "", true)
	l.Infof("plain")
	assert.Contains(t, out.String(), "INFO: plain")
	assert.NotContains(t, out.String(), "[")
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())

	d := NewNopLogger()
	assert.Same(t, d, OrNop(d))
}
