package testutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingT captures Errorf calls instead of failing the test
type recordingT struct {
	errors []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestTextAsserter_DefaultOptions(t *testing.T) {
	opts := NewTextAsserter(t).Options()

	assert.True(t, opts.TrimSpace, "TrimSpace MUST default to true")
	assert.True(t, opts.IgnoreTrailingWhitespace, "IgnoreTrailingWhitespace MUST default to true")
	assert.False(t, opts.EnableColors, "EnableColors MUST default to false")
}

func TestTextAsserter_Assert(t *testing.T) {
	t.Run("matching after normalization", func(t *testing.T) {
		rt := &recordingT{}
		ok := NewTextAsserter(rt).Assert("\nline one  \nline two\t\n\n", "line one\nline two")

		assert.True(t, ok)
		assert.Empty(t, rt.errors)
	})

	t.Run("mismatch reports unified diff", func(t *testing.T) {
		rt := &recordingT{}
		ok := NewTextAsserter(rt).Assert("device_address: aa\n", "device_address: bb\n")

		assert.False(t, ok)
		assert.Len(t, rt.errors, 1)
		assert.Contains(t, rt.errors[0], "-device_address: bb")
		assert.Contains(t, rt.errors[0], "+device_address: aa")
	})

	t.Run("colored diff", func(t *testing.T) {
		diff := NewTextAsserter(t).WithColors(true).Diff("a\n", "b\n")

		assert.True(t, strings.Contains(diff, "\x1b["), "colored diff MUST contain ANSI escapes")
	})
}
