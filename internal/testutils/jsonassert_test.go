package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONAsserter_DefaultOptions(t *testing.T) {
	ja := NewJSONAsserter(t)

	assert.True(t, ja.options.IgnoreExtraKeys, "IgnoreExtraKeys MUST default to true")
	assert.True(t, ja.options.AllowPresencePlaceholder, "AllowPresencePlaceholder MUST default to true")
	assert.Empty(t, ja.options.IgnoredFields)
}

func TestJSONAsserter_Assert(t *testing.T) {
	actual := `{"address":"aa:bb:cc:dd:ee:ff","characteristic":"2a19","value":"64","length":1,"decoded":100}`

	tests := []struct {
		name     string
		opts     []Option
		expected string
		wantOK   bool
	}{
		{
			name:     "exact match",
			expected: actual,
			wantOK:   true,
		},
		{
			name:     "extra actual keys ignored",
			expected: `{"value":"64","length":1}`,
			wantOK:   true,
		},
		{
			name:     "extra actual keys reported when not ignored",
			opts:     []Option{WithIgnoreExtraKeys(false)},
			expected: `{"value":"64","length":1}`,
			wantOK:   false,
		},
		{
			name:     "presence placeholder",
			expected: `{"address":"<<PRESENCE>>","value":"64"}`,
			wantOK:   true,
		},
		{
			name:     "presence placeholder requires the key",
			expected: `{"name":"<<PRESENCE>>"}`,
			wantOK:   false,
		},
		{
			name:     "placeholder taken literally when disabled",
			opts:     []Option{WithAllowPresencePlaceholder(false)},
			expected: `{"address":"<<PRESENCE>>"}`,
			wantOK:   false,
		},
		{
			name:     "ignored fields",
			opts:     []Option{WithIgnoredFields("value")},
			expected: `{"value":"ff","length":1}`,
			wantOK:   true,
		},
		{
			name:     "value mismatch",
			expected: `{"decoded":99}`,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &recordingT{}
			ok := NewJSONAsserter(rt).WithOptions(tt.opts...).Assert(actual, tt.expected)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Empty(t, rt.errors)
			} else {
				assert.Len(t, rt.errors, 1)
			}
		})
	}
}

func TestJSONAsserter_InvalidJSON(t *testing.T) {
	ja := NewJSONAsserter(t)

	assert.Contains(t, ja.Diff("{", `{}`), "invalid actual JSON")
	assert.Contains(t, ja.Diff(`{}`, "not json"), "invalid expected JSON")
}
