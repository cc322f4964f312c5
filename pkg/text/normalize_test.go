package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "blank lines only",
			input:    "\n  \n\t\n",
			expected: "",
		},
		{
			name:     "label and value",
			input:    "Name:\nJohn Smith\nAddress-\n123 Main St",
			expected: "Name: John Smith\nAddress- 123 Main St",
		},
		{
			name:     "blank line dropped",
			input:    "Hello\n\nWorld",
			expected: "Hello\nWorld",
		},
		{
			name:     "trailing trigger",
			input:    "Trailing:",
			expected: "Trailing:",
		},
		{
			name:     "chained triggers",
			input:    "Street,\nCity,\nCountry:\nSwitzerland",
			expected: "Street, City, Country: Switzerland",
		},
		{
			name:     "dash variants",
			input:    "from –\nto —\nend",
			expected: "from – to — end",
		},
		{
			name:     "trailing trigger after merged line",
			input:    "A:\nB\nC,",
			expected: "A: B\nC,",
		},
		{
			name:     "lines are trimmed",
			input:    "  padded  \n\tvalue:  \n  next ",
			expected: "padded\nvalue: next",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	input := "Name:\nJohn\n\nPhone -\n555\nend,"

	once := Normalize(input)
	require.Equal(t, once, Normalize(once))
}

func TestLines(t *testing.T) {
	require.Nil(t, Lines(""))
	require.Equal(t, []string{"a", "b"}, Lines(" a \n\n b\n"))
}
