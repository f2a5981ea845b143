package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectSourceReader_ReadStatement(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single line",
			input:  "x = 1\n",
			expect: []string{"x = 1\n"},
		},
		{
			name:   "two statements",
			input:  "a\nb\n",
			expect: []string{"a\n", "b\n"},
		},
		{
			name:   "blank lines before a statement are skipped",
			input:  "\n\na\n",
			expect: []string{"a\n"},
		},
		{
			name:   "open bracket continues the statement",
			input:  "f(1,\n  2)\n",
			expect: []string{"f(1,\n  2)\n"},
		},
		{
			name:   "trailing backslash continues the statement",
			input:  "a + \\\n  b\n",
			expect: []string{"a + \\\n  b\n"},
		},
		{
			name:   "colon opens a block ended by a blank line",
			input:  "if x:\n    a\n    b\n\nc\n",
			expect: []string{"if x:\n    a\n    b\n", "c\n"},
		},
		{
			name:   "bracket inside string does not continue",
			input:  "a = '('\nb\n",
			expect: []string{"a = '('\n", "b\n"},
		},
		{
			name:   "comment with bracket does not continue",
			input:  "a  # (\nb\n",
			expect: []string{"a  # (\n", "b\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewDirectReader(strings.NewReader(tc.input))
			defer r.Close()

			var got []string
			for {
				stmt, err := r.ReadStatement()
				if err == io.EOF {
					break
				}
				if !assert.NoError(err) {
					return
				}
				got = append(got, stmt)
			}

			assert.Equal(tc.expect, got)
		})
	}
}
