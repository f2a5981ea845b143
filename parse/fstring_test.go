package parse

import (
	"testing"

	"github.com/dekarrin/moray/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_ParseFString(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		check func(*assert.Assertions, syntax.StringGroup)
	}{
		{
			name:  "plain text is a constant",
			input: "just text",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				c, ok := sg.(syntax.StrConstant)
				if assert.True(ok, "group is %T", sg) {
					assert.Equal("just text", c.Value)
				}
			},
		},
		{
			name:  "empty content is an empty constant",
			input: "",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				c, ok := sg.(syntax.StrConstant)
				if assert.True(ok, "group is %T", sg) {
					assert.Equal("", c.Value)
				}
			},
		},
		{
			name:  "lone field is a formatted value",
			input: "{x}",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				fv, ok := sg.(syntax.StrFormattedValue)
				if !assert.True(ok, "group is %T", sg) {
					return
				}
				id, ok := fv.Value.(syntax.Ident)
				if assert.True(ok) {
					assert.Equal("x", id.Name)
				}
				assert.Equal(syntax.ConvNone, fv.Conversion)
				assert.Nil(fv.FormatSpec)
			},
		},
		{
			name:  "text around a field joins",
			input: "a{x}b",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				j, ok := sg.(syntax.StrJoined)
				if !assert.True(ok, "group is %T", sg) {
					return
				}
				if assert.Len(j.Parts, 3) {
					_, c1 := j.Parts[0].(syntax.StrConstant)
					_, f2 := j.Parts[1].(syntax.StrFormattedValue)
					_, c3 := j.Parts[2].(syntax.StrConstant)
					assert.True(c1 && f2 && c3)
				}
			},
		},
		{
			name:  "doubled braces escape",
			input: "a{{b}}c",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				c, ok := sg.(syntax.StrConstant)
				if assert.True(ok, "group is %T", sg) {
					assert.Equal("a{b}c", c.Value)
				}
			},
		},
		{
			name:  "conversion",
			input: "{x!r}",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				fv, ok := sg.(syntax.StrFormattedValue)
				if assert.True(ok, "group is %T", sg) {
					assert.Equal(syntax.ConvRepr, fv.Conversion)
				}
			},
		},
		{
			name:  "format spec",
			input: "{x:>10}",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				fv, ok := sg.(syntax.StrFormattedValue)
				if !assert.True(ok, "group is %T", sg) {
					return
				}
				spec, ok := fv.FormatSpec.(syntax.StrConstant)
				if assert.True(ok, "spec is %T", fv.FormatSpec) {
					assert.Equal(">10", spec.Value)
				}
			},
		},
		{
			name:  "nested field in format spec",
			input: "{x:{width}}",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				fv, ok := sg.(syntax.StrFormattedValue)
				if !assert.True(ok, "group is %T", sg) {
					return
				}
				specField, ok := fv.FormatSpec.(syntax.StrFormattedValue)
				if assert.True(ok, "spec is %T", fv.FormatSpec) {
					id, ok := specField.Value.(syntax.Ident)
					if assert.True(ok) {
						assert.Equal("width", id.Name)
					}
				}
			},
		},
		{
			name:  "expression with operators and inequality",
			input: "{a != b}",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				fv, ok := sg.(syntax.StrFormattedValue)
				if !assert.True(ok, "group is %T", sg) {
					return
				}
				_, isCmp := fv.Value.(syntax.Compare)
				assert.True(isCmp, "field value is %T", fv.Value)
			},
		},
		{
			name:  "field with nested braces in expression",
			input: "{d['k']}",
			check: func(assert *assert.Assertions, sg syntax.StringGroup) {
				fv, ok := sg.(syntax.StrFormattedValue)
				if !assert.True(ok, "group is %T", sg) {
					return
				}
				_, isSub := fv.Value.(syntax.Subscript)
				assert.True(isSub, "field value is %T", fv.Value)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			sg, err := ParseFString(tc.input)
			if !assert.NoError(err) {
				return
			}
			tc.check(assert, sg)
		})
	}
}

func Test_ParseFString_errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "empty expression",
			input: "{}",
		},
		{
			name:  "blank expression",
			input: "{   }",
		},
		{
			name:  "unclosed field",
			input: "{x",
		},
		{
			name:  "lone closing brace",
			input: "a}b",
		},
		{
			name:  "bad conversion",
			input: "{x!z}",
		},
		{
			name:  "invalid expression",
			input: "{x +}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := ParseFString(tc.input)
			assert.Error(err)
		})
	}
}

func Test_ParseFString_errorPropagatesToParse(t *testing.T) {
	assert := assert.New(t)

	// a bad f-string fails the whole parse with a positioned error
	_, err := Expression(mustLex(t, `f"{}"`))
	assert.Error(err)
}
