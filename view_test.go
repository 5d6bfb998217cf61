package discmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringViewGetWord(t *testing.T) {
	cases := []struct {
		name  string
		input string
		words []string
	}{
		{"simple", "foo bar", []string{"foo", "bar"}},
		{"runs of spaces", "foo   bar", []string{"foo", "bar"}},
		{"tabs and newlines", "foo\tbar\nbaz", []string{"foo", "bar", "baz"}},
		{"empty", "", nil},
		{"only spaces", "   ", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)
			v := NewStringView(tc.input)
			var got []string
			for !v.EOF() {
				v.SkipWS()
				w := v.GetWord()
				if w == "" {
					break
				}
				got = append(got, w)
			}
			r.Equal(tc.words, got)
		})
	}
}

func TestStringViewSkipString(t *testing.T) {
	r := require.New(t)
	v := NewStringView("!ping rest")
	r.True(v.SkipString("!"))
	r.Equal(1, v.Index)
	r.False(v.SkipString("?"))
	r.Equal(1, v.Index)
	r.Equal("ping", v.GetWord())
}

func TestStringViewUndo(t *testing.T) {
	r := require.New(t)
	v := NewStringView("one two")
	r.Equal("one", v.GetWord())
	v.Undo()
	r.Equal("one", v.GetWord())
	v.SkipWS()
	r.Equal("two", v.GetWord())
	r.True(v.EOF())
}

func TestStringViewReadRest(t *testing.T) {
	r := require.New(t)
	v := NewStringView("!echo hello   world")
	v.SkipString("!")
	r.Equal("echo", v.GetWord())
	v.SkipWS()
	r.Equal("hello   world", v.ReadRest())
	r.True(v.EOF())
	r.Equal("", v.ReadRest())
}
