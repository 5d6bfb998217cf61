package discmd

import "strings"

//StringView is a mutable cursor over the raw invocation text
//it is shared between the dispatcher, command groups and the argument parser,
//all of which advance it cooperatively during a single dispatch
type StringView struct {
	Buffer string
	//Index is the current read position
	Index int
	//Previous is the read position before the last advancing operation,
	//kept so a failed lookahead can be undone
	Previous int
}

func NewStringView(buffer string) *StringView {
	return &StringView{Buffer: buffer}
}

func (v *StringView) EOF() bool {
	return v.Index >= len(v.Buffer)
}

//Undo rewinds the cursor to where it was before the last advance
func (v *StringView) Undo() {
	v.Index = v.Previous
}

//SkipWS advances past consecutive whitespace, reporting if anything was skipped
func (v *StringView) SkipWS() bool {
	pos := 0
	for v.Index+pos < len(v.Buffer) && isViewSpace(v.Buffer[v.Index+pos]) {
		pos++
	}
	v.Previous = v.Index
	v.Index += pos
	return pos > 0
}

//SkipString advances past s if the buffer continues with it at the cursor
func (v *StringView) SkipString(s string) bool {
	if !strings.HasPrefix(v.Buffer[v.Index:], s) {
		return false
	}
	v.Previous = v.Index
	v.Index += len(s)
	return true
}

//GetWord reads up to the next whitespace boundary
//an empty string means the cursor sits on whitespace or at the end
func (v *StringView) GetWord() string {
	pos := 0
	for v.Index+pos < len(v.Buffer) && !isViewSpace(v.Buffer[v.Index+pos]) {
		pos++
	}
	v.Previous = v.Index
	result := v.Buffer[v.Index : v.Index+pos]
	v.Index += pos
	return result
}

//ReadRest consumes and returns everything from the cursor to the end
func (v *StringView) ReadRest() string {
	v.Previous = v.Index
	result := v.Buffer[v.Index:]
	v.Index = len(v.Buffer)
	return result
}

func isViewSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
