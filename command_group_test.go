package discmd

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestGroupDispatch(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	var rootCalls, subCalls int
	root := MustNewGroup("root", "", func(ctx *Context) error {
		rootCalls++
		return nil
	})
	sub := MustNewExecutor("sub", "", func(ctx *Context) error {
		subCalls++
		return nil
	}).SetAliases("s")
	root.AddSubcommand(sub)
	MustAddCommand(b, root)

	ctx := b.GetContext(testMessage("!root sub"))
	b.Invoke(ctx)
	r.False(ctx.CommandFailed, spew.Sdump(ctx))
	r.Equal(1, rootCalls)
	r.Equal(1, subCalls)
	r.Equal([]string{"root"}, ctx.InvokedParents)
	r.Equal("sub", strDeref(ctx.InvokedWith))
	r.Equal("sub", strDeref(ctx.SubcommandPassed))
	r.True(ctx.InvokedSubcommand == Command(sub))
	r.True(ctx.Command == Command(sub))
}

func TestGroupDispatchByAlias(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	var subCalls int
	root := MustNewGroup("root", "", func(ctx *Context) error { return nil })
	sub := MustNewExecutor("sub", "", func(ctx *Context) error {
		subCalls++
		return nil
	}).SetAliases("s")
	root.AddSubcommand(sub)
	MustAddCommand(b, root)

	ctx := b.GetContext(testMessage("!root s"))
	b.Invoke(ctx)
	r.Equal(1, subCalls)
	r.Equal("s", strDeref(ctx.InvokedWith))
	r.True(ctx.InvokedSubcommand == Command(sub))
}

func TestGroupUnknownSubcommand(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	var rootCalls int
	root := MustNewGroup("root", "", func(ctx *Context) error {
		rootCalls++
		return nil
	})
	root.AddSubcommand(MustNewExecutor("sub", "", func(ctx *Context) error { return nil }))
	MustAddCommand(b, root)

	ctx := b.GetContext(testMessage("!root bogus"))
	b.Invoke(ctx)
	r.False(ctx.CommandFailed)
	r.Equal(1, rootCalls)
	r.Nil(ctx.InvokedSubcommand)
	r.Equal("bogus", strDeref(ctx.SubcommandPassed))
	//the unmatched word never becomes the invoking name
	r.Equal("root", strDeref(ctx.InvokedWith))
}

func TestGroupBareInvocation(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	var rootCalls int
	root := MustNewGroup("root", "", func(ctx *Context) error {
		rootCalls++
		return nil
	})
	MustAddCommand(b, root)

	ctx := b.GetContext(testMessage("!root"))
	b.Invoke(ctx)
	r.False(ctx.CommandFailed)
	r.Equal(1, rootCalls)
	r.Nil(ctx.SubcommandPassed)
	r.Nil(ctx.InvokedSubcommand)
	r.Equal("root", strDeref(ctx.InvokedWith))
}

func TestGroupInvokeWithoutCommand(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	var got string
	var happyCalls int
	group := MustNewGroup("mood", "", func(ctx *Context) error {
		ctx.View.SkipWS()
		got = ctx.View.ReadRest()
		return nil
	}).SetInvokeWithoutCommand(true)
	group.AddSubcommand(MustNewExecutor("happy", "", func(ctx *Context) error {
		happyCalls++
		return nil
	}))
	MustAddCommand(b, group)

	//no valid subcommand, the group callback sees the view rewound to
	//right after its own token
	ctx := b.GetContext(testMessage("!mood rather gloomy"))
	b.Invoke(ctx)
	r.False(ctx.CommandFailed)
	r.Equal(0, happyCalls)
	r.Equal("rather gloomy", got)
	r.Equal("mood", strDeref(ctx.InvokedWith))

	//a valid subcommand suppresses the group callback entirely
	got = ""
	ctx = b.GetContext(testMessage("!mood happy"))
	b.Invoke(ctx)
	r.Equal(1, happyCalls)
	r.Equal("", got)
}

func TestGroupNested(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	var trail []string
	walk := func(tag string) func(ctx *Context) error {
		return func(ctx *Context) error {
			trail = append(trail, tag)
			return nil
		}
	}
	outer := MustNewGroup("a", "", walk("a"))
	inner := MustNewGroup("b", "", walk("b"))
	leaf := MustNewExecutor("c", "", walk("c"))
	inner.AddSubcommand(leaf)
	outer.AddSubcommand(inner)
	MustAddCommand(b, outer)

	ctx := b.GetContext(testMessage("!a b c"))
	b.Invoke(ctx)
	r.False(ctx.CommandFailed)
	r.Equal([]string{"a", "b", "c"}, trail)
	r.Equal([]string{"a", "b"}, ctx.InvokedParents)
	r.Equal("a b c", leaf.QualifiedName())
	r.True(leaf.RootParent() == Command(outer))
	r.True(leaf.Parent() == Command(inner))
	r.Nil(outer.Parent())
	r.Nil(outer.RootParent())
}

func TestGroupNestedEndsAtGroup(t *testing.T) {
	r := require.New(t)
	b := newTestBot(&fakeREST{})
	outer := MustNewGroup("outer", "", func(ctx *Context) error { return nil })
	inner := MustNewGroup("inner", "", func(ctx *Context) error { return nil })
	inner.AddSubcommand(MustNewExecutor("leaf", "", func(ctx *Context) error { return nil }))
	outer.AddSubcommand(inner)
	MustAddCommand(b, outer)

	//each group level starts its own subcommand resolution, so stopping at
	//the inner group must not leak the outer level's match
	ctx := b.GetContext(testMessage("!outer inner"))
	b.Invoke(ctx)
	r.False(ctx.CommandFailed)
	r.Equal([]string{"outer", "inner"}, ctx.InvokedParents)
	r.Equal("inner", strDeref(ctx.InvokedWith))
	r.Nil(ctx.InvokedSubcommand)
	r.Nil(ctx.SubcommandPassed)
	r.True(ctx.Command == Command(inner))
}

func TestGroupSubcommandManagement(t *testing.T) {
	r := require.New(t)
	g := MustNewGroup("root", "", func(ctx *Context) error { return nil })
	first := MustNewExecutor("sub", "", func(ctx *Context) error { return nil })
	g.AddSubcommand(first)

	//same name replaces in place
	second := MustNewExecutor("sub", "", func(ctx *Context) error { return nil }).SetAliases("s2")
	g.AddSubcommand(second)
	r.Len(g.Subcommands(), 1)

	byAlias, ok := g.Subcommand("s2")
	r.True(ok)
	r.True(byAlias == Command(second))

	g.RemoveSubcommand("sub")
	r.Empty(g.Subcommands())
	_, ok = g.Subcommand("sub")
	r.False(ok)
}
