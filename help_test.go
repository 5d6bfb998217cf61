package discmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

//recordingHelp captures which render entry point SendHelp picked
type recordingHelp struct {
	calls   []string
	mapping map[*Cog][]Command
	cog     *Cog
	group   *Group
	cmd     Command
	renders error
	errs    []error
}

var _ HelpCommand = (*recordingHelp)(nil)

func (h *recordingHelp) SendBotHelp(ctx *Context, mapping map[*Cog][]Command) error {
	h.calls = append(h.calls, "bot")
	h.mapping = mapping
	return h.renders
}

func (h *recordingHelp) SendCogHelp(ctx *Context, cog *Cog) error {
	h.calls = append(h.calls, "cog")
	h.cog = cog
	return h.renders
}

func (h *recordingHelp) SendGroupHelp(ctx *Context, group *Group) error {
	h.calls = append(h.calls, "group")
	h.group = group
	return h.renders
}

func (h *recordingHelp) SendCommandHelp(ctx *Context, cmd Command) error {
	h.calls = append(h.calls, "command")
	h.cmd = cmd
	return h.renders
}

func (h *recordingHelp) OnHelpError(ctx *Context, err error) {
	h.errs = append(h.errs, err)
}

func helpTestBot(t *testing.T) (*Bot, *recordingHelp, *Group, *Executor, *Cog) {
	t.Helper()
	b := newTestBot(&fakeREST{})
	help := &recordingHelp{}
	b.SetHelpCommand(help)

	group := MustNewGroup("mood", "set the mood", func(ctx *Context) error { return nil })
	group.AddSubcommand(MustNewExecutor("happy", "", func(ctx *Context) error { return nil }))
	MustAddCommand(b, group)

	leaf := MustNewExecutor("ping", "measure latency", func(ctx *Context) error { return nil }).SetAliases("p")
	MustAddCommand(b, leaf)

	cog := NewCog("stats", "server statistics")
	cog.AddCommand(MustNewExecutor("uptime", "", func(ctx *Context) error { return nil }))
	require.NoError(t, b.AddCog(cog))

	//a command living under the same name as a cog, the cog must win
	MustAddCommand(b, MustNewExecutor("stats", "", func(ctx *Context) error { return nil }))
	return b, help, group, leaf, cog
}

func TestSendHelpDispatch(t *testing.T) {
	cases := []struct {
		name   string
		entity func(group *Group, leaf *Executor, cog *Cog) interface{}
		want   string
	}{
		{"nil entity", func(*Group, *Executor, *Cog) interface{} { return nil }, "bot"},
		{"cog by name", func(*Group, *Executor, *Cog) interface{} { return "stats" }, "cog"},
		{"command by name", func(*Group, *Executor, *Cog) interface{} { return "ping" }, "command"},
		{"command by alias", func(*Group, *Executor, *Cog) interface{} { return "p" }, "command"},
		{"group by name", func(*Group, *Executor, *Cog) interface{} { return "mood" }, "group"},
		{"cog value", func(g *Group, l *Executor, c *Cog) interface{} { return c }, "cog"},
		{"group value", func(g *Group, l *Executor, c *Cog) interface{} { return g }, "group"},
		{"command value", func(g *Group, l *Executor, c *Cog) interface{} { return l }, "command"},
		{"group as Command", func(g *Group, l *Executor, c *Cog) interface{} { return Command(g) }, "group"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)
			b, help, group, leaf, cog := helpTestBot(t)
			ctx := b.GetContext(testMessage("!help"))

			r.NoError(ctx.SendHelp(tc.entity(group, leaf, cog)))
			r.Equal([]string{tc.want}, help.calls)
			switch tc.want {
			case "cog":
				r.Same(cog, help.cog)
			case "group":
				r.Same(group, help.group)
			case "command":
				r.NotNil(help.cmd)
			}
		})
	}
}

func TestSendHelpBotMapping(t *testing.T) {
	r := require.New(t)
	b, help, _, leaf, cog := helpTestBot(t)
	ctx := b.GetContext(testMessage("!help"))

	r.NoError(ctx.SendHelp(nil))
	r.NotNil(help.mapping)
	r.Contains(help.mapping, cog)
	r.Contains(help.mapping[nil], Command(leaf))
}

func TestSendHelpUnresolvable(t *testing.T) {
	cases := []struct {
		name   string
		entity interface{}
	}{
		{"unknown name", "nonexistent"},
		{"unsupported type", 42},
		{"typed nil cog", (*Cog)(nil)},
		{"typed nil group", Command((*Group)(nil))},
		{"typed nil executor", Command((*Executor)(nil))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)
			b, help, _, _, _ := helpTestBot(t)
			ctx := b.GetContext(testMessage("!help"))

			r.NoError(ctx.SendHelp(tc.entity))
			r.Empty(help.calls)
			r.Empty(help.errs)
		})
	}
}

func TestSendHelpDisabled(t *testing.T) {
	r := require.New(t)
	b, _, _, _, _ := helpTestBot(t)
	b.SetHelpCommand(nil)
	ctx := b.GetContext(testMessage("!help"))
	r.NoError(ctx.SendHelp(nil))
}

func TestSendHelpRenderErrors(t *testing.T) {
	r := require.New(t)
	b, help, _, _, _ := helpTestBot(t)
	boom := errors.New("render failed")
	help.renders = boom
	ctx := b.GetContext(testMessage("!help"))

	r.NoError(ctx.SendHelp("ping"))
	r.Equal([]error{boom}, help.errs)
}

func TestDefaultHelpBot(t *testing.T) {
	r := require.New(t)
	fake := &fakeREST{}
	b := newTestBot(fake)
	MustAddCommand(b, MustNewExecutor("ping", "measure latency", func(ctx *Context) error { return nil }))
	cog := NewCog("stats", "")
	cog.AddCommand(MustNewExecutor("uptime", "time since boot", func(ctx *Context) error { return nil }))
	r.NoError(b.AddCog(cog))

	ctx := b.GetContext(testMessage("!help"))
	r.NoError(ctx.SendHelp(nil))
	r.Len(fake.sends, 1)
	body := fake.sends[0].data.Content
	r.Contains(body, "**No Category**")
	r.Contains(body, "ping - measure latency")
	r.Contains(body, "**stats**")
	r.Contains(body, "uptime - time since boot")
}

func TestDefaultHelpGroup(t *testing.T) {
	r := require.New(t)
	fake := &fakeREST{}
	b := newTestBot(fake)
	group := MustNewGroup("mood", "set the mood", func(ctx *Context) error { return nil })
	group.AddSubcommand(MustNewExecutor("happy", "turn it up", func(ctx *Context) error { return nil }))
	MustAddCommand(b, group)

	ctx := b.GetContext(testMessage("!help"))
	r.NoError(ctx.SendHelp(group))
	r.Len(fake.sends, 1)
	body := fake.sends[0].data.Content
	r.Contains(body, "**mood**")
	r.Contains(body, "Subcommands:")
	r.Contains(body, "happy - turn it up")
}

func TestDefaultHelpCommandAliases(t *testing.T) {
	r := require.New(t)
	fake := &fakeREST{}
	b := newTestBot(fake)
	cmd := MustNewExecutor("ping", "measure latency", func(ctx *Context) error { return nil }).SetAliases("p", "pong")
	MustAddCommand(b, cmd)

	ctx := b.GetContext(testMessage("!help"))
	r.NoError(ctx.SendHelp(cmd))
	r.Len(fake.sends, 1)
	body := fake.sends[0].data.Content
	r.Contains(body, "**ping** (p, pong)")
	r.Contains(body, "measure latency")
}
