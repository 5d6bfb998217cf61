package discmd

import (
	"sync"
)

//Group is a command that owns subcommands, its own callback runs before a
//subcommand is dispatched unless SetInvokeWithoutCommand(true) reserves it
//for invocations that name no valid subcommand
type Group struct {
	*Executor
	subcommands          []Command
	invokeWithoutCommand bool
	gm                   sync.RWMutex
}

var _ Command = (*Group)(nil)

func NewGroup(name string, description string, fn interface{}) (*Group, error) {
	e, err := NewExecutor(name, description, fn)
	if err != nil {
		return nil, err
	}
	return &Group{Executor: e}, nil
}

func MustNewGroup(name string, description string, fn interface{}) *Group {
	g, err := NewGroup(name, description, fn)
	if err != nil {
		panic(err)
	}
	return g
}

//SetInvokeWithoutCommand makes the group's own callback run only when no
//subcommand matched, instead of running before every subcommand
func (g *Group) SetInvokeWithoutCommand(v bool) *Group {
	g.gm.Lock()
	defer g.gm.Unlock()
	g.invokeWithoutCommand = v
	return g
}

func (g *Group) AddSubcommand(cmd Command) *Group {
	g.gm.Lock()
	defer g.gm.Unlock()
	cmd.setParent(g)
	_, i := g.findSub(cmd.Name())
	if i < 0 {
		g.subcommands = append(g.subcommands, cmd)
		return g
	}
	g.subcommands[i] = cmd
	return g
}

func (g *Group) RemoveSubcommand(name string) {
	g.gm.Lock()
	defer g.gm.Unlock()
	_, i := g.findSub(name)
	if i < 0 {
		return
	}
	g.subcommands = append(g.subcommands[:i], g.subcommands[i+1:]...)
}

func (g *Group) Subcommand(name string) (Command, bool) {
	g.gm.RLock()
	defer g.gm.RUnlock()
	h, i := g.findSub(name)
	if i < 0 {
		return nil, false
	}
	return h, true
}

func (g *Group) Subcommands() []Command {
	g.gm.RLock()
	defer g.gm.RUnlock()
	return append([]Command(nil), g.subcommands...)
}

//findSub matches by name then by alias, callers hold gm
func (g *Group) findSub(name string) (Command, int) {
	for i, h := range g.subcommands {
		if h.Name() == name {
			return h, i
		}
	}
	for i, h := range g.subcommands {
		for _, alias := range h.Aliases() {
			if alias == name {
				return h, i
			}
		}
	}
	return nil, -1
}

//Invoke walks the chain one level: record this group in InvokedParents,
//peek the next word as a subcommand attempt, run the group callback when it
//is an early-invoke group, then hand off to the matched subcommand or fall
//back to the group itself with the view rewound
func (g *Group) Invoke(ctx *Context) error {
	ctx.InvokedParents = append(ctx.InvokedParents, strDeref(ctx.InvokedWith))
	ctx.InvokedSubcommand = nil
	ctx.SubcommandPassed = nil
	early := !g.isInvokeWithoutCommand()
	view := ctx.View

	previous := view.Index
	view.SkipWS()
	trigger := view.GetWord()
	if trigger != "" {
		ctx.SubcommandPassed = &trigger
		sub, _ := g.Subcommand(trigger)
		ctx.InvokedSubcommand = sub
	}

	if early {
		if err := g.invokeAs(g, ctx); err != nil {
			return err
		}
	}

	switch {
	case trigger != "" && ctx.InvokedSubcommand != nil:
		ctx.InvokedWith = &trigger
		return ctx.InvokedSubcommand.Invoke(ctx)
	case !early:
		view.Index = previous
		view.Previous = previous
		return g.invokeAs(g, ctx)
	}
	return nil
}

func (g *Group) Reinvoke(ctx *Context, callHooks bool) error {
	ctx.InvokedParents = append(ctx.InvokedParents, strDeref(ctx.InvokedWith))
	ctx.InvokedSubcommand = nil
	ctx.SubcommandPassed = nil
	early := !g.isInvokeWithoutCommand()
	view := ctx.View

	previous := view.Index
	view.SkipWS()
	trigger := view.GetWord()
	if trigger != "" {
		ctx.SubcommandPassed = &trigger
		sub, _ := g.Subcommand(trigger)
		ctx.InvokedSubcommand = sub
	}

	if early {
		if err := g.reinvokeAs(g, ctx, callHooks); err != nil {
			return err
		}
	}

	switch {
	case trigger != "" && ctx.InvokedSubcommand != nil:
		ctx.InvokedWith = &trigger
		return ctx.InvokedSubcommand.Reinvoke(ctx, callHooks)
	case !early:
		view.Index = previous
		view.Previous = previous
		return g.reinvokeAs(g, ctx, callHooks)
	}
	return nil
}

func (g *Group) isInvokeWithoutCommand() bool {
	var v bool
	withRWMutex(&g.gm, func() {
		v = g.invokeWithoutCommand
	})
	return v
}
