package discmd

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

//HelpCommand renders help for the bot, a cog, a group or a single command
//render errors are reported to OnHelpError instead of the SendHelp caller
type HelpCommand interface {
	//SendBotHelp receives every visible command grouped by cog, commands
	//outside any cog appear under the nil key
	SendBotHelp(ctx *Context, mapping map[*Cog][]Command) error
	SendCogHelp(ctx *Context, cog *Cog) error
	SendGroupHelp(ctx *Context, group *Group) error
	SendCommandHelp(ctx *Context, cmd Command) error
	OnHelpError(ctx *Context, err error)
}

type helpTarget uint8

const (
	helpTargetUnknown helpTarget = iota
	helpTargetBot
	helpTargetCog
	helpTargetGroup
	helpTargetCommand
)

//resolveHelpTarget classifies a help entity once, up front
//strings resolve as a cog name first, then as a command name
func resolveHelpTarget(b *Bot, entity interface{}) (helpTarget, *Cog, Command) {
	switch v := entity.(type) {
	case nil:
		return helpTargetBot, nil, nil
	case string:
		if cog, ok := b.Cog(v); ok {
			return helpTargetCog, cog, nil
		}
		if cmd, ok := b.Command(v); ok {
			return classifyCommand(cmd)
		}
	case *Cog:
		if v != nil {
			return helpTargetCog, v, nil
		}
	case Command:
		if v != nil {
			return classifyCommand(v)
		}
	}
	return helpTargetUnknown, nil, nil
}

func classifyCommand(cmd Command) (helpTarget, *Cog, Command) {
	//a nil pointer boxed in the interface compares non-nil, treat it as
	//unresolvable rather than handing renderers a nil command
	if v := reflect.ValueOf(cmd); v.Kind() == reflect.Ptr && v.IsNil() {
		return helpTargetUnknown, nil, nil
	}
	if g, ok := cmd.(*Group); ok {
		return helpTargetGroup, nil, g
	}
	return helpTargetCommand, nil, cmd
}

//SendHelp renders help for the given entity via the bot's help command
//entity may be nil for the whole bot, a string looked up as cog then
//command, or a Cog/Group/Command value, anything unresolvable yields nil
//with nothing sent and render errors never reach the caller
func (c *Context) SendHelp(entity interface{}) error {
	help := c.Bot.HelpCommand()
	if help == nil {
		return nil
	}
	var err error
	switch target, cog, cmd := resolveHelpTarget(c.Bot, entity); target {
	case helpTargetBot:
		err = help.SendBotHelp(c, c.Bot.helpMapping())
	case helpTargetCog:
		err = help.SendCogHelp(c, cog)
	case helpTargetGroup:
		err = help.SendGroupHelp(c, cmd.(*Group))
	case helpTargetCommand:
		err = help.SendCommandHelp(c, cmd)
	default:
		return nil
	}
	if err != nil {
		help.OnHelpError(c, err)
	}
	return nil
}

//DefaultHelp is a minimal plain-text HelpCommand
type DefaultHelp struct {
	//NoCategory titles the section of commands that belong to no cog
	NoCategory string
}

var _ HelpCommand = (*DefaultHelp)(nil)

func NewDefaultHelp() *DefaultHelp {
	return &DefaultHelp{NoCategory: "No Category"}
}

func (h *DefaultHelp) SendBotHelp(ctx *Context, mapping map[*Cog][]Command) error {
	var b strings.Builder
	names := make([]string, 0, len(mapping))
	sections := make(map[string][]Command, len(mapping))
	for cog, cmds := range mapping {
		if len(cmds) == 0 {
			continue
		}
		title := h.NoCategory
		if cog != nil {
			title = cog.Name()
		}
		names = append(names, title)
		sections[title] = cmds
	}
	sort.Strings(names)
	for _, title := range names {
		b.WriteString("**")
		b.WriteString(title)
		b.WriteString("**\n")
		writeCommandLines(&b, sections[title])
	}
	_, err := ctx.Send(b.String(), nil)
	return err
}

func (h *DefaultHelp) SendCogHelp(ctx *Context, cog *Cog) error {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(cog.Name())
	b.WriteString("**\n")
	if cog.Description() != "" {
		b.WriteString(cog.Description())
		b.WriteString("\n")
	}
	writeCommandLines(&b, cog.Commands())
	_, err := ctx.Send(b.String(), nil)
	return err
}

func (h *DefaultHelp) SendGroupHelp(ctx *Context, group *Group) error {
	var b strings.Builder
	writeCommandHeader(&b, group)
	subs := group.Subcommands()
	if len(subs) > 0 {
		b.WriteString("\nSubcommands:\n")
		writeCommandLines(&b, subs)
	}
	_, err := ctx.Send(b.String(), nil)
	return err
}

func (h *DefaultHelp) SendCommandHelp(ctx *Context, cmd Command) error {
	var b strings.Builder
	writeCommandHeader(&b, cmd)
	_, err := ctx.Send(b.String(), nil)
	return err
}

func (h *DefaultHelp) OnHelpError(ctx *Context, err error) {
	_, _ = ctx.Send(fmt.Sprintf("Failed to show help: %v", err), nil)
}

func writeCommandHeader(b *strings.Builder, cmd Command) {
	b.WriteString("**")
	b.WriteString(cmd.QualifiedName())
	b.WriteString("**")
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(aliases, ", "))
		b.WriteString(")")
	}
	b.WriteString("\n")
	if cmd.Description() != "" {
		b.WriteString(cmd.Description())
		b.WriteString("\n")
	}
}

func writeCommandLines(b *strings.Builder, cmds []Command) {
	sorted := append([]Command(nil), cmds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	for _, cmd := range sorted {
		b.WriteString("  ")
		b.WriteString(cmd.Name())
		if cmd.Description() != "" {
			b.WriteString(" - ")
			b.WriteString(cmd.Description())
		}
		b.WriteString("\n")
	}
}
