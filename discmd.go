package discmd

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

//restAPI is the slice of discordgo.Session the framework talks to, kept
//narrow so every network path stays testable
type restAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

var _ restAPI = (*discordgo.Session)(nil)

//Bot owns the command registry and builds an invocation context for every
//incoming message or application command interaction
type Bot struct {
	s   *discordgo.Session
	api restAPI
	st  *discordgo.State

	prefix   PrefixResolver
	commands map[string]Command
	cogs     map[string]*Cog
	help     HelpCommand
	parser   Parser

	errHandler ErrorHandler
	before     Hook
	after      Hook
	log        zerolog.Logger

	removers []func()
	m        sync.RWMutex
}

func NewBot(prefix PrefixResolver) *Bot {
	return &Bot{
		prefix:   prefix,
		commands: map[string]Command{},
		cogs:     map[string]*Cog{},
		help:     NewDefaultHelp(),
		log:      zerolog.Nop(),
	}
}

//RegisterSession attaches the bot to a gateway session, wiring the message
//and interaction handlers
func (b *Bot) RegisterSession(s *discordgo.Session) {
	b.m.Lock()
	defer b.m.Unlock()
	b.s = s
	b.api = s
	b.st = s.State
	b.removers = append(b.removers,
		s.AddHandler(b.handleMessage),
		s.AddHandler(b.handleInteraction),
	)
}

func (b *Bot) Close() error {
	b.m.Lock()
	defer b.m.Unlock()
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	b.commands = nil
	b.cogs = nil
	b.s = nil
	b.api = nil
	b.st = nil
	return nil
}

func (b *Bot) Session() *discordgo.Session {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.s
}

func (b *Bot) rest() restAPI {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.api
}

func (b *Bot) state() *discordgo.State {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.st
}

func (b *Bot) SetLogger(log zerolog.Logger) {
	b.m.Lock()
	defer b.m.Unlock()
	b.log = log
}

func (b *Bot) logger() zerolog.Logger {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.log
}

//SetErrorHandler routes dispatch errors to fn instead of the logger
func (b *Bot) SetErrorHandler(fn ErrorHandler) {
	b.m.Lock()
	defer b.m.Unlock()
	b.errHandler = fn
}

//SetParser supplies the external argument parser consulted before every
//callback invocation
func (b *Bot) SetParser(p Parser) {
	b.m.Lock()
	defer b.m.Unlock()
	b.parser = p
}

func (b *Bot) Parser() Parser {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.parser
}

//SetHelpCommand replaces the help renderer, nil disables help entirely
func (b *Bot) SetHelpCommand(h HelpCommand) {
	b.m.Lock()
	defer b.m.Unlock()
	b.help = h
}

func (b *Bot) HelpCommand() HelpCommand {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.help
}

func (b *Bot) SetBeforeInvoke(h Hook) {
	b.m.Lock()
	defer b.m.Unlock()
	b.before = h
}

func (b *Bot) SetAfterInvoke(h Hook) {
	b.m.Lock()
	defer b.m.Unlock()
	b.after = h
}

func (b *Bot) beforeHook() Hook {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.before
}

func (b *Bot) afterHook() Hook {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.after
}

func (b *Bot) handleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	b.Process(m.Message)
}

//Process runs the full dispatch pipeline for one message
func (b *Bot) Process(msg *discordgo.Message) {
	b.Invoke(b.GetContext(msg))
}

//GetContext builds the invocation context for a message: match a prefix,
//read the invoking word and resolve it against the registry
//the context is returned even when invalid so callers can inspect it
func (b *Bot) GetContext(msg *discordgo.Message) *Context {
	view := NewStringView(msg.Content)
	ctx := &Context{
		Message: msg,
		Bot:     b,
		View:    view,
		Kwargs:  map[string]interface{}{},
	}
	resolver := b.prefixResolver()
	if resolver == nil {
		return ctx
	}
	for _, prefix := range resolver(b, msg) {
		prefix := prefix
		if view.SkipString(prefix) {
			ctx.Prefix = &prefix
			break
		}
	}
	if ctx.Prefix == nil {
		return ctx
	}
	invoker := view.GetWord()
	ctx.InvokedWith = &invoker
	ctx.Command, _ = b.Command(invoker)
	return ctx
}

//Invoke dispatches a prepared context, errors flow to the error handler or
//the logger and flip CommandFailed
func (b *Bot) Invoke(ctx *Context) {
	switch {
	case ctx.Command != nil:
		if err := ctx.Command.Invoke(ctx); err != nil {
			ctx.CommandFailed = true
			b.dispatchError(ctx, err)
		}
	case ctx.Prefix != nil && strDeref(ctx.InvokedWith) != "":
		ctx.CommandFailed = true
		b.dispatchError(ctx, CommandNotFoundError{Name: strDeref(ctx.InvokedWith)})
	}
}

func (b *Bot) dispatchError(ctx *Context, err error) {
	if h := b.errorHandler(); h != nil {
		h(ctx, err)
		return
	}
	name := ""
	if ctx.Command != nil {
		name = ctx.Command.QualifiedName()
	}
	log := b.logger()
	log.Error().Err(err).Str("command", name).Msg("command dispatch failed")
}

func (b *Bot) errorHandler() ErrorHandler {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.errHandler
}

func (b *Bot) prefixResolver() PrefixResolver {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.prefix
}

//handleInteraction lets application commands share the registry: the
//interaction is wrapped in a session-tracked context whose Send routes
//through the interaction transports
func (b *Bot) handleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	cmd, ok := b.Command(data.Name)
	if !ok {
		return
	}
	b.Invoke(b.interactionContext(i, data.Name, cmd))
}

func (b *Bot) interactionContext(i *discordgo.InteractionCreate, name string, cmd Command) *Context {
	user := i.User
	if i.Member != nil {
		user = i.Member.User
	}
	content := "/" + name
	msg := &discordgo.Message{
		ID:        i.ID,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		Author:    user,
		Member:    i.Member,
		Content:   content,
	}
	view := NewStringView(content)
	prefix := "/"
	view.SkipString(prefix)
	invoker := view.GetWord()
	return &Context{
		Message:     msg,
		Bot:         b,
		View:        view,
		Kwargs:      map[string]interface{}{},
		Prefix:      &prefix,
		InvokedWith: &invoker,
		Command:     cmd,
		Interaction: newInteractionSession(b.rest(), i.Interaction),
	}
}

//StaticPrefix accepts a fixed set of prefixes
func StaticPrefix(prefixes ...string) PrefixResolver {
	return func(*Bot, *discordgo.Message) []string {
		return prefixes
	}
}

//WhenMentionedOr accepts a mention of the bot alongside the given prefixes
func WhenMentionedOr(prefixes ...string) PrefixResolver {
	return func(b *Bot, _ *discordgo.Message) []string {
		st := b.state()
		if st == nil || st.User == nil {
			return prefixes
		}
		res := make([]string, 0, len(prefixes)+2)
		res = append(res, "<@"+st.User.ID+"> ", "<@!"+st.User.ID+"> ")
		return append(res, prefixes...)
	}
}
