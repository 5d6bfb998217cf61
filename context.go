package discmd

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/net/context"
)

//Context carries the state of one command invocation, it is created by the
//bot for each dispatch, mutated throughout the parse and invoke pipeline
//and handed to the command callback as its first argument
type Context struct {
	//Message is the message that triggered the invocation, treated as
	//immutable for the lifetime of the context
	Message *discordgo.Message
	Bot     *Bot
	//View is the parse cursor into Message.Content, shared with the parser
	View *StringView

	//Args and Kwargs hold converted argument values, they may be partially
	//populated when observed inside an error handler
	Args   []interface{}
	Kwargs map[string]interface{}

	//Prefix is the matched invocation prefix, nil when nothing matched
	Prefix *string
	//Command is the resolved command, nil when no command matched
	Command Command

	//InvokedWith is the literal name or alias that matched
	InvokedWith *string
	//InvokedParents lists the group names walked to reach Command
	InvokedParents []string
	//InvokedSubcommand is the subcommand actually dispatched, if any
	InvokedSubcommand Command
	//SubcommandPassed is the raw word the user supplied attempting to name
	//a subcommand, it need not be valid
	SubcommandPassed *string

	CommandFailed bool
	//CurrentParameter is the parameter under conversion, only meaningful
	//inside parser callbacks
	CurrentParameter *Parameter

	//Interaction is set only when the invocation originated from an
	//interaction rather than a plain message
	Interaction *InteractionSession

	ctx context.Context

	guildOnce   sync.Once
	guild       *discordgo.Guild
	channelOnce sync.Once
	channel     *discordgo.Channel
	authorOnce  sync.Once
	author      *discordgo.User
	meOnce      sync.Once
	me          *discordgo.Member
}

//Valid reports whether the context can be invoked, requiring both a matched
//prefix and a resolved command
func (c *Context) Valid() bool {
	return c.Prefix != nil && c.Command != nil
}

func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) SetCtx(ctx context.Context) {
	if ctx == nil {
		panic("nil context")
	}
	c.ctx = ctx
}

//Guild is the guild the invocation happened in, nil for direct messages
//the projection is computed once and cached for the context's lifetime
func (c *Context) Guild() *discordgo.Guild {
	c.guildOnce.Do(func() {
		if c.Message == nil || c.Message.GuildID == "" {
			return
		}
		st := c.botState()
		if st == nil {
			return
		}
		if g, err := st.Guild(c.Message.GuildID); err == nil {
			c.guild = g
		}
	})
	return c.guild
}

//Channel is the channel the invocation happened in, cached like Guild
//an unknown channel yields a stub carrying only the id
func (c *Context) Channel() *discordgo.Channel {
	c.channelOnce.Do(func() {
		if c.Message == nil {
			return
		}
		if st := c.botState(); st != nil {
			if ch, err := st.Channel(c.Message.ChannelID); err == nil {
				c.channel = ch
				return
			}
		}
		c.channel = &discordgo.Channel{ID: c.Message.ChannelID, Type: discordgo.ChannelTypeDM}
	})
	return c.channel
}

//Author is the user that triggered the invocation, cached like Guild
func (c *Context) Author() *discordgo.User {
	c.authorOnce.Do(func() {
		if c.Message == nil {
			return
		}
		c.author = c.Message.Author
	})
	return c.author
}

//Me is the bot's own identity, the guild member when a guild is present and
//the bot user wrapped in a member otherwise, cached like Guild
func (c *Context) Me() *discordgo.Member {
	c.meOnce.Do(func() {
		st := c.botState()
		if st == nil || st.User == nil {
			return
		}
		self := st.User
		if g := c.Guild(); g != nil {
			if m, err := st.Member(g.ID, self.ID); err == nil {
				c.me = m
				return
			}
			c.me = &discordgo.Member{GuildID: g.ID, User: self}
			return
		}
		c.me = &discordgo.Member{User: self}
	})
	return c.me
}

func (c *Context) botState() *discordgo.State {
	if c.Bot == nil {
		return nil
	}
	return c.Bot.state()
}

//Cog is the cog owning the resolved command, nil when there is none
func (c *Context) Cog() *Cog {
	if c.Command == nil {
		return nil
	}
	return c.Command.Cog()
}

//CleanPrefix renders the prefix with bot mentions replaced by a readable
//@name form
func (c *Context) CleanPrefix() string {
	if c.Prefix == nil {
		return ""
	}
	me := c.Me()
	if me == nil || me.User == nil {
		return *c.Prefix
	}
	name := me.User.Username
	if me.Nick != "" {
		name = me.Nick
	}
	return strings.NewReplacer(
		"<@"+me.User.ID+">", "@"+name,
		"<@!"+me.User.ID+">", "@"+name,
	).Replace(*c.Prefix)
}

//AuthorPermissions resolves the author's effective permissions in the
//current channel, never cached since channel permissions can change
func (c *Context) AuthorPermissions() (int64, error) {
	author := c.Author()
	if author == nil {
		return 0, InvalidContextError{missing: "author"}
	}
	return c.Bot.rest().UserChannelPermissions(author.ID, c.Message.ChannelID)
}

//Invoke calls a command's callback directly with the given arguments,
//bypassing parsing, middleware chains, and hooks
//keyword values ride on Kwargs, callers must supply already-converted
//arguments matching the callback signature
func (c *Context) Invoke(cmd Command, args ...interface{}) error {
	if cmd == nil {
		return InvalidContextError{missing: "command to invoke"}
	}
	return cmd.callWith(c, args, c.Kwargs)
}

//Reinvoke runs the resolved command again, restart begins the chain from
//the root parent with the view reset to just past the prefix, otherwise the
//current command resumes from wherever parsing left off
//every invocation-identity field touched here is restored on all exit
//paths, so a failed reinvocation leaves no trace on the context
func (c *Context) Reinvoke(callHooks bool, restart bool) error {
	cmd := c.Command
	view := c.View
	if cmd == nil {
		return InvalidContextError{missing: "command to reinvoke"}
	}

	index, previous := view.Index, view.Previous
	invokedWith := c.InvokedWith
	invokedSubcommand := c.InvokedSubcommand
	invokedParents := c.InvokedParents
	subcommandPassed := c.SubcommandPassed

	toCall := cmd
	if restart {
		if root := cmd.RootParent(); root != nil {
			toCall = root
		}
		view.Index = len(strDeref(c.Prefix))
		view.Previous = 0
		c.InvokedParents = nil
		word := view.GetWord() //advance past the root token
		c.InvokedWith = &word
	}

	defer func() {
		c.Command = cmd
		view.Index = index
		view.Previous = previous
		c.InvokedWith = invokedWith
		c.InvokedSubcommand = invokedSubcommand
		c.InvokedParents = invokedParents
		c.SubcommandPassed = subcommandPassed
	}()
	return toCall.Reinvoke(c, callHooks)
}
