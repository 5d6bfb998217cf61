package discmd

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

//interactionWindow is how long an interaction accepts follow-ups after its
//first acknowledgment, a reply exactly on the boundary still counts as
//inside the window
const interactionWindow = 15 * time.Minute

//SendOptions carries the optional parts of Send and Reply
//Nonce, StickerIDs, Reference and MentionAuthor only apply to the plain
//channel transport and are dropped silently on interaction transports
type SendOptions struct {
	TTS             bool
	Embeds          []*discordgo.MessageEmbed
	Components      []discordgo.MessageComponent
	Files           []*discordgo.File
	AllowedMentions *discordgo.MessageAllowedMentions
	Reference       *discordgo.MessageReference
	StickerIDs      []string
	Nonce           string
	//MentionAuthor controls whether a reply pings the replied-to author
	MentionAuthor *bool

	//Ephemeral hides the response from everyone but the invoker, it only
	//has an effect on interaction transports
	Ephemeral bool
	//Lightweight signals the caller has no use for the returned message,
	//allowing the initial-response transport which cannot produce one
	Lightweight bool
}

type sendRoute uint8

const (
	routeChannel sendRoute = iota
	routeInitial
	routeFollowup
)

//resolveSendRoute is the transport decision table for Send:
//no session, or a session acknowledged longer than the window ago, goes to
//the plain channel; a lightweight send on an unacknowledged session without
//files or custom mentions can use the one-shot initial response; everything
//else goes through the follow-up webhook
func resolveSendRoute(ic *InteractionSession, now time.Time, o *SendOptions) sendRoute {
	if ic == nil {
		return routeChannel
	}
	if at := ic.RespondedAt(); at != nil && now.Sub(*at) > interactionWindow {
		return routeChannel
	}
	if o.Lightweight && !ic.IsDone() && len(o.Files) == 0 && o.AllowedMentions == nil {
		return routeInitial
	}
	return routeFollowup
}

//Send delivers content to wherever the invocation came from, routing
//between the plain channel transport and the interaction transports
//the returned message is nil on the lightweight initial-response path
func (c *Context) Send(content string, opts *SendOptions) (*discordgo.Message, error) {
	o := SendOptions{}
	if opts != nil {
		o = *opts
	}
	switch resolveSendRoute(c.Interaction, time.Now(), &o) {
	case routeInitial:
		return nil, c.Interaction.Respond(&discordgo.InteractionResponseData{
			Content:    content,
			TTS:        o.TTS,
			Embeds:     o.Embeds,
			Components: o.Components,
			Flags:      ephemeralFlags(o.Ephemeral),
		})
	case routeFollowup:
		if !c.Interaction.IsDone() {
			//defer first, the follow-up webhook needs an acknowledgment
			if err := c.Interaction.Defer(o.Ephemeral); err != nil {
				return nil, err
			}
		}
		return c.Interaction.Followup(&discordgo.WebhookParams{
			Content:         content,
			TTS:             o.TTS,
			Embeds:          o.Embeds,
			Components:      o.Components,
			Files:           o.Files,
			AllowedMentions: o.AllowedMentions,
			Flags:           ephemeralFlags(o.Ephemeral),
		})
	default:
		send := &discordgo.MessageSend{
			Content:         content,
			TTS:             o.TTS,
			Embeds:          o.Embeds,
			Components:      o.Components,
			Files:           o.Files,
			AllowedMentions: o.AllowedMentions,
			Reference:       o.Reference,
			StickerIDs:      o.StickerIDs,
			Nonce:           o.Nonce,
		}
		if o.MentionAuthor != nil {
			mentions := discordgo.MessageAllowedMentions{}
			if send.AllowedMentions != nil {
				mentions = *send.AllowedMentions
			}
			mentions.RepliedUser = *o.MentionAuthor
			send.AllowedMentions = &mentions
		}
		return c.Bot.rest().ChannelMessageSendComplex(c.Message.ChannelID, send)
	}
}

//Reply is Send with a reference back at the triggering message, the
//reference is dropped on interaction transports like any other
func (c *Context) Reply(content string, opts *SendOptions) (*discordgo.Message, error) {
	o := SendOptions{}
	if opts != nil {
		o = *opts
	}
	o.Reference = c.Message.Reference()
	return c.Send(content, &o)
}

func ephemeralFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

//InteractionSession tracks the response lifecycle of one interaction, most
//importantly when (and whether) the initial acknowledgment happened since
//that decides which transports remain usable
type InteractionSession struct {
	api         restAPI
	interaction *discordgo.Interaction
	m           sync.Mutex
	respondedAt *time.Time
}

func newInteractionSession(api restAPI, interaction *discordgo.Interaction) *InteractionSession {
	return &InteractionSession{api: api, interaction: interaction}
}

func (ic *InteractionSession) Interaction() *discordgo.Interaction {
	return ic.interaction
}

//RespondedAt is when the initial response was recorded, nil before then
func (ic *InteractionSession) RespondedAt() *time.Time {
	ic.m.Lock()
	defer ic.m.Unlock()
	if ic.respondedAt == nil {
		return nil
	}
	t := *ic.respondedAt
	return &t
}

func (ic *InteractionSession) IsDone() bool {
	ic.m.Lock()
	defer ic.m.Unlock()
	return ic.respondedAt != nil
}

//Defer issues a deferred acknowledgment, opening the follow-up channel
func (ic *InteractionSession) Defer(ephemeral bool) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := ic.api.InteractionRespond(ic.interaction, resp); err != nil {
		return err
	}
	ic.markResponded()
	return nil
}

//Respond sends the initial response, it can only succeed once and cannot
//return the created message
func (ic *InteractionSession) Respond(data *discordgo.InteractionResponseData) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
	if err := ic.api.InteractionRespond(ic.interaction, resp); err != nil {
		return err
	}
	ic.markResponded()
	return nil
}

//Followup sends through the follow-up webhook, valid only after the
//initial acknowledgment
func (ic *InteractionSession) Followup(params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return ic.api.FollowupMessageCreate(ic.interaction, true, params)
}

func (ic *InteractionSession) markResponded() {
	withMutex(&ic.m, func() {
		if ic.respondedAt == nil {
			now := time.Now()
			ic.respondedAt = &now
		}
	})
}

//setRespondedAt backdates the acknowledgment, used by tests to exercise
//the window boundary
func (ic *InteractionSession) setRespondedAt(t time.Time) {
	withMutex(&ic.m, func() {
		ic.respondedAt = &t
	})
}
