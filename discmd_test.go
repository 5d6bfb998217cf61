package discmd

import (
	"github.com/bwmarrin/discordgo"
)

type channelSend struct {
	channelID string
	data      *discordgo.MessageSend
}

//fakeREST records every call the framework makes over the restAPI surface
type fakeREST struct {
	sends     []channelSend
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
	permCalls [][2]string
	perms     []int64

	sendErr    error
	respondErr error
}

var _ restAPI = (*fakeREST)(nil)

func (f *fakeREST) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sends = append(f.sends, channelSend{channelID: channelID, data: data})
	return &discordgo.Message{ID: "sent", ChannelID: channelID, Content: data.Content}, nil
}

func (f *fakeREST) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if f.respondErr != nil {
		return f.respondErr
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeREST) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{ID: "followup", Content: data.Content}, nil
}

func (f *fakeREST) UserChannelPermissions(userID, channelID string, _ ...discordgo.RequestOption) (int64, error) {
	f.permCalls = append(f.permCalls, [2]string{userID, channelID})
	if len(f.perms) == 0 {
		return 0, nil
	}
	p := f.perms[0]
	f.perms = f.perms[1:]
	return p, nil
}

func newTestBot(api restAPI) *Bot {
	b := NewBot(StaticPrefix("!"))
	b.api = api
	b.st = discordgo.NewState()
	return b
}

func testMessage(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m1",
		ChannelID: "chan1",
		Author:    &discordgo.User{ID: "author1", Username: "tester"},
		Content:   content,
	}
}

func strptr(s string) *string {
	return &s
}
