package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/classerase/discmd"
)

type config struct {
	Token  string `env:"DISCORD_TOKEN,required"`
	Prefix string `env:"PREFIX" envDefault:"!"`
	Debug  bool   `env:"DEBUG"`
}

func main() {
	_ = godotenv.Load() //optional .env, real environment wins
	cfg, err := env.ParseAs[config]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !cfg.Debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	b := discmd.NewBot(discmd.WhenMentionedOr(cfg.Prefix))
	b.SetLogger(logger)
	b.SetErrorHandler(func(ctx *discmd.Context, err error) {
		logger.Error().Err(err).Msg("command failed")
		_, _ = ctx.Reply(fmt.Sprintf("Something went wrong: %v", err), nil)
	})
	addCommands(b)

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating session")
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
	b.RegisterSession(s)

	if err := s.Open(); err != nil {
		logger.Fatal().Err(err).Msg("opening session")
	}
	defer s.Close()
	logger.Info().Str("prefix", cfg.Prefix).Msg("bot running, interrupt to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info().Msg("interrupt received, stopping bot")
}

func addCommands(b *discmd.Bot) {
	discmd.MustAddCommand(b, discmd.MustNewExecutor("ping", "Show gateway latency",
		func(ctx *discmd.Context) error {
			start := time.Now()
			if _, err := ctx.Reply("Pong!", nil); err != nil {
				return err
			}
			_, err := ctx.Send(fmt.Sprintf("Round trip took %v, heartbeat latency %v",
				time.Since(start), ctx.Bot.Session().HeartbeatLatency()), nil)
			return err
		}))

	discmd.MustAddCommand(b, discmd.MustNewExecutor("echo", "Repeat the rest of the message",
		func(ctx *discmd.Context) error {
			ctx.View.SkipWS()
			rest := ctx.View.ReadRest()
			if rest == "" {
				rest = "...nothing to echo"
			}
			_, err := ctx.Send(rest, nil)
			return err
		}).SetAliases("say"))

	discmd.MustAddCommand(b, discmd.MustNewExecutor("help", "Show help for a command or cog",
		func(ctx *discmd.Context) error {
			ctx.View.SkipWS()
			if name := ctx.View.GetWord(); name != "" {
				return ctx.SendHelp(name)
			}
			return ctx.SendHelp(nil)
		}))

	mood := discmd.MustNewGroup("mood", "Express a mood",
		func(ctx *discmd.Context) error {
			_, err := ctx.Send("Try: mood happy, mood grim", nil)
			return err
		})
	mood.SetInvokeWithoutCommand(true)
	mood.AddSubcommand(discmd.MustNewExecutor("happy", "Cheer up the channel",
		func(ctx *discmd.Context) error {
			_, err := ctx.Send(":D", nil)
			return err
		}))
	mood.AddSubcommand(discmd.MustNewExecutor("grim", "The opposite",
		func(ctx *discmd.Context) error {
			_, err := ctx.Send(":|", nil)
			return err
		}))
	discmd.MustAddCommand(b, mood)
}
