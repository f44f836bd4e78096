package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/librarybot/core/config"
	"github.com/m3rciful/librarybot/core/logger"
	tghelpers "github.com/m3rciful/librarybot/core/telegram/helpers"
	tgsender "github.com/m3rciful/librarybot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup   bool
	DisableHelperDispatcher bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram builds the bot, wires middlewares and routes, and serves
// updates until ctx is done. OnStop always runs after the bot stopped and
// before queued replies are drained.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return errors.New("telegram: nil config provided")
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  opts.Config.Telegram.Token,
		Poller: BuildPoller(opts.Config),
		Client: BuildHTTPClient(),
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	announceMode(bot, opts.Config, !opts.DisableWebhookCleanup, time.Since(start))

	rt, release := opts.runtime()
	defer release()

	wire(bot, opts)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	err = serve(ctx, bot)
	if opts.OnStop != nil {
		if stopErr := opts.OnStop(context.WithoutCancel(ctx), rt); stopErr != nil {
			return stopErr
		}
	}
	return err
}

// runtime starts the outbound dispatcher and returns a release func that
// drains it and logs its totals.
func (o RunOptions) runtime() (Runtime, func()) {
	d := o.Dispatcher
	if d == nil {
		d = tgsender.NewDispatcher(o.DispatcherOptions)
	}
	helpers := !o.DisableHelperDispatcher
	if helpers {
		tghelpers.SetDispatcher(d)
	}
	release := func() {
		d.Close()
		if helpers {
			tghelpers.SetDispatcher(nil)
		}
		st := d.Stats()
		logger.TG.Info("sender drained",
			slog.String("event", "sender.stats"),
			slog.Uint64("sent", st.Sent),
			slog.Uint64("failed", st.Failed),
		)
	}
	return Runtime{Dispatcher: d, Registry: o.Registry}, release
}

func wire(bot *tele.Bot, opts RunOptions) {
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			bot.Handle(r.Endpoint, r.Handler)
		}
	}
	InitBotCommands(bot, opts.Registry)
}

// serve runs the poller until ctx is done or the bot stops on its own.
// Cancellation is a clean shutdown.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		if err := ctx.Err(); !errors.Is(err, context.Canceled) {
			return err
		}
	case <-done:
	}
	return nil
}
