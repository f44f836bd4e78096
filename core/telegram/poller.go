package telegram

import (
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/librarybot/core/config"
	"github.com/m3rciful/librarybot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10 * time.Second

func isWebhook(cfg *coreconfig.Config) bool {
	return strings.EqualFold(strings.TrimSpace(cfg.Telegram.RunMode), coreconfig.RunModeWebhook)
}

func longPollTimeout(cfg *coreconfig.Config) time.Duration {
	if s := cfg.Telegram.LongPollTimeoutSeconds; s > 0 {
		return time.Duration(s) * time.Second
	}
	return defaultLongPollTimeout
}

// BuildPoller returns a webhook listener in webhook mode and a long poller otherwise.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if isWebhook(cfg) {
		return &tele.Webhook{
			Listen:   net.JoinHostPort(cfg.Webhook.Listen, strconv.Itoa(cfg.Webhook.Port)),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{Timeout: longPollTimeout(cfg)}
}

// announceMode logs the chosen update source. In polling mode it also drops a
// webhook left over from an earlier deployment, since Telegram refuses
// getUpdates while one is set.
func announceMode(bot *tele.Bot, cfg *coreconfig.Config, cleanup bool, took time.Duration) {
	if wh, ok := bot.Poller.(*tele.Webhook); ok {
		logger.TG.Info("webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", "webhook"),
			slog.String("listen", wh.Listen),
			slog.String("public_url", wh.Endpoint.PublicURL),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return
	}

	logger.TG.Info("polling mode",
		slog.String("event", "mode"),
		slog.String("mode", "polling"),
		slog.Int("timeout_seconds", int(longPollTimeout(cfg)/time.Second)),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	if !cleanup {
		return
	}
	if err := bot.RemoveWebhook(false); err != nil {
		logger.TG.Warn("failed to delete webhook",
			slog.String("event", "delete_webhook"),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TG.Info("webhook deleted", slog.String("event", "delete_webhook"), slog.String("status", "ok"))
}
