package telegram

import (
	"context"

	"github.com/smallbiznis/giftcert/internal/config"
	paymentdomain "github.com/smallbiznis/giftcert/internal/payment/domain"
	"go.uber.org/fx"
)

func provideDeliverer(b *Bot) paymentdomain.Deliverer { return b }

// registerWebhook points Telegram at this deployment's public URL for the
// lifetime of the process.
func registerWebhook(lc fx.Lifecycle, b *Bot, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			return b.SetWebhook(cfg.BaseURL + cfg.Telegram.WebhookPath)
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return b.DeleteWebhook()
		},
	})
}

var Module = fx.Module("telegram",
	fx.Provide(NewBot),
	fx.Provide(NewIntake),
	fx.Provide(provideDeliverer),
	fx.Invoke(registerWebhook),
)
