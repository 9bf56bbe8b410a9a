package payment

import (
	"github.com/smallbiznis/giftcert/internal/payment/repository"
	"github.com/smallbiznis/giftcert/internal/payment/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.Provide),
	fx.Provide(webhook.NewService),
)
