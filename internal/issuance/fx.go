package issuance

import (
	"github.com/smallbiznis/giftcert/internal/issuance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("issuance",
	fx.Provide(service.NewService),
)
