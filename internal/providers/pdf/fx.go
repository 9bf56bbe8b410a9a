package pdf

import (
	paymentdomain "github.com/smallbiznis/giftcert/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideRenderer(log *zap.Logger) paymentdomain.ArtifactRenderer {
	return NewCertificateRenderer(log)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(provideRenderer),
)
