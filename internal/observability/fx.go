package observability

import (
	"github.com/smallbiznis/giftcert/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(metrics.New),
	fx.Invoke(registerTracing),
)
