package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/giftcert/internal/clock"
	"github.com/smallbiznis/giftcert/internal/config"
	"github.com/smallbiznis/giftcert/internal/issuance"
	"github.com/smallbiznis/giftcert/internal/ledger"
	"github.com/smallbiznis/giftcert/internal/logger"
	"github.com/smallbiznis/giftcert/internal/migration"
	"github.com/smallbiznis/giftcert/internal/observability"
	"github.com/smallbiznis/giftcert/internal/payment"
	"github.com/smallbiznis/giftcert/internal/providers/pdf"
	"github.com/smallbiznis/giftcert/internal/server"
	"github.com/smallbiznis/giftcert/internal/telegram"
	"github.com/smallbiznis/giftcert/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		ledger.Module,
		issuance.Module,
		pdf.Module,
		telegram.Module,
		payment.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
