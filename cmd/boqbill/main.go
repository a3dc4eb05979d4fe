package main

import (
	"github.com/boqbill/boqbill/internal/bill"
	"github.com/boqbill/boqbill/internal/billtemplate"
	"github.com/boqbill/boqbill/internal/category"
	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/company"
	"github.com/boqbill/boqbill/internal/config"
	"github.com/boqbill/boqbill/internal/migration"
	"github.com/boqbill/boqbill/internal/observability"
	"github.com/boqbill/boqbill/internal/payment"
	"github.com/boqbill/boqbill/internal/pricing"
	"github.com/boqbill/boqbill/internal/product"
	"github.com/boqbill/boqbill/internal/providers"
	"github.com/boqbill/boqbill/internal/server"
	"github.com/boqbill/boqbill/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		company.Module,
		category.Module,
		product.Module,
		pricing.Module,
		billtemplate.Module,
		bill.Module,
		payment.Module,
		providers.Module,

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
