package migration

import (
	billdomain "github.com/boqbill/boqbill/internal/bill/domain"
	templatedomain "github.com/boqbill/boqbill/internal/billtemplate/domain"
	categorydomain "github.com/boqbill/boqbill/internal/category/domain"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	"github.com/boqbill/boqbill/internal/config"
	paymentdomain "github.com/boqbill/boqbill/internal/payment/domain"
	pricingdomain "github.com/boqbill/boqbill/internal/pricing/domain"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	"github.com/boqbill/boqbill/internal/seed"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are dev conveniences; let gorm build the schema.
			if err := conn.AutoMigrate(
				&companydomain.Company{},
				&categorydomain.Category{},
				&productdomain.Product{},
				&pricingdomain.Pricing{},
				&templatedomain.BillTemplate{},
				&billdomain.Bill{},
				&paymentdomain.Payment{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoCatalog {
			return seed.EnsureDemoCatalog(conn, genID)
		}
		return nil
	}),
)
