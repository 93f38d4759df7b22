package migration

import (
	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	"github.com/billforge/billforge/internal/config"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	disputedomain "github.com/billforge/billforge/internal/dispute/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/seed"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres dialects (sqlite for local development, mysql)
			// fall back to schema sync from the models.
			if err := conn.AutoMigrate(
				&customerdomain.Customer{},
				&feedomain.Fee{},
				&feedomain.FeeTier{},
				&usagedomain.UsageRecord{},
				&adhocdomain.AdhocCharge{},
				&disputedomain.Dispute{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)
