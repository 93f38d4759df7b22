// Package seed loads demo billing data for local evaluation.
package seed

import (
	"context"
	"errors"
	"time"

	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const demoClientReference = "acme-corp"

// EnsureDemoData seeds a demo client with a small fee catalog and matching
// usage so a fresh install can generate a non-empty invoice immediately.
// Re-running is a no-op once the demo client exists.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&customerdomain.Customer{}).
			Where("client_reference = ?", demoClientReference).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		customer := &customerdomain.Customer{
			ID:              node.Generate(),
			ClientReference: demoClientReference,
			Name:            "Acme Corp",
			Currency:        "USD",
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Create(customer).Error; err != nil {
			return err
		}

		start := feedomain.NewDate(now.Year(), time.January, 1)

		transactionFee := &feedomain.Fee{
			ID:           node.Generate(),
			Enabled:      true,
			ClientID:     customer.ID,
			ProductID:    "payments",
			Type:         "TRANSACTION_PROCESSING",
			Category:     feedomain.CategoryCore,
			StartDate:    start,
			Frequency:    feedomain.FrequencyMonthly,
			FeeStructure: feedomain.StructureTiered,
			Currency:     "USD",
			Description:  "Monthly transaction processing",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		transactionFee.FeeTiers = []feedomain.FeeTier{
			{ID: node.Generate(), FeeID: transactionFee.ID, LowerBound: 0, UpperBound: 99, Amount: decimal.RequireFromString("2.50"), CreatedAt: now},
			{ID: node.Generate(), FeeID: transactionFee.ID, LowerBound: 100, UpperBound: 999, Amount: decimal.RequireFromString("2.00"), CreatedAt: now},
			{ID: node.Generate(), FeeID: transactionFee.ID, LowerBound: 1000, UpperBound: 999999, Amount: decimal.RequireFromString("1.50"), CreatedAt: now},
		}
		if err := tx.Create(transactionFee).Error; err != nil {
			return err
		}

		managementRate := decimal.RequireFromString("5")
		managementFee := &feedomain.Fee{
			ID:           node.Generate(),
			Enabled:      true,
			ClientID:     customer.ID,
			ProductID:    "advisory",
			Type:         "ASSET_MANAGEMENT",
			Category:     feedomain.CategoryAddOn,
			StartDate:    start,
			Frequency:    feedomain.FrequencyMonthly,
			FeeStructure: feedomain.StructurePercentage,
			Currency:     "USD",
			Description:  "Percentage of managed assets",
			Amount:       &managementRate,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(managementFee).Error; err != nil {
			return err
		}

		platformRate := decimal.RequireFromString("99.00")
		platformFee := &feedomain.Fee{
			ID:           node.Generate(),
			Enabled:      true,
			ClientID:     customer.ID,
			ProductID:    "platform",
			Type:         "PLATFORM_ACCESS",
			Category:     feedomain.CategoryPassthrough,
			StartDate:    start,
			Frequency:    feedomain.FrequencyMonthly,
			FeeStructure: feedomain.StructureFlat,
			Currency:     "USD",
			Description:  "Flat monthly platform access",
			Amount:       &platformRate,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(platformFee).Error; err != nil {
			return err
		}

		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		usage := []usagedomain.UsageRecord{
			{
				ID:         node.Generate(),
				CustomerID: customer.ID,
				MeterCode:  "TRANSACTION_PROCESSING",
				Quantity:   150,
				RecordedAt: monthStart.Add(24 * time.Hour),
				CreatedAt:  now,
			},
			{
				ID:         node.Generate(),
				CustomerID: customer.ID,
				MeterCode:  "ASSET_MANAGEMENT",
				Quantity:   1,
				Amount:     decimal.RequireFromString("1000.00"),
				RecordedAt: monthStart.Add(48 * time.Hour),
				CreatedAt:  now,
			},
			{
				ID:         node.Generate(),
				CustomerID: customer.ID,
				MeterCode:  "PLATFORM_ACCESS",
				Quantity:   1,
				RecordedAt: monthStart.Add(72 * time.Hour),
				CreatedAt:  now,
			},
		}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}

		training := &adhocdomain.AdhocCharge{
			ID:           node.Generate(),
			CustomerID:   customer.ID,
			Category:     "PROFESSIONAL_SERVICES",
			Name:         "Onboarding training",
			Basis:        "PER_SESSION",
			FeeStructure: "FLAT",
			Amount:       decimal.RequireFromString("500.00"),
			Currency:     "USD",
			ChargeDate:   feedomain.DateOf(monthStart.Add(96 * time.Hour)),
			Status:       adhocdomain.ChargeStatusApproved,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(training).Error
	})
}
