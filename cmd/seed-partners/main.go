// seed-partners loads the demo partner set for local runs.
//
// Usage (from backend directory):
//   DB_DRIVER=sqlite go run ./cmd/seed-partners
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-partners
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/models"
	"github.com/mmdatafocus/partner_backend/utils"
	"github.com/shopspring/decimal"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	utils.ErrorPanic(models.MigrateTable())

	// No Redis connection: seeding goes straight to the store and content
	// becomes visible on the next cache miss.
	models.SetCacheStore(models.NoopCache{})

	lastAudit := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	partners := []*models.NewPartner{
		{
			Inn:           "7707049388",
			LegalName:     "Global Tech Solutions LLC",
			TradeName:     "Global Tech Solutions",
			PartnerType:   models.PartnerTypeStrategic,
			Category:      "IT Services",
			Competitor:    "TechVision Group",
			Email:         "contact@globaltech.example",
			Phone:         "+7 495 123-45-67",
			CeoName:       "Andrey Volkov",
			CfoName:       "Elena Sorokina",
			Website:       "https://globaltech.example",
			Addresses:     []string{"Moscow, Tverskaya st. 12", "St. Petersburg, Nevsky pr. 88"},
			Revenue2023:   decimal.NewFromInt(1_000_000),
			Revenue2022:   decimal.NewFromInt(800_000),
			Profit2023:    decimal.NewFromInt(150_000),
			FoundingYear:  2008,
			EmployeeCount: 450,
			IndustryCode:  "62",
			OkvedCode:     "62.01",
			Rating:        4.5,
			RiskLevel:     models.RiskLevelLow,
			PaymentTerms:  "Net30",
			LastAuditDate: &lastAudit,
		},
		{
			Inn:           "7830002293",
			LegalName:     "Eco Manufacturing JSC",
			TradeName:     "Eco Manufacturing",
			PartnerType:   models.PartnerTypeCurrent,
			Category:      "Manufacturing",
			Email:         "office@ecomfg.example",
			Phone:         "+7 812 987-65-43",
			CeoName:       "Olga Petrova",
			Addresses:     []string{"St. Petersburg, Industrialny pr. 3"},
			Revenue2023:   decimal.NewFromInt(2_400_000),
			Revenue2022:   decimal.NewFromInt(2_600_000),
			Profit2023:    decimal.NewFromInt(310_000),
			FoundingYear:  1998,
			EmployeeCount: 1200,
			IndustryCode:  "22",
			OkvedCode:     "22.21",
			Rating:        3.8,
			RiskLevel:     models.RiskLevelMedium,
			PaymentTerms:  "Net45",
		},
	}

	turnovers := []*models.NewTurnover{
		{PartnerInn: "7707049388", Year: 2023, Quarter: 4, Revenue: decimal.NewFromInt(1_000_000), Profit: decimal.NewFromInt(150_000), TransactionCount: 320, AverageTransaction: decimal.NewFromInt(3125)},
		{PartnerInn: "7707049388", Year: 2022, Quarter: 4, Revenue: decimal.NewFromInt(800_000), Profit: decimal.NewFromInt(120_000), TransactionCount: 290, AverageTransaction: decimal.NewFromInt(2758)},
		{PartnerInn: "7830002293", Year: 2023, Quarter: 0, Revenue: decimal.NewFromInt(2_400_000), Profit: decimal.NewFromInt(310_000), TransactionCount: 1500, AverageTransaction: decimal.NewFromInt(1600)},
	}

	for _, p := range partners {
		if _, err := models.CreatePartner(ctx, p); err != nil {
			fmt.Fprintf(os.Stderr, "skip partner %s: %v\n", p.Inn, err)
			continue
		}
		fmt.Printf("seeded partner %s (%s)\n", p.Inn, p.TradeName)
	}
	for _, t := range turnovers {
		if _, err := models.CreateTurnover(ctx, t); err != nil {
			fmt.Fprintf(os.Stderr, "skip turnover %s %d Q%d: %v\n", t.PartnerInn, t.Year, t.Quarter, err)
		}
	}
}
