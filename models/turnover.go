package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/utils"
	"github.com/shopspring/decimal"
)

// Turnover is one financial period of a partner. Quarter 0 means a whole
// year record.
type Turnover struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	PartnerInn         string          `gorm:"size:20;not null;index:idx_partner_year,priority:1" json:"partner_inn" binding:"required"`
	Year               int             `gorm:"not null;index:idx_partner_year,priority:2" json:"year" binding:"required"`
	Quarter            int             `gorm:"default:0" json:"quarter"`
	Revenue            decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"revenue"`
	Profit             decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"profit"`
	TransactionCount   int             `gorm:"default:0" json:"transaction_count"`
	AverageTransaction decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"average_transaction"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTurnover struct {
	PartnerInn         string          `json:"partner_inn" binding:"required"`
	Year               int             `json:"year" binding:"required"`
	Quarter            int             `json:"quarter"`
	Revenue            decimal.Decimal `json:"revenue"`
	Profit             decimal.Decimal `json:"profit"`
	TransactionCount   int             `json:"transaction_count"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
}

func CreateTurnover(ctx context.Context, input *NewTurnover) (*Turnover, error) {
	if input.Quarter < 0 || input.Quarter > 4 {
		return nil, errors.New("quarter must be between 0 and 4")
	}
	// owning partner must exist; the FK cascade depends on it
	if err := utils.ValidateResourceExists[Partner](ctx, "inn = ?", input.PartnerInn); err != nil {
		return nil, err
	}

	turnover := &Turnover{
		PartnerInn:         input.PartnerInn,
		Year:               input.Year,
		Quarter:            input.Quarter,
		Revenue:            input.Revenue,
		Profit:             input.Profit,
		TransactionCount:   input.TransactionCount,
		AverageTransaction: input.AverageTransaction,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(turnover).Error; err != nil {
		return nil, err
	}

	invalidateProfileCache(ctx, input.PartnerInn)
	return turnover, nil
}

// ListTurnovers returns the partner's periods newest first.
func ListTurnovers(ctx context.Context, inn string) ([]*Turnover, error) {
	var turnovers []*Turnover
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("partner_inn = ?", inn).
		Order("year desc, quarter desc").
		Find(&turnovers).Error
	if err != nil {
		return nil, err
	}
	return turnovers, nil
}
