package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartnerProfile is the denormalized read-model handed to chat formatting,
// AI analysis and report rendering. It is what gets cached, so the JSON
// shape is the cache wire format.
type PartnerProfile struct {
	Inn         string            `json:"inn"`
	LegalName   string            `json:"legal_name"`
	TradeName   string            `json:"trade_name"`
	PartnerType PartnerType       `json:"partner_type"`
	Category    string            `json:"category"`
	Competitor  string            `json:"competitor"`
	Contacts    ProfileContacts   `json:"contacts"`
	Website     string            `json:"website"`
	Addresses   []string          `json:"addresses"`
	Financials  ProfileFinancials `json:"financials"`
	Codes       ProfileCodes      `json:"codes"`
	Ratings     ProfileRatings    `json:"ratings"`
	Metadata    ProfileMetadata   `json:"metadata"`
}

type ProfileContacts struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Ceo   string `json:"ceo"`
	Cfo   string `json:"cfo"`
}

type ProfileFinancials struct {
	Revenue2023   decimal.Decimal    `json:"revenue_2023"`
	Revenue2022   decimal.Decimal    `json:"revenue_2022"`
	Profit2023    decimal.Decimal    `json:"profit_2023"`
	FoundingYear  int                `json:"founding_year"`
	EmployeeCount int                `json:"employee_count"`
	Turnovers     []*ProfileTurnover `json:"turnovers"`
}

type ProfileTurnover struct {
	Year               int             `json:"year"`
	Quarter            int             `json:"quarter"`
	Revenue            decimal.Decimal `json:"revenue"`
	Profit             decimal.Decimal `json:"profit"`
	TransactionCount   int             `json:"transaction_count"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
}

type ProfileCodes struct {
	Industry string `json:"industry"`
	Okved    string `json:"okved"`
}

type ProfileRatings struct {
	Rating       float64   `json:"rating"`
	RiskLevel    RiskLevel `json:"risk_level"`
	PaymentTerms string    `json:"payment_terms"`
}

type ProfileMetadata struct {
	LastAudit *time.Time `json:"last_audit"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// GetPartnerProfile is the cache-aside read path.
//
// Cache hit returns immediately with no store round-trip. On miss the
// partner row and its turnover history are read and assembled, and the
// profile is written back with the configured lifespan. An absent partner
// is never cached (no negative caching), and a store failure on the primary
// lookup surfaces as ErrorRecordNotFound after logging. A cache write
// failure never aborts the read.
func GetPartnerProfile(ctx context.Context, inn string) (*PartnerProfile, error) {
	cacheKey := profileCacheKey(inn)

	var cached PartnerProfile
	if hit, err := cacheStore.GetObject(ctx, cacheKey, &cached); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "GetPartnerProfile", "cache read "+inn, nil, err)
	} else if hit {
		return &cached, nil
	}

	var partner Partner
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("inn = ?", inn).First(&partner).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogError(ctx, config.GetLogger(), "models", "GetPartnerProfile", "store read "+inn, nil, err)
		}
		return nil, utils.ErrorRecordNotFound
	}

	turnovers, err := ListTurnovers(ctx, inn)
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "GetPartnerProfile", "turnovers "+inn, nil, err)
		return nil, utils.ErrorRecordNotFound
	}

	profile := assembleProfile(&partner, turnovers)

	if err := cacheStore.SetObject(ctx, cacheKey, profile, GetCacheLifespan()); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "GetPartnerProfile", "cache write "+inn, nil, err)
	}

	return profile, nil
}

func assembleProfile(partner *Partner, turnovers []*Turnover) *PartnerProfile {
	profileTurnovers := make([]*ProfileTurnover, 0, len(turnovers))
	for _, t := range turnovers {
		profileTurnovers = append(profileTurnovers, &ProfileTurnover{
			Year:               t.Year,
			Quarter:            t.Quarter,
			Revenue:            t.Revenue,
			Profit:             t.Profit,
			TransactionCount:   t.TransactionCount,
			AverageTransaction: t.AverageTransaction,
		})
	}

	addresses := []string(partner.Addresses)
	if addresses == nil {
		addresses = []string{}
	}

	return &PartnerProfile{
		Inn:         partner.Inn,
		LegalName:   partner.LegalName,
		TradeName:   partner.TradeName,
		PartnerType: partner.PartnerType,
		Category:    partner.Category,
		Competitor:  partner.Competitor,
		Contacts: ProfileContacts{
			Email: partner.Email,
			Phone: partner.Phone,
			Ceo:   partner.CeoName,
			Cfo:   partner.CfoName,
		},
		Website:   partner.Website,
		Addresses: addresses,
		Financials: ProfileFinancials{
			Revenue2023:   partner.Revenue2023,
			Revenue2022:   partner.Revenue2022,
			Profit2023:    partner.Profit2023,
			FoundingYear:  partner.FoundingYear,
			EmployeeCount: partner.EmployeeCount,
			Turnovers:     profileTurnovers,
		},
		Codes: ProfileCodes{
			Industry: partner.IndustryCode,
			Okved:    partner.OkvedCode,
		},
		Ratings: ProfileRatings{
			Rating:       partner.Rating,
			RiskLevel:    partner.RiskLevel,
			PaymentTerms: partner.PaymentTerms,
		},
		Metadata: ProfileMetadata{
			LastAudit: partner.LastAuditDate,
			CreatedAt: partner.CreatedAt,
			UpdatedAt: partner.UpdatedAt,
		},
	}
}

// DisplayName prefers the trade name for user-facing output.
func (p *PartnerProfile) DisplayName() string {
	if p.TradeName != "" {
		return p.TradeName
	}
	return p.LegalName
}
