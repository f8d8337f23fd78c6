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

type Partner struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Inn           string          `gorm:"size:20;uniqueIndex;not null" json:"inn" binding:"required"`
	LegalName     string          `gorm:"size:255;not null" json:"legal_name" binding:"required"`
	TradeName     string          `gorm:"size:255" json:"trade_name"`
	PartnerType   PartnerType     `gorm:"size:20;index;not null;default:'current'" json:"partner_type"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Competitor    string          `gorm:"size:255" json:"competitor"`
	Email         string          `gorm:"size:255" json:"email"`
	Phone         string          `gorm:"size:50" json:"phone"`
	CeoName       string          `gorm:"size:255" json:"ceo_name"`
	CfoName       string          `gorm:"size:255" json:"cfo_name"`
	Website       string          `gorm:"size:255" json:"website"`
	Addresses     StringList      `gorm:"type:text" json:"addresses"`
	Revenue2023   decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"revenue_2023"`
	Revenue2022   decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"revenue_2022"`
	Profit2023    decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"profit_2023"`
	FoundingYear  int             `json:"founding_year"`
	EmployeeCount int             `json:"employee_count"`
	IndustryCode  string          `gorm:"size:10" json:"industry_code"`
	OkvedCode     string          `gorm:"size:20" json:"okved_code"`
	Rating        float64         `gorm:"default:0" json:"rating"`
	RiskLevel     RiskLevel       `gorm:"size:20" json:"risk_level"`
	PaymentTerms  string          `gorm:"size:50" json:"payment_terms"`
	LastAuditDate *time.Time      `json:"last_audit_date"`
	Turnovers     []*Turnover     `gorm:"foreignKey:PartnerInn;references:Inn;constraint:OnDelete:CASCADE" json:"-"`
	Reports       []*GeneratedReport `gorm:"foreignKey:PartnerInn;references:Inn;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPartner struct {
	Inn           string          `json:"inn" binding:"required"`
	LegalName     string          `json:"legal_name" binding:"required"`
	TradeName     string          `json:"trade_name"`
	PartnerType   PartnerType     `json:"partner_type"`
	Category      string          `json:"category"`
	Competitor    string          `json:"competitor"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	CeoName       string          `json:"ceo_name"`
	CfoName       string          `json:"cfo_name"`
	Website       string          `json:"website"`
	Addresses     []string        `json:"addresses"`
	Revenue2023   decimal.Decimal `json:"revenue_2023"`
	Revenue2022   decimal.Decimal `json:"revenue_2022"`
	Profit2023    decimal.Decimal `json:"profit_2023"`
	FoundingYear  int             `json:"founding_year"`
	EmployeeCount int             `json:"employee_count"`
	IndustryCode  string          `json:"industry_code"`
	OkvedCode     string          `json:"okved_code"`
	Rating        float64         `json:"rating"`
	RiskLevel     RiskLevel       `json:"risk_level"`
	PaymentTerms  string          `json:"payment_terms"`
	LastAuditDate *time.Time      `json:"last_audit_date"`
}

func (input *NewPartner) validate(ctx context.Context, id int) error {
	if !utils.ValidateINN(input.Inn) {
		return errors.New("invalid inn")
	}
	// validate unique inn
	if err := utils.ValidateUnique[Partner](ctx, "inn", input.Inn, id); err != nil {
		return err
	}
	if input.PartnerType == "" {
		input.PartnerType = PartnerTypeCurrent
	}
	if !input.PartnerType.IsValid() {
		return errors.New("invalid partner type")
	}
	if input.RiskLevel != "" && !input.RiskLevel.IsValid() {
		return errors.New("invalid risk level")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	if input.Rating < 0 || input.Rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}

func (input *NewPartner) toModel() *Partner {
	return &Partner{
		Inn:           input.Inn,
		LegalName:     input.LegalName,
		TradeName:     input.TradeName,
		PartnerType:   input.PartnerType,
		Category:      input.Category,
		Competitor:    input.Competitor,
		Email:         input.Email,
		Phone:         input.Phone,
		CeoName:       input.CeoName,
		CfoName:       input.CfoName,
		Website:       input.Website,
		Addresses:     StringList(input.Addresses),
		Revenue2023:   input.Revenue2023,
		Revenue2022:   input.Revenue2022,
		Profit2023:    input.Profit2023,
		FoundingYear:  input.FoundingYear,
		EmployeeCount: input.EmployeeCount,
		IndustryCode:  input.IndustryCode,
		OkvedCode:     input.OkvedCode,
		Rating:        input.Rating,
		RiskLevel:     input.RiskLevel,
		PaymentTerms:  input.PaymentTerms,
		LastAuditDate: input.LastAuditDate,
	}
}

func CreatePartner(ctx context.Context, input *NewPartner) (*Partner, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	partner := input.toModel()
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(partner).Error; err != nil {
		return nil, err
	}
	return partner, nil
}

func UpdatePartner(ctx context.Context, id int, input *NewPartner) (*Partner, error) {
	if err := utils.ValidateResourceExists[Partner](ctx, "id = ?", id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	partner := input.toModel()
	partner.ID = id
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(partner).Error; err != nil {
		return nil, err
	}

	invalidateProfileCache(ctx, partner.Inn)
	return partner, nil
}

func DeletePartner(ctx context.Context, id int) (*Partner, error) {
	var partner Partner
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	// Turnovers and report records cascade at the store level.
	if err := db.WithContext(ctx).Delete(&partner).Error; err != nil {
		return nil, err
	}

	invalidateProfileCache(ctx, partner.Inn)
	return &partner, nil
}

func GetPartnerByInn(ctx context.Context, inn string) (*Partner, error) {
	var partner Partner
	db := config.GetDB()
	err := db.WithContext(ctx).Where("inn = ?", inn).First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// invalidateProfileCache drops the cached profile after a direct partner
// mutation. Best-effort: invalidation failure only extends staleness within
// the TTL bound.
func invalidateProfileCache(ctx context.Context, inn string) {
	if err := cacheStore.Remove(ctx, profileCacheKey(inn)); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "invalidateProfileCache", inn, nil, err)
	}
}
