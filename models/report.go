package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/utils"
	"gorm.io/gorm"
)

// GeneratedReport is the lifecycle record of one rendered artifact. It is
// created once at generation time; only the download fields mutate after.
type GeneratedReport struct {
	ID               int        `gorm:"primary_key" json:"id"`
	ReportUuid       string     `gorm:"size:36;uniqueIndex;not null" json:"report_uuid"`
	PartnerInn       string     `gorm:"size:20;not null;index:idx_user_partner,priority:2" json:"partner_inn"`
	TelegramUserId   int64      `gorm:"not null;index:idx_user_partner,priority:1" json:"telegram_user_id"`
	ReportType       ReportType `gorm:"size:10;not null;default:'word'" json:"report_type"`
	ReportPath       string     `gorm:"size:500" json:"report_path"`
	FileSizeBytes    int64      `json:"file_size_bytes"`
	AiAnalysis       string     `gorm:"type:text" json:"ai_analysis"`
	GenerationTimeMs int64      `json:"generation_time_ms"`
	Downloaded       *bool      `gorm:"not null;default:false" json:"downloaded"`
	DownloadCount    int        `gorm:"not null;default:0" json:"download_count"`
	LastDownloadedAt *time.Time `json:"last_downloaded_at"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

type NewGeneratedReport struct {
	PartnerInn       string     `json:"partner_inn"`
	TelegramUserId   int64      `json:"telegram_user_id"`
	ReportType       ReportType `json:"report_type"`
	ReportPath       string     `json:"report_path"`
	FileSizeBytes    int64      `json:"file_size_bytes"`
	AiAnalysis       string     `json:"ai_analysis"`
	GenerationTimeMs int64      `json:"generation_time_ms"`
}

// SaveGeneratedReport registers a rendered artifact and returns its uuid.
// It never raises: a store failure is logged and reported as an empty id so
// report delivery can still proceed.
func SaveGeneratedReport(ctx context.Context, input *NewGeneratedReport) string {
	reportType := input.ReportType
	if !reportType.IsValid() {
		reportType = ReportTypeWord
	}

	report := GeneratedReport{
		ReportUuid:       uuid.NewString(),
		PartnerInn:       input.PartnerInn,
		TelegramUserId:   input.TelegramUserId,
		ReportType:       reportType,
		ReportPath:       input.ReportPath,
		FileSizeBytes:    input.FileSizeBytes,
		AiAnalysis:       input.AiAnalysis,
		GenerationTimeMs: input.GenerationTimeMs,
		Downloaded:       utils.NewFalse(),
	}

	db := config.GetDB()
	if db == nil {
		return ""
	}
	if err := db.WithContext(ctx).Create(&report).Error; err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "SaveGeneratedReport", input.PartnerInn, nil, err)
		return ""
	}
	return report.ReportUuid
}

// IncrementReportDownload marks a report downloaded and bumps its counter.
// The counter update is a single atomic UPDATE, so concurrent downloads
// serialize at the store and the count never decreases. An unknown id is a
// no-op, not an error.
func IncrementReportDownload(ctx context.Context, reportUuid string) {
	db := config.GetDB()
	if db == nil {
		return
	}
	now := time.Now()
	err := db.WithContext(ctx).Model(&GeneratedReport{}).
		Where("report_uuid = ?", reportUuid).
		Updates(map[string]interface{}{
			"downloaded":         true,
			"download_count":     gorm.Expr("download_count + 1"),
			"last_downloaded_at": now,
		}).Error
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "IncrementReportDownload", reportUuid, nil, err)
	}
}

func GetGeneratedReport(ctx context.Context, reportUuid string) (*GeneratedReport, error) {
	var report GeneratedReport
	db := config.GetDB()
	err := db.WithContext(ctx).Where("report_uuid = ?", reportUuid).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &report, nil
}
