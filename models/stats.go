package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
)

type Statistics struct {
	TotalPartners      int64                `json:"total_partners"`
	PartnerTypes       map[string]int64     `json:"partner_types"`
	AverageRating      float64              `json:"average_rating"`
	RecentInteractions []*RecentInteraction `json:"recent_interactions"`
	GeneratedReports   ReportCounts         `json:"generated_reports"`
}

type RecentInteraction struct {
	User   string    `json:"user"`
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
}

type ReportCounts struct {
	Total      int64 `json:"total"`
	Downloaded int64 `json:"downloaded"`
}

const recentInteractionLimit = 10

// GetPartnerStatistics recomputes simple aggregates from the store, cached
// for a few minutes. Statistics may be stale by that bound. The days window
// bounds the recent-interaction list. Any aggregation failure yields an
// empty snapshot rather than propagating.
func GetPartnerStatistics(ctx context.Context, days int) *Statistics {
	cacheKey := statsCacheKey(days)

	var cached Statistics
	if hit, err := cacheStore.GetObject(ctx, cacheKey, &cached); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "GetPartnerStatistics", "cache read", nil, err)
	} else if hit {
		return &cached
	}

	stats, err := computeStatistics(ctx, days)
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "GetPartnerStatistics", "aggregate", nil, err)
		return emptyStatistics()
	}

	if err := cacheStore.SetObject(ctx, cacheKey, stats, statsCacheTTL); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "GetPartnerStatistics", "cache write", nil, err)
	}

	return stats
}

func computeStatistics(ctx context.Context, days int) (*Statistics, error) {
	db := config.GetDB()
	if days <= 0 {
		days = 30
	}
	windowStart := time.Now().AddDate(0, 0, -days)

	var totalPartners int64
	if err := db.WithContext(ctx).Model(&Partner{}).Count(&totalPartners).Error; err != nil {
		return nil, err
	}

	var typeCounts []struct {
		PartnerType string
		Count       int64
	}
	if err := db.WithContext(ctx).Model(&Partner{}).
		Select("partner_type, count(*) as count").
		Group("partner_type").
		Scan(&typeCounts).Error; err != nil {
		return nil, err
	}
	partnerTypes := make(map[string]int64, len(typeCounts))
	for _, tc := range typeCounts {
		partnerTypes[tc.PartnerType] = tc.Count
	}

	var avgRating *float64
	if err := db.WithContext(ctx).Model(&Partner{}).
		Select("avg(rating)").
		Scan(&avgRating).Error; err != nil {
		return nil, err
	}

	var interactions []*BotInteraction
	if err := db.WithContext(ctx).
		Where("created_at >= ?", windowStart).
		Order("created_at desc").
		Limit(recentInteractionLimit).
		Find(&interactions).Error; err != nil {
		return nil, err
	}
	recent := make([]*RecentInteraction, 0, len(interactions))
	for _, i := range interactions {
		recent = append(recent, &RecentInteraction{
			User:   strings.TrimSpace(i.FirstName + " " + i.LastName),
			Action: i.ActionType,
			Time:   i.CreatedAt,
		})
	}

	var totalReports int64
	if err := db.WithContext(ctx).Model(&GeneratedReport{}).Count(&totalReports).Error; err != nil {
		return nil, err
	}
	var downloadedReports int64
	if err := db.WithContext(ctx).Model(&GeneratedReport{}).
		Where("downloaded = ?", true).
		Count(&downloadedReports).Error; err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalPartners:      totalPartners,
		PartnerTypes:       partnerTypes,
		RecentInteractions: recent,
		GeneratedReports: ReportCounts{
			Total:      totalReports,
			Downloaded: downloadedReports,
		},
	}
	if avgRating != nil {
		stats.AverageRating = *avgRating
	}
	return stats, nil
}

func emptyStatistics() *Statistics {
	return &Statistics{
		PartnerTypes:       map[string]int64{},
		RecentInteractions: []*RecentInteraction{},
	}
}
