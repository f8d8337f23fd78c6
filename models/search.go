package models

import (
	"context"

	"github.com/mmdatafocus/partner_backend/config"
)

type PartnerSummary struct {
	Inn         string      `json:"inn"`
	LegalName   string      `json:"legal_name"`
	TradeName   string      `json:"trade_name"`
	Category    string      `json:"category"`
	PartnerType PartnerType `json:"partner_type"`
	Rating      float64     `json:"rating"`
}

// SearchPartners unions an INN substring match with a name substring match,
// deduplicates by INN (first occurrence wins) and truncates to limit AFTER
// deduplication. The order is the store's iteration order; this is a legacy
// approximation, not a ranked search, and is preserved as-is.
func SearchPartners(ctx context.Context, query string, limit int) []*PartnerSummary {
	if limit <= 0 {
		limit = config.SearchLimit
	}
	cacheKey := searchCacheKey(query, limit)

	var cached []*PartnerSummary
	if hit, err := cacheStore.GetObject(ctx, cacheKey, &cached); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "SearchPartners", "cache read "+query, nil, err)
	} else if hit {
		return cached
	}

	db := config.GetDB()
	pattern := "%" + query + "%"

	var innMatches []*Partner
	if err := db.WithContext(ctx).
		Where("inn LIKE ?", pattern).
		Limit(limit).
		Find(&innMatches).Error; err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "SearchPartners", "inn match "+query, nil, err)
		return []*PartnerSummary{}
	}

	var nameMatches []*Partner
	if err := db.WithContext(ctx).
		Where("legal_name LIKE ? OR trade_name LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&nameMatches).Error; err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "SearchPartners", "name match "+query, nil, err)
		return []*PartnerSummary{}
	}

	seen := make(map[string]bool)
	results := make([]*PartnerSummary, 0, limit)
	for _, p := range append(innMatches, nameMatches...) {
		if seen[p.Inn] {
			continue
		}
		seen[p.Inn] = true
		results = append(results, &PartnerSummary{
			Inn:         p.Inn,
			LegalName:   p.LegalName,
			TradeName:   p.TradeName,
			Category:    p.Category,
			PartnerType: p.PartnerType,
			Rating:      p.Rating,
		})
		if len(results) == limit {
			break
		}
	}

	if err := cacheStore.SetObject(ctx, cacheKey, results, searchCacheTTL); err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "SearchPartners", "cache write "+query, nil, err)
	}

	return results
}
