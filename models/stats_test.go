package models_test

import (
	"context"
	"testing"

	"github.com/mmdatafocus/partner_backend/models"
)

func TestGetPartnerStatistics_Aggregates(t *testing.T) {
	setupTestDB(t)
	setupCache(t)
	ctx := context.Background()

	seedPartner(t, "7707049388", "Global Tech Solutions LLC", "")
	seedPartner(t, "7830002293", "Eco Manufacturing JSC", "")

	models.LogInteraction(ctx, models.UserInfo{Id: 42, FirstName: "Anna", LastName: "Petrova"}, models.ActionData{
		ActionType: models.ActionSearch,
		Success:    true,
	})

	first := models.SaveGeneratedReport(ctx, &models.NewGeneratedReport{
		PartnerInn:     "7707049388",
		TelegramUserId: 42,
		ReportType:     models.ReportTypeExcel,
	})
	if first == "" {
		t.Fatal("SaveGeneratedReport returned empty uuid")
	}
	second := models.SaveGeneratedReport(ctx, &models.NewGeneratedReport{
		PartnerInn:     "7830002293",
		TelegramUserId: 42,
		ReportType:     models.ReportTypeExcel,
	})
	models.IncrementReportDownload(ctx, second)

	stats := models.GetPartnerStatistics(ctx, 30)
	if stats.TotalPartners != 2 {
		t.Errorf("TotalPartners = %d, want 2", stats.TotalPartners)
	}
	if stats.PartnerTypes[string(models.PartnerTypeStrategic)] != 2 {
		t.Errorf("PartnerTypes = %v", stats.PartnerTypes)
	}
	if stats.AverageRating != 4.5 {
		t.Errorf("AverageRating = %v, want 4.5", stats.AverageRating)
	}
	if len(stats.RecentInteractions) != 1 {
		t.Fatalf("RecentInteractions = %d entries", len(stats.RecentInteractions))
	}
	if got := stats.RecentInteractions[0]; got.User != "Anna Petrova" || got.Action != models.ActionSearch {
		t.Errorf("recent interaction = %+v", got)
	}
	if stats.GeneratedReports.Total != 2 || stats.GeneratedReports.Downloaded != 1 {
		t.Errorf("GeneratedReports = %+v", stats.GeneratedReports)
	}
}

func TestGetPartnerStatistics_SnapshotIsCached(t *testing.T) {
	setupTestDB(t)
	setupCache(t)
	ctx := context.Background()

	seedPartner(t, "7707049388", "Global Tech Solutions LLC", "")

	first := models.GetPartnerStatistics(ctx, 30)
	if first.TotalPartners != 1 {
		t.Fatalf("TotalPartners = %d, want 1", first.TotalPartners)
	}

	seedPartner(t, "7830002293", "Eco Manufacturing JSC", "")

	cached := models.GetPartnerStatistics(ctx, 30)
	if cached.TotalPartners != 1 {
		t.Errorf("cached TotalPartners = %d, want stale 1", cached.TotalPartners)
	}

	// A different window is a different cache key and sees the new row.
	fresh := models.GetPartnerStatistics(ctx, 7)
	if fresh.TotalPartners != 2 {
		t.Errorf("fresh TotalPartners = %d, want 2", fresh.TotalPartners)
	}
}

func TestGetPartnerStatistics_EmptyStore(t *testing.T) {
	setupTestDB(t)
	setupCache(t)

	stats := models.GetPartnerStatistics(context.Background(), 30)
	if stats.TotalPartners != 0 {
		t.Errorf("TotalPartners = %d", stats.TotalPartners)
	}
	if stats.PartnerTypes == nil || stats.RecentInteractions == nil {
		t.Error("empty snapshot must have non-nil collections")
	}
	if stats.GeneratedReports.Total != 0 || stats.GeneratedReports.Downloaded != 0 {
		t.Errorf("GeneratedReports = %+v", stats.GeneratedReports)
	}
}
