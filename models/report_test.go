package models_test

import (
	"context"
	"testing"

	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/models"
)

func saveReport(t *testing.T, inn string) string {
	t.Helper()
	reportUuid := models.SaveGeneratedReport(context.Background(), &models.NewGeneratedReport{
		PartnerInn:       inn,
		TelegramUserId:   42,
		ReportType:       models.ReportTypeExcel,
		ReportPath:       "documents/partner_report_" + inn + ".xlsx",
		FileSizeBytes:    2048,
		GenerationTimeMs: 150,
	})
	if reportUuid == "" {
		t.Fatal("SaveGeneratedReport returned empty uuid")
	}
	return reportUuid
}

func TestSaveGeneratedReport_RoundTrip(t *testing.T) {
	setupTestDB(t)
	setupCache(t)
	ctx := context.Background()

	seedPartner(t, "7707049388", "Global Tech Solutions LLC", "")
	reportUuid := saveReport(t, "7707049388")

	report, err := models.GetGeneratedReport(ctx, reportUuid)
	if err != nil {
		t.Fatalf("GetGeneratedReport: %v", err)
	}
	if report.PartnerInn != "7707049388" {
		t.Errorf("PartnerInn = %q", report.PartnerInn)
	}
	if report.ReportType != models.ReportTypeExcel {
		t.Errorf("ReportType = %q", report.ReportType)
	}
	if report.Downloaded == nil || *report.Downloaded {
		t.Error("fresh report must not be marked downloaded")
	}
	if report.DownloadCount != 0 {
		t.Errorf("DownloadCount = %d", report.DownloadCount)
	}
	if report.LastDownloadedAt != nil {
		t.Error("LastDownloadedAt must start unset")
	}
}

func TestSaveGeneratedReport_NeverRaises(t *testing.T) {
	db := setupTestDB(t)
	setupCache(t)

	// A missing store must be silent, not fatal.
	config.SetDB(nil)
	defer config.SetDB(db)

	reportUuid := models.SaveGeneratedReport(context.Background(), &models.NewGeneratedReport{
		PartnerInn: "7707049388",
	})
	if reportUuid != "" {
		t.Errorf("uuid = %q, want empty on store failure", reportUuid)
	}
}

func TestIncrementReportDownload_CountsAtomically(t *testing.T) {
	setupTestDB(t)
	setupCache(t)
	ctx := context.Background()

	seedPartner(t, "7707049388", "Global Tech Solutions LLC", "")
	reportUuid := saveReport(t, "7707049388")

	for i := 0; i < 3; i++ {
		models.IncrementReportDownload(ctx, reportUuid)
	}

	report, err := models.GetGeneratedReport(ctx, reportUuid)
	if err != nil {
		t.Fatalf("GetGeneratedReport: %v", err)
	}
	if report.DownloadCount != 3 {
		t.Errorf("DownloadCount = %d, want 3", report.DownloadCount)
	}
	if report.Downloaded == nil || !*report.Downloaded {
		t.Error("report must be marked downloaded")
	}
	if report.LastDownloadedAt == nil {
		t.Error("LastDownloadedAt must be set")
	}
}

func TestIncrementReportDownload_UnknownIdIsNoop(t *testing.T) {
	setupTestDB(t)
	setupCache(t)
	ctx := context.Background()

	seedPartner(t, "7707049388", "Global Tech Solutions LLC", "")
	reportUuid := saveReport(t, "7707049388")

	models.IncrementReportDownload(ctx, "00000000-0000-0000-0000-000000000000")

	report, err := models.GetGeneratedReport(ctx, reportUuid)
	if err != nil {
		t.Fatalf("GetGeneratedReport: %v", err)
	}
	if report.DownloadCount != 0 {
		t.Errorf("DownloadCount = %d, want 0", report.DownloadCount)
	}
}
