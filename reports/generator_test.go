package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/partner_backend/analysis"
	"github.com/mmdatafocus/partner_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func testProfile() *models.PartnerProfile {
	return &models.PartnerProfile{
		Inn:         "7707049388",
		LegalName:   "Global Tech Solutions LLC",
		TradeName:   "Global Tech Solutions",
		PartnerType: models.PartnerTypeStrategic,
		Category:    "IT Services",
		Contacts: models.ProfileContacts{
			Email: "contact@globaltech.ru",
			Ceo:   "Ivan Ivanov",
		},
		Addresses: []string{"Moscow, Tverskaya st. 1"},
		Financials: models.ProfileFinancials{
			Revenue2023: decimal.NewFromInt(1_000_000),
			Revenue2022: decimal.NewFromInt(800_000),
			Profit2023:  decimal.NewFromInt(150_000),
		},
		Ratings: models.ProfileRatings{
			Rating:    4.5,
			RiskLevel: models.RiskLevelLow,
		},
	}
}

func testAnalysis() *analysis.AnalysisResult {
	return &analysis.AnalysisResult{
		Analysis: analysis.Analysis{
			FinancialAnalysis: map[string]any{"revenue_trend": "growing"},
			RiskAssessment: analysis.RiskAssessment{
				Level:   "Low",
				Factors: []string{"stable revenue"},
			},
			PartnershipPotential: analysis.PartnershipPotential{
				Score:         8,
				Opportunities: []string{"regional expansion"},
			},
			StrategicRecommendations: []string{"deepen partnership"},
			Summary:                  "A reliable strategic partner.",
		},
		Success: true,
	}
}

func renderedRows(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening artifact: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "|"))
	}
	return lines
}

func findRow(lines []string, substr string) string {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

func TestGeneratePartnerReport_RendersSections(t *testing.T) {
	dir := t.TempDir()

	artifact, err := GeneratePartnerReport(testProfile(), testAnalysis(), dir)
	if err != nil {
		t.Fatalf("GeneratePartnerReport: %v", err)
	}
	if artifact.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes = %d", artifact.FileSizeBytes)
	}
	if artifact.ReportType != models.ReportTypeExcel {
		t.Errorf("ReportType = %q", artifact.ReportType)
	}
	if !strings.HasPrefix(artifact.Filename, "partner_report_7707049388_") || !strings.HasSuffix(artifact.Filename, ".xlsx") {
		t.Errorf("Filename = %q", artifact.Filename)
	}

	lines := renderedRows(t, artifact.Filepath)
	if findRow(lines, "Partner report: Global Tech Solutions") == "" {
		t.Error("title missing")
	}
	if got := findRow(lines, "Revenue growth"); !strings.Contains(got, "+25.0%") {
		t.Errorf("growth row = %q, want +25.0%%", got)
	}
	if got := findRow(lines, "Level:"); !strings.Contains(got, "Low") {
		t.Errorf("risk row = %q", got)
	}
	if findRow(lines, "deepen partnership") == "" {
		t.Error("strategic recommendation missing")
	}
	if findRow(lines, "Moscow, Tverskaya st. 1") == "" {
		t.Error("address missing")
	}
	if got := findRow(lines, "Last audit"); !strings.Contains(got, "N/A") {
		t.Errorf("audit row = %q, want N/A without an audit date", got)
	}
	if findRow(lines, "Turnover history") != "" {
		t.Error("turnover section rendered without turnover records")
	}
	if findRow(lines, "Report generated automatically") == "" {
		t.Error("footer missing")
	}
}

func TestGeneratePartnerReport_TurnoverTable(t *testing.T) {
	dir := t.TempDir()

	profile := testProfile()
	lastAudit := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	profile.Metadata.LastAudit = &lastAudit
	profile.Financials.Turnovers = []*models.ProfileTurnover{
		{Year: 2023, Quarter: 4, Revenue: decimal.NewFromInt(1_000_000), Profit: decimal.NewFromInt(150_000)},
		{Year: 2023, Quarter: 0, Revenue: decimal.NewFromInt(2_400_000), Profit: decimal.NewFromInt(300_000)},
	}

	artifact, err := GeneratePartnerReport(profile, testAnalysis(), dir)
	if err != nil {
		t.Fatalf("GeneratePartnerReport: %v", err)
	}

	lines := renderedRows(t, artifact.Filepath)
	if findRow(lines, "Turnover history") == "" {
		t.Fatal("turnover section missing")
	}
	if got := findRow(lines, "1000000.00"); !strings.Contains(got, "2023|4") {
		t.Errorf("quarter row = %q", got)
	}
	if got := findRow(lines, "2400000.00"); !strings.Contains(got, "2023|Year") {
		t.Errorf("whole-year row = %q", got)
	}
	if got := findRow(lines, "Last audit"); !strings.Contains(got, "15.03.2024") {
		t.Errorf("audit row = %q", got)
	}
}

func TestGeneratePartnerReport_FallbackAnalysis(t *testing.T) {
	dir := t.TempDir()

	profile := testProfile()
	profile.Addresses = nil
	fallback := &analysis.AnalysisResult{
		Analysis: analysis.Analysis{
			FinancialAnalysis: map[string]any{"error": "Analysis failed"},
			RiskAssessment:    analysis.RiskAssessment{Level: "Unknown", Factors: []string{}, Recommendations: []string{}},
			PartnershipPotential: analysis.PartnershipPotential{
				Score: 5, Opportunities: []string{}, Threats: []string{},
			},
			StrategicRecommendations: []string{"Manual review of partner data required"},
			Summary:                  "Automatic analysis of partner data failed",
		},
	}

	artifact, err := GeneratePartnerReport(profile, fallback, dir)
	if err != nil {
		t.Fatalf("GeneratePartnerReport: %v", err)
	}

	lines := renderedRows(t, artifact.Filepath)
	if got := findRow(lines, "Level:"); !strings.Contains(got, "Unknown") {
		t.Errorf("risk row = %q", got)
	}
	if findRow(lines, "Analysis failed") != "" {
		t.Error("error entry must be skipped in financial analysis")
	}
	if findRow(lines, "Manual review of partner data required") == "" {
		t.Error("fallback recommendation missing")
	}
	if findRow(lines, "No addresses provided") == "" {
		t.Error("empty-address marker missing")
	}
}

func TestGeneratePartnerReport_UniqueFilenames(t *testing.T) {
	dir := t.TempDir()

	first, err := GeneratePartnerReport(testProfile(), testAnalysis(), dir)
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	second, err := GeneratePartnerReport(testProfile(), testAnalysis(), dir)
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if first.Filename == second.Filename {
		t.Errorf("filenames collide: %q", first.Filename)
	}
}
