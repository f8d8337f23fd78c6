// Package reports renders partner profiles plus their AI assessment into
// durable document artifacts. The section order is fixed; rendering is
// deterministic for a given profile and analysis.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/partner_backend/analysis"
	"github.com/mmdatafocus/partner_backend/models"
	"github.com/mmdatafocus/partner_backend/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

type ReportArtifact struct {
	Filepath         string            `json:"filepath"`
	Filename         string            `json:"filename"`
	FileSizeBytes    int64             `json:"file_size_bytes"`
	GenerationTimeMs int64             `json:"generation_time_ms"`
	ReportType       models.ReportType `json:"report_type"`
}

// DocumentsDir is where artifacts land; override with DOCUMENTS_DIR.
func DocumentsDir() string {
	if dir := os.Getenv("DOCUMENTS_DIR"); dir != "" {
		return dir
	}
	return "documents"
}

// GeneratePartnerReport renders the report into dir and returns artifact
// metadata. Any rendering or filesystem failure returns an error and leaves
// no registered artifact. Filenames carry a timestamp and a unique suffix,
// so concurrent generation for the same partner cannot collide.
func GeneratePartnerReport(profile *models.PartnerProfile, result *analysis.AnalysisResult, dir string) (*ReportArtifact, error) {
	start := time.Now()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{file: f, row: 1}

	w.title(fmt.Sprintf("Partner report: %s", profile.DisplayName()))
	w.blank()

	w.header("Basic information")
	w.line("Legal name", profile.LegalName)
	w.line("Trade name", profile.TradeName)
	w.line("INN", profile.Inn)
	w.line("Partner type", partnerTypeLabel(profile.PartnerType))
	w.line("Category", profile.Category)
	w.line("Main competitor", profile.Competitor)
	w.line("Founding year", fmt.Sprint(profile.Financials.FoundingYear))
	w.line("Employee count", fmt.Sprint(profile.Financials.EmployeeCount))
	w.line("Last audit", utils.FormatDateTime(profile.Metadata.LastAudit))
	w.blank()

	w.header("Financial metrics")
	w.line("Revenue 2023", utils.FormatMoney(profile.Financials.Revenue2023))
	w.line("Revenue 2022", utils.FormatMoney(profile.Financials.Revenue2022))
	w.line("Profit 2023", utils.FormatMoney(profile.Financials.Profit2023))
	w.line("Revenue growth", utils.CalculateGrowth(profile.Financials.Revenue2023, profile.Financials.Revenue2022))
	w.line("Rating", fmt.Sprintf("%.1f/5", profile.Ratings.Rating))
	w.line("Risk level", riskLevelLabel(profile.Ratings.RiskLevel))
	w.line("Payment terms", profile.Ratings.PaymentTerms)
	w.blank()

	w.header("AI analysis")
	writeAnalysis(w, &result.Analysis)
	w.blank()

	w.header("Contact information")
	w.line("CEO", orUnspecified(profile.Contacts.Ceo))
	w.line("CFO", orUnspecified(profile.Contacts.Cfo))
	w.line("Email", orUnspecified(profile.Contacts.Email))
	w.line("Phone", orUnspecified(profile.Contacts.Phone))
	if profile.Website != "" {
		w.line("Website", profile.Website)
	}
	w.blank()

	w.header("Addresses")
	if len(profile.Addresses) > 0 {
		for _, address := range profile.Addresses {
			w.bullet(address)
		}
	} else {
		w.text("No addresses provided")
	}
	w.blank()

	if len(profile.Financials.Turnovers) > 0 {
		w.header("Turnover history")
		writeTurnoverTable(w, profile.Financials.Turnovers)
		w.blank()
	}

	w.text(fmt.Sprintf("Report generated automatically: %s | Partner: %s | INN: %s",
		time.Now().Format("02.01.2006 15:04"), profile.DisplayName(), profile.Inn))

	filename := utils.CleanFilename(fmt.Sprintf("partner_report_%s_%s_%s",
		profile.Inn, start.Format("20060102_150405"), uuid.NewString()[:8])) + ".xlsx"
	path := filepath.Join(dir, filename)

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat report: %w", err)
	}

	return &ReportArtifact{
		Filepath:         path,
		Filename:         filename,
		FileSizeBytes:    info.Size(),
		GenerationTimeMs: time.Since(start).Milliseconds(),
		ReportType:       models.ReportTypeExcel,
	}, nil
}

// Each analysis sub-section renders only when present.
func writeAnalysis(w *sheetWriter, a *analysis.Analysis) {
	if len(a.FinancialAnalysis) > 0 {
		w.text("Financial analysis:")
		keys := make([]string, 0, len(a.FinancialAnalysis))
		for k := range a.FinancialAnalysis {
			if k == "error" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.bullet(fmt.Sprintf("%s: %v", k, a.FinancialAnalysis[k]))
		}
	}

	w.text("Risk assessment:")
	w.bullet("Level: " + a.RiskAssessment.Level)
	if len(a.RiskAssessment.Factors) > 0 {
		w.bullet("Risk factors:")
		for _, factor := range a.RiskAssessment.Factors {
			w.subBullet(factor)
		}
	}
	if len(a.RiskAssessment.Recommendations) > 0 {
		w.bullet("Recommendations:")
		for _, rec := range a.RiskAssessment.Recommendations {
			w.subBullet(rec)
		}
	}

	w.text("Partnership potential:")
	w.bullet(fmt.Sprintf("Score: %d/10", a.PartnershipPotential.Score))
	if len(a.PartnershipPotential.Opportunities) > 0 {
		w.bullet("Opportunities:")
		for _, opp := range a.PartnershipPotential.Opportunities {
			w.subBullet(opp)
		}
	}
	if len(a.PartnershipPotential.Threats) > 0 {
		w.bullet("Threats:")
		for _, threat := range a.PartnershipPotential.Threats {
			w.subBullet(threat)
		}
	}

	if len(a.StrategicRecommendations) > 0 {
		w.text("Strategic recommendations:")
		for _, rec := range a.StrategicRecommendations {
			w.bullet(rec)
		}
	}

	if a.Summary != "" {
		w.text("Summary:")
		w.text(a.Summary)
	}
}

// One row per period, newest first (the profile already carries them in
// that order). Quarter 0 is a whole-year record.
func writeTurnoverTable(w *sheetWriter, turnovers []*models.ProfileTurnover) {
	w.cells("Year", "Quarter", "Revenue ($)", "Profit ($)", "Avg transaction ($)")
	for _, t := range turnovers {
		quarter := "Year"
		if t.Quarter > 0 {
			quarter = fmt.Sprint(t.Quarter)
		}
		w.cells(
			fmt.Sprint(t.Year),
			quarter,
			t.Revenue.StringFixed(2),
			t.Profit.StringFixed(2),
			t.AverageTransaction.StringFixed(2),
		)
	}
}

func partnerTypeLabel(t models.PartnerType) string {
	switch t {
	case models.PartnerTypeStrategic:
		return "Strategic"
	case models.PartnerTypeCurrent:
		return "Current"
	case models.PartnerTypePotential:
		return "Potential"
	case models.PartnerTypeBlocked:
		return "Blocked"
	case models.PartnerTypeVip:
		return "VIP"
	}
	return string(t)
}

func riskLevelLabel(r models.RiskLevel) string {
	switch r {
	case models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh, models.RiskLevelCritical:
		return string(r)
	}
	return "Unknown"
}

func orUnspecified(value string) string {
	if value == "" {
		return "Not specified"
	}
	return value
}

// sheetWriter lays sections out top to bottom on one sheet.
type sheetWriter struct {
	file *excelize.File
	row  int
}

func (w *sheetWriter) set(col int, value string) {
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return
	}
	w.file.SetCellValue(sheetName, cell, value)
}

func (w *sheetWriter) title(text string) {
	w.set(1, text)
	w.row++
}

func (w *sheetWriter) header(text string) {
	w.set(1, text)
	w.row++
}

func (w *sheetWriter) line(label, value string) {
	w.set(1, label)
	w.set(2, value)
	w.row++
}

func (w *sheetWriter) text(text string) {
	w.set(1, text)
	w.row++
}

func (w *sheetWriter) bullet(text string) {
	w.set(1, "• "+text)
	w.row++
}

func (w *sheetWriter) subBullet(text string) {
	w.set(1, "  - "+text)
	w.row++
}

func (w *sheetWriter) cells(values ...string) {
	for i, v := range values {
		w.set(i+1, v)
	}
	w.row++
}

func (w *sheetWriter) blank() {
	w.row++
}
