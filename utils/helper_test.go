package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateINN(t *testing.T) {
	valid := []string{
		"7707049388",
		"7830002293",
		"500100732259",
		" 7707049388 ",
	}
	for _, inn := range valid {
		if !ValidateINN(inn) {
			t.Errorf("ValidateINN(%q) = false, want true", inn)
		}
	}

	invalid := []string{
		"",
		"7707049389",   // wrong check digit
		"500100732258", // wrong second check digit
		"1234567890",
		"770704938",     // 9 digits
		"77070493881",   // 11 digits
		"5001007322591", // 13 digits
		"77070A9388",
		"-707049388",
	}
	for _, inn := range invalid {
		if ValidateINN(inn) {
			t.Errorf("ValidateINN(%q) = true, want false", inn)
		}
	}
}

func TestCalculateGrowth(t *testing.T) {
	cases := []struct {
		current  int64
		previous int64
		want     string
	}{
		{1_000_000, 800_000, "+25.0%"},
		{800_000, 1_000_000, "-20.0%"},
		{500, 500, "+0.0%"},
		{100, 0, "N/A"},
	}
	for _, c := range cases {
		got := CalculateGrowth(decimal.NewFromInt(c.current), decimal.NewFromInt(c.previous))
		if got != c.want {
			t.Errorf("CalculateGrowth(%d, %d) = %q, want %q", c.current, c.previous, got, c.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{2_400_000_000, "$2.40B"},
		{1_000_000, "$1.00M"},
		{82_500, "$82.50K"},
		{999, "$999.00"},
	}
	for _, c := range cases {
		if got := FormatMoney(decimal.NewFromInt(c.amount)); got != c.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("short", 10); got != "short" {
		t.Errorf("TruncateText short = %q", got)
	}
	if got := TruncateText("a very long description of a partner", 10); got != "a very ..." {
		t.Errorf("TruncateText long = %q", got)
	}
}

func TestCleanFilename(t *testing.T) {
	got := CleanFilename(`partner/report:2024<v1>.xlsx`)
	if got != "partner_report_2024_v1_.xlsx" {
		t.Errorf("CleanFilename = %q", got)
	}
	if got := CleanFilename("  .report. "); got != "report" {
		t.Errorf("CleanFilename trim = %q", got)
	}
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	if got := CleanFilename(string(long)); len(got) != 100 {
		t.Errorf("CleanFilename length = %d, want 100", len(got))
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("contact@globaltech.ru") {
		t.Error("valid address rejected")
	}
	for _, bad := range []string{"", "not-an-email", "user@", "@domain.com"} {
		if IsValidEmail(bad) {
			t.Errorf("IsValidEmail(%q) = true", bad)
		}
	}
}
