package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

type PartnerType string

const (
	PartnerTypeStrategic PartnerType = "strategic"
	PartnerTypeCurrent   PartnerType = "current"
	PartnerTypePotential PartnerType = "potential"
	PartnerTypeBlocked   PartnerType = "blocked"
	PartnerTypeVip       PartnerType = "vip"
)

func (t PartnerType) IsValid() bool {
	switch t {
	case PartnerTypeStrategic, PartnerTypeCurrent, PartnerTypePotential, PartnerTypeBlocked, PartnerTypeVip:
		return true
	}
	return false
}

func (t *PartnerType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("partner type must be string")
	}
	parsed := PartnerType(str)
	if str != "" && !parsed.IsValid() {
		return fmt.Errorf("invalid partner type %q", str)
	}
	*t = parsed
	return nil
}

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	}
	return false
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("risk level must be string")
	}
	parsed := RiskLevel(str)
	if str != "" && !parsed.IsValid() {
		return fmt.Errorf("invalid risk level %q", str)
	}
	*r = parsed
	return nil
}

type ReportType string

const (
	ReportTypeWord  ReportType = "word"
	ReportTypePdf   ReportType = "pdf"
	ReportTypeExcel ReportType = "excel"
)

func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeWord, ReportTypePdf, ReportTypeExcel:
		return true
	}
	return false
}

// Interaction action kinds written to the audit log.
const (
	ActionStart          = "start"
	ActionSearchByInn    = "search_by_inn"
	ActionSearch         = "search"
	ActionStats          = "stats"
	ActionAiAnalysis     = "ai_analysis"
	ActionGenerateReport = "generate_report"
	ActionDownloadReport = "download_report"
	ActionHealth         = "health"
)

// StringList stores a JSON array of strings in a single text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}
