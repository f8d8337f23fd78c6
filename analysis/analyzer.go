// Package analysis sends partner profiles to an external reasoning
// capability and normalizes its responses into a fixed structured shape.
// The capability is treated as unreliable: every failure path degrades to a
// deterministic placeholder that downstream rendering can treat as a
// normal analysis.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/models"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel       = "mistral-medium"
	defaultBaseURL     = "https://api.mistral.ai/v1"
	defaultTemperature = 0.7
	summaryTemperature = 0.3
	summaryMaxTokens   = 500
)

const systemPrompt = `You are a business analysis expert. Analyze the partner data and respond with JSON containing exactly these sections:
- financial_analysis: key/value observations on the partner's financials
- risk_assessment: object with "level" (Low/Medium/High/Critical), "factors" array and "recommendations" array
- partnership_potential: object with "score" (1-10), "opportunities" array and "threats" array
- strategic_recommendations: array of strings
- summary: short string`

// ChatCompleter is the single capability the engine needs from the
// reasoning provider. *openai.Client satisfies it; tests substitute stubs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Analyzer struct {
	client      ChatCompleter
	model       string
	temperature float32
}

// Analysis is the fixed schema contract with the reasoning capability.
type Analysis struct {
	FinancialAnalysis        map[string]any       `json:"financial_analysis"`
	RiskAssessment           RiskAssessment       `json:"risk_assessment"`
	PartnershipPotential     PartnershipPotential `json:"partnership_potential"`
	StrategicRecommendations []string             `json:"strategic_recommendations"`
	Summary                  string               `json:"summary"`
}

type RiskAssessment struct {
	Level           string   `json:"level"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

type PartnershipPotential struct {
	Score         int      `json:"score"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type AnalysisResult struct {
	Analysis        Analysis  `json:"analysis"`
	RawResponse     string    `json:"raw_response,omitempty"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	ModelUsed       string    `json:"model_used"`
	Timestamp       time.Time `json:"timestamp"`
	Error           string    `json:"error,omitempty"`
	Success         bool      `json:"success"`
}

func NewAnalyzer(client ChatCompleter, model string, temperature float32) *Analyzer {
	if model == "" {
		model = defaultModel
	}
	return &Analyzer{client: client, model: model, temperature: temperature}
}

// NewAnalyzerFromEnv configures the Mistral-backed analyzer. Mistral's chat
// API is OpenAI-compatible, so the stock client only needs a BaseURL swap.
func NewAnalyzerFromEnv() *Analyzer {
	apiKey := os.Getenv("MISTRAL_API_KEY")
	baseURL := os.Getenv("MISTRAL_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("MISTRAL_MODEL")

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return NewAnalyzer(openai.NewClientWithConfig(cfg), model, defaultTemperature)
}

// AnalyzePartner requests a structured assessment of the profile. It never
// returns an error: transport failures and malformed responses produce a
// result with Success=false and the deterministic fallback analysis.
// Latency is measured and reported regardless of outcome.
func (a *Analyzer) AnalyzePartner(ctx context.Context, profile *models.PartnerProfile) *AnalysisResult {
	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Analyze this partner:\n\n" + buildPartnerPrompt(profile)},
		},
		Temperature: a.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "analysis", "AnalyzePartner", profile.Inn, nil, err)
		return a.fallbackResult(start, err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("reasoning capability returned no choices")
		config.LogError(ctx, config.GetLogger(), "analysis", "AnalyzePartner", profile.Inn, nil, err)
		return a.fallbackResult(start, err)
	}

	rawText := resp.Choices[0].Message.Content
	var parsed Analysis
	if err := json.Unmarshal([]byte(rawText), &parsed); err != nil {
		config.LogError(ctx, config.GetLogger(), "analysis", "AnalyzePartner", profile.Inn, nil, err)
		return a.fallbackResult(start, err)
	}

	return &AnalysisResult{
		Analysis:        parsed,
		RawResponse:     rawText,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		ModelUsed:       a.model,
		Timestamp:       time.Now(),
		Success:         true,
	}
}

// fallbackResult is the deterministic placeholder downstream consumers
// render like any other analysis.
func (a *Analyzer) fallbackResult(start time.Time, cause error) *AnalysisResult {
	return &AnalysisResult{
		Analysis: Analysis{
			FinancialAnalysis: map[string]any{"error": "Analysis failed"},
			RiskAssessment: RiskAssessment{
				Level:           "Unknown",
				Factors:         []string{},
				Recommendations: []string{},
			},
			PartnershipPotential: PartnershipPotential{
				Score:         5,
				Opportunities: []string{},
				Threats:       []string{},
			},
			StrategicRecommendations: []string{"Manual review of partner data required"},
			Summary:                  "Automatic analysis of partner data failed",
		},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		ModelUsed:       a.model,
		Timestamp:       time.Now(),
		Error:           cause.Error(),
		Success:         false,
	}
}

// GenerateSummary produces a short digest of an analysis for chat display.
// Failure degrades to a deterministic fallback string.
func (a *Analyzer) GenerateSummary(ctx context.Context, profile *models.PartnerProfile, result *AnalysisResult) string {
	analysisJSON, err := json.MarshalIndent(result.Analysis, "", "  ")
	if err != nil {
		return summaryFallback(profile)
	}

	prompt := fmt.Sprintf("Create a short summary for this partner based on the data below.\n\nPartner: %s\nAnalysis: %s\n\nThe summary must be structured and suitable for a business report.",
		profile.DisplayName(), string(analysisJSON))

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You write short, structured summaries for business reports."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil || len(resp.Choices) == 0 {
		if err != nil {
			config.LogError(ctx, config.GetLogger(), "analysis", "GenerateSummary", profile.Inn, nil, err)
		}
		return summaryFallback(profile)
	}
	return resp.Choices[0].Message.Content
}

func summaryFallback(profile *models.PartnerProfile) string {
	return fmt.Sprintf("%s\n\nKey figures are available in the full report.", profile.DisplayName())
}

func buildPartnerPrompt(profile *models.PartnerProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", profile.DisplayName())
	fmt.Fprintf(&b, "INN: %s\n", profile.Inn)
	fmt.Fprintf(&b, "Type: %s\n", profile.PartnerType)
	fmt.Fprintf(&b, "Category: %s\n", profile.Category)
	fmt.Fprintf(&b, "Revenue 2023: %s\n", profile.Financials.Revenue2023.String())
	fmt.Fprintf(&b, "Revenue 2022: %s\n", profile.Financials.Revenue2022.String())
	fmt.Fprintf(&b, "Profit 2023: %s\n", profile.Financials.Profit2023.String())
	fmt.Fprintf(&b, "Founded: %d, employees: %d\n", profile.Financials.FoundingYear, profile.Financials.EmployeeCount)
	fmt.Fprintf(&b, "Rating: %.2f/5, risk level: %s\n", profile.Ratings.Rating, profile.Ratings.RiskLevel)
	if len(profile.Financials.Turnovers) > 0 {
		b.WriteString("Turnover history (newest first):\n")
		for _, t := range profile.Financials.Turnovers {
			fmt.Fprintf(&b, "- %d Q%d: revenue %s, profit %s\n", t.Year, t.Quarter, t.Revenue.String(), t.Profit.String())
		}
	}
	return b.String()
}
