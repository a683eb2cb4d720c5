package service

import (
	"context"
	"fmt"
	"strings"

	"ai-helpdesk/internal/models"
	"ai-helpdesk/internal/taxonomy"

	"go.uber.org/zap"
)

const defaultConfidence = 0.8

// fallbackKeywords drives the keyword classifier used when the
// completion service is unavailable. Order follows the category
// enumeration; on ties the first category wins.
var fallbackKeywords = map[models.Category][]string{
	models.CategoryPasswordReset:       {"password", "login", "forgot", "reset", "access", "account"},
	models.CategorySoftwareInstall:     {"install", "software", "program", "application", "app", "update"},
	models.CategoryHardwareFailure:     {"computer", "laptop", "mouse", "keyboard", "screen", "hardware"},
	models.CategoryNetworkConnectivity: {"internet", "wifi", "network", "connection", "slow"},
	models.CategoryEmailConfiguration:  {"email", "outlook", "mail", "smtp", "imap"},
	models.CategorySecurityIncident:    {"phishing", "virus", "malware", "suspicious", "hacked"},
	models.CategoryPolicyQuestion:      {"policy", "allowed", "permitted", "procedure", "compliance"},
}

// ClassifierService assigns exactly one category to a request, with a
// confidence and a short rationale.
type ClassifierService struct {
	completer Completer
	table     *taxonomy.Table
	logger    *zap.Logger
}

func NewClassifierService(completer Completer, table *taxonomy.Table, logger *zap.Logger) *ClassifierService {
	return &ClassifierService{
		completer: completer,
		table:     table,
		logger:    logger,
	}
}

// Classify runs the LLM primary path and falls back to keyword matching
// when the completion service fails. It never returns an error: the
// worst case is a low-confidence keyword classification.
func (s *ClassifierService) Classify(ctx context.Context, request string) models.ClassificationResult {
	result, err := s.classifyLLM(ctx, request)
	if err != nil {
		s.logger.Warn("LLM classification failed, using keyword fallback", zap.Error(err))
		return s.classifyKeywords(request)
	}
	return result
}

func (s *ClassifierService) classifyLLM(ctx context.Context, request string) (models.ClassificationResult, error) {
	labels := make([]string, 0, len(models.AllCategories()))
	var descriptions strings.Builder
	for _, c := range models.AllCategories() {
		label := c.DisplayName()
		labels = append(labels, label)
		descriptions.WriteString(fmt.Sprintf("- %s: %s\n", label, s.table.Meta(c).Description))
	}

	prompt := fmt.Sprintf(`Classify this help desk request into one of the following categories:

%s
Request: "%s"

Respond with ONLY the exact category name from the list above. If none fit well, choose the closest match.`,
		descriptions.String(), request)

	// The category call is the only one that can fail the primary path;
	// confidence and reasoning are independent sub-calls with their own
	// defaults.
	reply, err := s.completer.Complete(ctx, prompt, 20)
	if err != nil {
		return models.ClassificationResult{}, err
	}

	label := matchCategory(reply, labels)
	category := categoryForLabel(label)

	confidence := s.askConfidence(ctx, request, label)
	reasoning := s.askReasoning(ctx, request, label)

	return models.ClassificationResult{
		Category:   category,
		Confidence: confidence,
		Reasoning:  reasoning,
	}, nil
}

func (s *ClassifierService) askConfidence(ctx context.Context, request, label string) float64 {
	prompt := fmt.Sprintf(`Rate your confidence (0.0 to 1.0) in classifying this request as "%s":

Request: "%s"
Classification: %s

Respond with just a number between 0.0 and 1.0:`, label, request, label)

	reply, err := s.completer.Complete(ctx, prompt, 10)
	if err != nil {
		s.logger.Debug("Confidence call failed, using default", zap.Error(err))
		return defaultConfidence
	}
	confidence, ok := parseConfidence(reply)
	if !ok {
		return defaultConfidence
	}
	return confidence
}

func (s *ClassifierService) askReasoning(ctx context.Context, request, label string) string {
	prompt := fmt.Sprintf(`Briefly explain (1-2 sentences) why this request was classified as "%s":

Request: "%s"
Classification: %s

Explanation:`, label, request, label)

	reply, err := s.completer.Complete(ctx, prompt, 100)
	if err != nil {
		s.logger.Debug("Reasoning call failed, using default", zap.Error(err))
		return fmt.Sprintf("Classified as %s.", label)
	}
	return reply
}

// classifyKeywords scores each category by the number of its keywords
// present in the lowercased request. Deterministic for identical input.
func (s *ClassifierService) classifyKeywords(request string) models.ClassificationResult {
	requestLower := strings.ToLower(request)

	best := models.AllCategories()[0]
	bestScore := 0
	for _, c := range models.AllCategories() {
		score := 0
		for _, kw := range fallbackKeywords[c] {
			if strings.Contains(requestLower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}

	confidence := 0.3
	if bestScore > 0 {
		confidence = min(0.9, float64(bestScore)*0.2)
	}

	return models.ClassificationResult{
		Category:   best,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Classified based on keyword matching (score: %d)", bestScore),
	}
}

func categoryForLabel(label string) models.Category {
	for _, c := range models.AllCategories() {
		if c.DisplayName() == label {
			return c
		}
	}
	return models.AllCategories()[0]
}
