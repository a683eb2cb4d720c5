package service

import (
	"fmt"
	"strings"

	"ai-helpdesk/internal/models"
	"ai-helpdesk/internal/taxonomy"

	"go.uber.org/zap"
)

const noEscalationReason = "Request can be handled through automated response"

var urgentKeywords = []string{
	"urgent", "emergency", "critical", "asap", "immediately",
	"broken", "crashed", "not working", "down", "failed",
}

var highPriorityCategories = []models.Category{
	models.CategorySecurityIncident,
	models.CategoryHardwareFailure,
}

var multiIssueIndicators = []string{
	"and also", "in addition", "furthermore", "moreover",
	"another issue", "also", "plus", "as well as",
}

var businessImpactKeywords = []string{
	"presentation", "meeting", "deadline", "client", "customer",
	"revenue", "business critical", "production", "server",
}

// EscalationService decides whether a request needs human intervention.
// Every rule family is evaluated (no short-circuit); reasons accumulate
// in rule order and urgency only ever moves upward within one call.
type EscalationService struct {
	table               *taxonomy.Table
	confidenceThreshold float64
	logger              *zap.Logger
}

func NewEscalationService(table *taxonomy.Table, confidenceThreshold float64, logger *zap.Logger) *EscalationService {
	return &EscalationService{
		table:               table,
		confidenceThreshold: confidenceThreshold,
		logger:              logger,
	}
}

func (s *EscalationService) Evaluate(request string, category models.Category, confidence float64) models.EscalationDecision {
	var reasons []string
	urgency := models.UrgencyNormal
	requestLower := strings.ToLower(request)

	// 1. Category-specific escalation triggers
	for _, trigger := range s.table.Triggers(category) {
		if matchesTrigger(requestLower, trigger) {
			reasons = append(reasons, fmt.Sprintf("Category trigger: %s", trigger))
			urgency = urgency.Raise(models.UrgencyHigh)
		}
	}

	// 2. Urgent keywords
	for _, keyword := range urgentKeywords {
		if strings.Contains(requestLower, keyword) {
			reasons = append(reasons, fmt.Sprintf("Urgent keyword: %s", keyword))
			urgency = urgency.Raise(models.UrgencyCritical)
		}
	}

	// 3. Low classification confidence (flags, does not raise urgency)
	if confidence < s.confidenceThreshold {
		reasons = append(reasons, fmt.Sprintf("Low classification confidence: %.2f", confidence))
	}

	// 4. High-priority categories
	for _, hp := range highPriorityCategories {
		if category == hp {
			reasons = append(reasons, fmt.Sprintf("High-priority category: %s", category))
			urgency = urgency.Raise(models.UrgencyCritical)
		}
	}

	// 5. Multiple issues in one request (flags, does not raise urgency)
	for _, indicator := range multiIssueIndicators {
		if strings.Contains(requestLower, indicator) {
			reasons = append(reasons, "Multiple issues detected in single request")
			break
		}
	}

	// 6. Business impact; only the first matching keyword is reported
	for _, keyword := range businessImpactKeywords {
		if strings.Contains(requestLower, keyword) {
			reasons = append(reasons, fmt.Sprintf("Business impact indicator: %s", keyword))
			urgency = urgency.Raise(models.UrgencyHigh)
			break
		}
	}

	decision := models.EscalationDecision{
		ShouldEscalate: len(reasons) > 0,
		Reason:         noEscalationReason,
		UrgencyLevel:   urgency,
	}
	if decision.ShouldEscalate {
		decision.Reason = strings.Join(reasons, "; ")
	}

	s.logger.Debug("Escalation evaluated",
		zap.Bool("should_escalate", decision.ShouldEscalate),
		zap.String("urgency", string(decision.UrgencyLevel)),
		zap.Int("reasons", len(reasons)),
	)

	return decision
}

// matchesTrigger reports whether a trigger phrase applies: a literal
// substring match, or every word of the phrase appearing as a substring
// of some word in the request (word-level fuzzy match).
func matchesTrigger(requestLower, trigger string) bool {
	triggerLower := strings.ToLower(trigger)
	if strings.Contains(requestLower, triggerLower) {
		return true
	}

	triggerWords := strings.Fields(triggerLower)
	requestWords := strings.Fields(requestLower)
	if len(triggerWords) == 0 {
		return false
	}

	for _, tw := range triggerWords {
		found := false
		for _, rw := range requestWords {
			if strings.Contains(rw, tw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
