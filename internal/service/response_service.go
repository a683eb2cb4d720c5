package service

import (
	"context"
	"fmt"
	"strings"

	"ai-helpdesk/internal/models"

	"go.uber.org/zap"
)

const responseSystemPrompt = `You are an AI assistant for an IT help desk system. Your role is to provide helpful, accurate, and professional responses to IT support requests.

IMPORTANT FORMATTING RULES:
- Write in plain text format, NOT markdown
- Use actual line breaks for paragraphs, NOT literal \n strings
- Use numbered lists (1., 2., 3.) for steps
- Use bullet points (-) for simple lists
- NEVER use **bold**, ##headers## or any markdown formatting
- Keep responses clean and readable in plain text

Guidelines:
1. Be concise but thorough in your responses
2. Use the provided knowledge base information when relevant
3. Provide step-by-step instructions when appropriate
4. Be empathetic and professional in tone
5. If escalation is required, clearly explain why and what the user should expect
6. Always prioritize security and company policies
7. If you're unsure about something, recommend contacting human IT support

Response Structure:
1. Brief acknowledgment of the issue
2. Clear, actionable steps or information
3. Next steps or escalation information if needed
4. Professional closing`

// ResponseService composes the user-facing reply from the pipeline
// outputs. A completion failure never surfaces: the caller always gets
// a deterministic templated response instead.
type ResponseService struct {
	completer Completer
	logger    *zap.Logger
}

func NewResponseService(completer Completer, logger *zap.Logger) *ResponseService {
	return &ResponseService{
		completer: completer,
		logger:    logger,
	}
}

func (s *ResponseService) Generate(
	ctx context.Context,
	request string,
	category models.Category,
	retrieved []models.RetrievalResult,
	escalation models.EscalationDecision,
) string {
	prompt := responseSystemPrompt + "\n\n" + s.buildUserPrompt(request, category, retrieved, escalation)

	reply, err := s.completer.Complete(ctx, prompt, 500)
	if err != nil {
		s.logger.Warn("Response generation failed, using fallback", zap.Error(err))
		return s.fallbackResponse(category, escalation)
	}

	return cleanResponseFormatting(reply)
}

func (s *ResponseService) buildUserPrompt(
	request string,
	category models.Category,
	retrieved []models.RetrievalResult,
	escalation models.EscalationDecision,
) string {
	status := "NO ESCALATION NEEDED"
	if escalation.ShouldEscalate {
		status = "ESCALATION REQUIRED"
	}

	return fmt.Sprintf(`Please help with this IT support request:

USER REQUEST: %s

CLASSIFIED CATEGORY: %s

RELEVANT KNOWLEDGE:
%s

ESCALATION STATUS: %s
ESCALATION REASON: %s
URGENCY LEVEL: %s

Please provide a helpful response that:
1. Addresses the user's specific request
2. Uses the relevant knowledge provided
3. Includes appropriate escalation information if needed
4. Maintains a professional and helpful tone`,
		request, category, buildKnowledgeContext(retrieved), status, escalation.Reason, escalation.UrgencyLevel)
}

func buildKnowledgeContext(retrieved []models.RetrievalResult) string {
	if len(retrieved) == 0 {
		return "No specific knowledge found for this request."
	}

	parts := make([]string, 0, len(retrieved))
	for i, result := range retrieved {
		parts = append(parts, fmt.Sprintf("Knowledge %d (from %s):\n%s", i+1, result.Source, result.Content))
	}
	return strings.Join(parts, "\n\n")
}

// fallbackResponse is the deterministic reply used when the completion
// service is unavailable.
func (s *ResponseService) fallbackResponse(category models.Category, escalation models.EscalationDecision) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Thank you for contacting IT support regarding your %s issue.\n\n",
		strings.ReplaceAll(string(category), "_", " ")))
	b.WriteString("I apologize, but I'm experiencing technical difficulties generating a detailed response right now.\n\n")

	if escalation.ShouldEscalate {
		b.WriteString(fmt.Sprintf("Your request has been classified as %s priority and will be escalated to our technical team. ",
			escalation.UrgencyLevel))
		b.WriteString("You can expect a response within 2-4 hours.\n\n")
	} else {
		b.WriteString("Please try the following general troubleshooting steps or contact IT support directly.\n\n")
	}

	b.WriteString("For immediate assistance, please contact IT support at extension 1234 or email support@company.com.")

	return b.String()
}

// cleanResponseFormatting scrubs model output for plain-text display:
// literal escaped newlines become real line breaks, markdown emphasis
// and heading markers are removed, and blank-line runs are collapsed.
func cleanResponseFormatting(response string) string {
	if response == "" {
		return ""
	}

	response = strings.ReplaceAll(response, `\n`, "\n")
	for _, marker := range []string{"**", "###", "##", "*"} {
		response = strings.ReplaceAll(response, marker, "")
	}

	var cleaned []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		} else if len(cleaned) > 0 && cleaned[len(cleaned)-1] != "" {
			// keep at most one blank line between paragraphs
			cleaned = append(cleaned, "")
		}
	}

	result := strings.Join(cleaned, "\n")
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}
