package models

import "time"

type ChunkKind string

const (
	ChunkKindMarkdown   ChunkKind = "markdown"
	ChunkKindStructured ChunkKind = "structured"
)

// KnowledgeChunk is one addressable unit of knowledge-base text.
// Chunks are immutable once loaded and identified by their position in
// the store's chunk sequence.
type KnowledgeChunk struct {
	Content string    `json:"content"`
	Source  string    `json:"source"`
	Section string    `json:"section"`
	Kind    ChunkKind `json:"kind"`
}

// RetrievalResult is one ranked hit returned by the retrieval engine.
// Callers must preserve the descending relevance order.
type RetrievalResult struct {
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	Section        string  `json:"section"`
	RelevanceScore float64 `json:"relevance_score"`
}

type ClassificationResult struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

type EscalationDecision struct {
	ShouldEscalate bool         `json:"should_escalate"`
	Reason         string       `json:"reason"`
	UrgencyLevel   UrgencyLevel `json:"urgency_level"`
}

// TicketRequest is an incoming help desk request.
type TicketRequest struct {
	ID      string `json:"id,omitempty"`
	Request string `json:"request"`
	UserID  string `json:"user_id,omitempty"`
}

// PipelineResult is the complete outcome of one pipeline run. It is
// created once by the orchestrator and never mutated after return.
type PipelineResult struct {
	RequestID          string               `json:"request_id"`
	Classification     ClassificationResult `json:"classification"`
	RetrievedKnowledge []RetrievalResult    `json:"retrieved_knowledge"`
	Response           string               `json:"response"`
	Escalation         EscalationDecision   `json:"escalation"`
	ProcessingTime     time.Duration        `json:"-"`
	ProcessingSeconds  float64              `json:"processing_time"`
}

// Clamp01 bounds confidence and relevance scores to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
