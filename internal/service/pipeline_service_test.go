package service

import (
	"context"
	"testing"

	"ai-helpdesk/internal/knowledge"
	"ai-helpdesk/internal/models"
	"ai-helpdesk/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, completer Completer) (*PipelineService, *knowledge.Store) {
	t.Helper()

	store := newTestStore(t)
	table := taxonomy.Defaults()
	retrieval := NewRetrievalService(
		context.Background(), store, completer, nil,
		testRetrievalConfig(), testLogger(),
	)
	pipeline := NewPipelineService(
		NewClassifierService(completer, table, testLogger()),
		retrieval,
		NewEscalationService(table, 0.8, testLogger()),
		NewResponseService(completer, testLogger()),
		store,
		testLogger(),
	)
	return pipeline, store
}

func TestPipelineProcess(t *testing.T) {
	t.Run("ShouldRunAllStagesWhenProviderHealthy", func(t *testing.T) {
		// One reply per completion call, in pipeline order: category,
		// confidence, reasoning, semantic ranking, response.
		pipeline, _ := newPipeline(t, scriptedCompleter(
			"Password Reset",
			"0.9",
			"User forgot their password.",
			"1",
			"Here are the reset steps.",
		))

		result := pipeline.Process(context.Background(), &models.TicketRequest{
			ID:      "REQ-001",
			Request: "I forgot my password and can't log in",
			UserID:  "john.doe",
		})

		require.NotNil(t, result)
		assert.Equal(t, "REQ-001", result.RequestID)
		assert.Equal(t, models.CategoryPasswordReset, result.Classification.Category)
		assert.InDelta(t, 0.9, result.Classification.Confidence, 1e-9)
		require.Len(t, result.RetrievedKnowledge, 1)
		assert.Equal(t, "Password Reset Procedure", result.RetrievedKnowledge[0].Section)
		assert.Equal(t, "Here are the reset steps.", result.Response)
		assert.False(t, result.Escalation.ShouldEscalate)
		assert.Greater(t, result.ProcessingSeconds, 0.0)
	})

	t.Run("ShouldDegradeGracefullyWhenProviderDown", func(t *testing.T) {
		pipeline, _ := newPipeline(t, failingCompleter())

		result := pipeline.Process(context.Background(), &models.TicketRequest{
			Request: "I forgot my password and can't log in",
		})

		require.NotNil(t, result)
		assert.NotEmpty(t, result.RequestID)
		// Keyword fallback lands below the confidence threshold, which
		// forces an escalation on its own.
		assert.Equal(t, models.CategoryPasswordReset, result.Classification.Category)
		require.True(t, result.Escalation.ShouldEscalate)
		assert.Contains(t, result.Escalation.Reason, "Low classification confidence")
		assert.NotEmpty(t, result.RetrievedKnowledge)
		assert.NotEmpty(t, result.Response)
	})

	t.Run("ShouldAssignRequestIDWhenMissing", func(t *testing.T) {
		pipeline, _ := newPipeline(t, failingCompleter())

		first := pipeline.Process(context.Background(), &models.TicketRequest{Request: "printer"})
		second := pipeline.Process(context.Background(), &models.TicketRequest{Request: "printer"})

		assert.NotEmpty(t, first.RequestID)
		assert.NotEqual(t, first.RequestID, second.RequestID)
	})

	t.Run("ShouldReturnForcedEscalationResultOnStageFailure", func(t *testing.T) {
		store := newTestStore(t)
		// A nil classifier makes the first stage panic; the pipeline must
		// still hand back a usable result.
		pipeline := NewPipelineService(
			nil,
			NewRetrievalService(context.Background(), store, failingCompleter(), nil,
				testRetrievalConfig(), testLogger()),
			NewEscalationService(taxonomy.Defaults(), 0.8, testLogger()),
			NewResponseService(failingCompleter(), testLogger()),
			store,
			testLogger(),
		)

		result := pipeline.Process(context.Background(), &models.TicketRequest{
			ID:      "REQ-BROKEN",
			Request: "anything",
		})

		require.NotNil(t, result)
		assert.Equal(t, "REQ-BROKEN", result.RequestID)
		assert.Equal(t, models.CategoryPolicyQuestion, result.Classification.Category)
		assert.Zero(t, result.Classification.Confidence)
		assert.True(t, result.Escalation.ShouldEscalate)
		assert.Equal(t, models.UrgencyHigh, result.Escalation.UrgencyLevel)
		assert.Contains(t, result.Response, "encountered an error")
		// The degraded response names the cause so operators can see it
		// without digging into the classification reasoning.
		assert.Contains(t, result.Response, "Error: ")
		assert.Contains(t, result.Escalation.Reason, "System error: ")
	})
}

func TestPipelineClassifyOnly(t *testing.T) {
	t.Run("ShouldClassifyWithoutTouchingRetrieval", func(t *testing.T) {
		pipeline, _ := newPipeline(t, scriptedCompleter(
			"Network Connectivity",
			"0.8",
			"Mentions the office network.",
		))

		result := pipeline.ClassifyOnly(context.Background(), "the office wifi keeps dropping")

		assert.Equal(t, models.CategoryNetworkConnectivity, result.Category)
		assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	})
}

func TestPipelineStatus(t *testing.T) {
	t.Run("ShouldReportComponentsAndKnowledgeStats", func(t *testing.T) {
		pipeline, store := newPipeline(t, failingCompleter())

		status := pipeline.Status()

		assert.Equal(t, "operational", status.Status)
		assert.Equal(t, "loaded", status.Components["classifier"])
		assert.Equal(t, store.Len(), status.Knowledge.TotalChunks)
		assert.Equal(t, []string{"semantic", "keyword"}, status.Retrieval)
	})
}
