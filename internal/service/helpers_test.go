package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ai-helpdesk/internal/knowledge"
	"ai-helpdesk/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

var errProviderDown = errors.New("provider unavailable")

// completerFunc adapts a function to the Completer interface.
type completerFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

// failingCompleter simulates an unreachable completion service.
func failingCompleter() Completer {
	return completerFunc(func(context.Context, string, int) (string, error) {
		return "", errProviderDown
	})
}

// scriptedCompleter returns the given replies in order and fails once
// the script is exhausted.
func scriptedCompleter(replies ...string) Completer {
	i := 0
	return completerFunc(func(context.Context, string, int) (string, error) {
		if i >= len(replies) {
			return "", errProviderDown
		}
		reply := replies[i]
		i++
		return reply, nil
	})
}

// stubEmbedder maps every text to a fixed-dimension vector via the
// supplied function.
type stubEmbedder struct {
	embed func(text string) []float32
}

func (e *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

// newTestStore loads a small markdown knowledge base from a temp
// directory: the title chunk plus three sections, at positions 0-3.
func newTestStore(t *testing.T) *knowledge.Store {
	t.Helper()

	dir := t.TempDir()
	doc := `# Knowledge Base

## Password Reset Procedure
Use the self-service portal to reset a forgotten password.

## VPN Connection Setup
Install the corporate VPN client and connect to the gateway.

## Printer Troubleshooting
Re-add the printer from the print server to fix most issues.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kb.md"), []byte(doc), 0o644))

	cfg := &config.KnowledgeConfig{
		DataDir:     dir,
		Sources:     []string{"kb.md"},
		MinChunkLen: 50,
	}
	return knowledge.NewStore(cfg, testLogger())
}
