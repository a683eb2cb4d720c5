package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ai-helpdesk/internal/models"
	"ai-helpdesk/pkg/config"

	"go.uber.org/zap"
)

// Store holds the chunked knowledge base. Chunks are loaded once at
// construction, addressed by their position in the sequence, and never
// mutated afterwards, so the store is safe for concurrent reads.
type Store struct {
	chunks []models.KnowledgeChunk
	logger *zap.Logger
}

type Stats struct {
	TotalChunks int            `json:"total_chunks"`
	Sources     []string       `json:"sources"`
	ChunkKinds  map[string]int `json:"chunk_kinds"`
}

// NewStore loads every configured source file. A failure on an
// individual file is logged and skipped; an empty store is valid.
func NewStore(cfg *config.KnowledgeConfig, logger *zap.Logger) *Store {
	s := &Store{logger: logger}

	for _, source := range cfg.Sources {
		path := filepath.Join(cfg.DataDir, source)
		if _, err := os.Stat(path); err != nil {
			logger.Debug("Knowledge source not found, skipping", zap.String("path", path))
			continue
		}

		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md":
			err = s.loadMarkdown(path)
		case ".json":
			err = s.loadStructured(path, cfg.MinChunkLen)
		default:
			logger.Warn("Unsupported knowledge source type", zap.String("path", path))
			continue
		}
		if err != nil {
			logger.Error("Failed to load knowledge source", zap.String("path", path), zap.Error(err))
		}
	}

	logger.Info("Knowledge base loaded", zap.Int("chunks", len(s.chunks)))
	return s
}

// loadMarkdown splits a markdown document on second-level headings; each
// section becomes one chunk with the heading text as its section name.
func (s *Store) loadMarkdown(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sections := strings.Split(string(raw), "\n## ")
	for i, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		if i > 0 {
			section = "## " + section
		}

		section = strings.TrimSpace(section)
		title, _, _ := strings.Cut(section, "\n")
		title = strings.TrimPrefix(title, "## ")
		title = strings.TrimPrefix(title, "# ")

		s.chunks = append(s.chunks, models.KnowledgeChunk{
			Content: section,
			Source:  path,
			Section: title,
			Kind:    models.ChunkKindMarkdown,
		})
	}
	return nil
}

// loadStructured walks a JSON document and extracts substantial text
// values as chunks. Key order is preserved so chunk positions stay
// stable across restarts.
func (s *Store) loadStructured(path string, minChunkLen int) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	root, err := parseOrdered(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.walkValue(root, "", "", path, minChunkLen)
	return nil
}

// walkValue recursively extracts chunks from a parsed JSON value.
// A string longer than minChunkLen becomes a "key: value" chunk, a list
// of entirely string items becomes a single bulleted chunk, and nested
// structures recurse with a dotted/indexed path as the section name.
func (s *Store) walkValue(v jsonValue, path, key string, source string, minChunkLen int) {
	switch val := v.(type) {
	case jsonObject:
		for _, m := range val {
			memberPath := m.Key
			if path != "" {
				memberPath = path + "." + m.Key
			}
			s.walkValue(m.Value, memberPath, m.Key, source, minChunkLen)
		}
	case jsonArray:
		if items, ok := allStrings(val); ok && len(items) > 0 {
			var b strings.Builder
			b.WriteString(key + ":")
			for _, item := range items {
				b.WriteString("\n- " + item)
			}
			s.chunks = append(s.chunks, models.KnowledgeChunk{
				Content: b.String(),
				Source:  source,
				Section: path,
				Kind:    models.ChunkKindStructured,
			})
			return
		}
		for i, item := range val {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if path == "" {
				itemPath = fmt.Sprintf("[%d]", i)
			}
			s.walkValue(item, itemPath, key, source, minChunkLen)
		}
	case string:
		if len(val) > minChunkLen {
			s.chunks = append(s.chunks, models.KnowledgeChunk{
				Content: fmt.Sprintf("%s: %s", key, val),
				Source:  source,
				Section: path,
				Kind:    models.ChunkKindStructured,
			})
		}
	}
}

func allStrings(arr jsonArray) ([]string, bool) {
	items := make([]string, 0, len(arr))
	for _, v := range arr {
		str, ok := v.(string)
		if !ok {
			return nil, false
		}
		items = append(items, str)
	}
	return items, true
}

// Chunks returns the full chunk sequence. The returned slice must be
// treated as read-only.
func (s *Store) Chunks() []models.KnowledgeChunk {
	return s.chunks
}

// Chunk returns the chunk at a sequence position.
func (s *Store) Chunk(i int) (models.KnowledgeChunk, bool) {
	if i < 0 || i >= len(s.chunks) {
		return models.KnowledgeChunk{}, false
	}
	return s.chunks[i], true
}

func (s *Store) Len() int {
	return len(s.chunks)
}

// Stats summarizes the loaded knowledge base for the status endpoint.
func (s *Store) Stats() Stats {
	kinds := map[string]int{}
	seen := map[string]bool{}
	sources := []string{}
	for _, c := range s.chunks {
		kinds[string(c.Kind)]++
		if !seen[c.Source] {
			seen[c.Source] = true
			sources = append(sources, c.Source)
		}
	}
	return Stats{
		TotalChunks: len(s.chunks),
		Sources:     sources,
		ChunkKinds:  kinds,
	}
}
