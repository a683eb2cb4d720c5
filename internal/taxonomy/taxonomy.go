package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"

	"ai-helpdesk/internal/models"

	"go.uber.org/zap"
)

// Table is the read-only category metadata table, built once at startup
// and safe for concurrent reads.
type Table struct {
	meta map[models.Category]models.CategoryMeta
}

type categoriesFile struct {
	Categories map[string]models.CategoryMeta `json:"categories"`
}

// Load reads category metadata from a JSON document. A missing or
// malformed file is non-fatal: the built-in default set is used so the
// system stays operational.
func Load(path string, logger *zap.Logger) *Table {
	table, err := loadFile(path)
	if err != nil {
		logger.Warn("Failed to load category metadata, using built-in defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Defaults()
	}

	logger.Info("Category metadata loaded",
		zap.String("path", path),
		zap.Int("categories", len(table.meta)),
	)
	return table
}

func loadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc categoriesFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s contains no categories", path)
	}

	meta := make(map[models.Category]models.CategoryMeta, len(doc.Categories))
	for key, m := range doc.Categories {
		category, ok := models.ParseCategory(key)
		if !ok {
			// Unknown keys are skipped, not fatal: the enum is closed.
			continue
		}
		meta[category] = m
	}
	if len(meta) == 0 {
		return nil, fmt.Errorf("categories file %s matched no known categories", path)
	}

	return &Table{meta: meta}, nil
}

// Defaults returns the built-in fallback metadata set.
func Defaults() *Table {
	return &Table{meta: map[models.Category]models.CategoryMeta{
		models.CategoryPasswordReset: {
			Description:           "User needs to reset or recover their password",
			TypicalResolutionTime: "5 minutes",
			EscalationTriggers:    []string{"multiple failed attempts", "account locked"},
		},
		models.CategorySoftwareInstall: {
			Description:           "User needs help installing or updating software",
			TypicalResolutionTime: "15 minutes",
			EscalationTriggers:    []string{"admin rights required", "licensing issue"},
		},
		models.CategoryHardwareFailure: {
			Description:           "Computer, laptop or peripheral hardware is malfunctioning",
			TypicalResolutionTime: "2 hours",
			EscalationTriggers:    []string{"complete hardware failure", "data loss risk"},
		},
		models.CategoryNetworkConnectivity: {
			Description:           "User cannot connect to the network, VPN or internet",
			TypicalResolutionTime: "30 minutes",
			EscalationTriggers:    []string{"building-wide outage", "vpn failure"},
		},
		models.CategoryEmailConfiguration: {
			Description:           "User needs help configuring or accessing email",
			TypicalResolutionTime: "20 minutes",
			EscalationTriggers:    []string{"server-side issue", "mailbox corruption"},
		},
		models.CategorySecurityIncident: {
			Description:           "Suspected phishing, malware or unauthorized access",
			TypicalResolutionTime: "immediate",
			EscalationTriggers:    []string{"suspected breach", "malware detected", "phishing"},
		},
		models.CategoryPolicyQuestion: {
			Description:           "Question about IT policies or procedures",
			TypicalResolutionTime: "1 hour",
			EscalationTriggers:    []string{"compliance concern", "legal question"},
		},
	}}
}

// Meta returns the metadata for a category, falling back to the built-in
// default entry when the loaded table has no row for it.
func (t *Table) Meta(c models.Category) models.CategoryMeta {
	if m, ok := t.meta[c]; ok {
		return m
	}
	return Defaults().meta[c]
}

// Triggers returns the escalation trigger phrases for a category.
func (t *Table) Triggers(c models.Category) []string {
	return t.Meta(c).EscalationTriggers
}

// Len reports the number of categories with loaded metadata.
func (t *Table) Len() int {
	return len(t.meta)
}
