package models

import "strings"

// Category is the closed set of request categories the classifier can emit.
type Category string

const (
	CategoryPasswordReset       Category = "password_reset"
	CategorySoftwareInstall     Category = "software_installation"
	CategoryHardwareFailure     Category = "hardware_failure"
	CategoryNetworkConnectivity Category = "network_connectivity"
	CategoryEmailConfiguration  Category = "email_configuration"
	CategorySecurityIncident    Category = "security_incident"
	CategoryPolicyQuestion      Category = "policy_question"
)

// AllCategories returns the categories in their canonical enumeration order.
// This order is the deterministic tie-break everywhere a "first wins" rule
// applies (classifier fallback, default category).
func AllCategories() []Category {
	return []Category{
		CategoryPasswordReset,
		CategorySoftwareInstall,
		CategoryHardwareFailure,
		CategoryNetworkConnectivity,
		CategoryEmailConfiguration,
		CategorySecurityIncident,
		CategoryPolicyQuestion,
	}
}

// ParseCategory resolves a raw key to a known category.
func ParseCategory(key string) (Category, bool) {
	key = strings.TrimSpace(strings.ToLower(key))
	for _, c := range AllCategories() {
		if string(c) == key {
			return c, true
		}
	}
	return "", false
}

// DisplayName renders a category key as a human-readable label,
// e.g. "password_reset" -> "Password Reset".
func (c Category) DisplayName() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CategoryMeta is the read-only side table entry attached to a category.
type CategoryMeta struct {
	Description           string   `json:"description"`
	TypicalResolutionTime string   `json:"typical_resolution_time"`
	EscalationTriggers    []string `json:"escalation_triggers"`
}

// UrgencyLevel is the ordered severity of an escalation verdict.
type UrgencyLevel string

const (
	UrgencyNormal   UrgencyLevel = "normal"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

var urgencyRank = map[UrgencyLevel]int{
	UrgencyNormal:   0,
	UrgencyHigh:     1,
	UrgencyCritical: 2,
}

// Raise returns the higher of the two levels. Urgency is only ever
// upgraded during rule evaluation, never lowered.
func (u UrgencyLevel) Raise(to UrgencyLevel) UrgencyLevel {
	if urgencyRank[to] > urgencyRank[u] {
		return to
	}
	return u
}
