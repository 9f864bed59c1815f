package domain

import (
	"regexp"
	"strings"
)

type MatchType string

const (
	MatchTypeRegex    MatchType = "regex"
	MatchTypeContains MatchType = "contains"
)

// CategoryPattern links a text pattern to a category for auto-categorization
// of transaction descriptions.
type CategoryPattern struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Pattern    string    `json:"pattern"`
	MatchType  MatchType `json:"matchType"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// Matches reports whether the pattern matches the given description.
// Contains matching is case-insensitive; an invalid regex never matches.
func (p *CategoryPattern) Matches(description string) bool {
	switch p.MatchType {
	case MatchTypeContains:
		return strings.Contains(strings.ToLower(description), strings.ToLower(p.Pattern))
	case MatchTypeRegex:
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(description)
	}
	return false
}

// SuggestCategory returns the category id of the highest-confidence pattern
// matching the description. Patterns without a confidence rank below any
// pattern that has one.
func SuggestCategory(patterns []CategoryPattern, description string) (string, bool) {
	var best *CategoryPattern
	for i := range patterns {
		p := &patterns[i]
		if !p.Matches(description) {
			continue
		}
		if best == nil || confidence(p) > confidence(best) {
			best = p
		}
	}
	if best == nil {
		return "", false
	}
	return best.CategoryID, true
}

func confidence(p *CategoryPattern) float64 {
	if p.Confidence == nil {
		return 0
	}
	return *p.Confidence
}
