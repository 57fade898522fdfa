package chat

import (
	"strings"
	"time"

	"go-recruit-sse/internal/domain/recruiting"
)

type keyPointRule struct {
	category string
	keywords []string
}

var keyPointRules = []keyPointRule{
	{category: "Experience", keywords: []string{"years of experience", "experience", "background"}},
	{category: "Project highlight", keywords: []string{"project", "migrat", "built"}},
	{category: "Collaboration", keywords: []string{"team", "pair", "collaborat"}},
	{category: "Compensation", keywords: []string{"salary", "compensation", "range"}},
	{category: "Availability", keywords: []string{"available", "start", "notice"}},
	{category: "Work arrangement", keywords: []string{"remote", "hybrid", "on-site", "relocat"}},
}

// extractKeyPoints returns the categories text touches that conv has not
// recorded yet.
func extractKeyPoints(conv *recruiting.Conversation, text string, now time.Time) []recruiting.KeyPoint {
	lower := strings.ToLower(text)

	var points []recruiting.KeyPoint
	for _, rule := range keyPointRules {
		if conv.HasKeyPoint(rule.category) {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				points = append(points, recruiting.KeyPoint{
					Category:  rule.category,
					Text:      text,
					CreatedAt: now,
				})
				break
			}
		}
	}
	return points
}
