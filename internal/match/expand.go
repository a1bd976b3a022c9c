package match

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const expandSystemPrompt = "You are a business matching expert."

// fallbackKeywordRules maps crude industry/description substrings to curated
// keyword lists used when the provider is unavailable. First match wins.
var fallbackKeywordRules = []struct {
	triggers []string
	keywords string
}{
	{
		triggers: []string{"food", "beverage", "restaurant", "agricult"},
		keywords: "food production, supply chain, local sourcing, product development, retail distribution, quality assurance, consumer brands, sustainability, packaging, export",
	},
	{
		triggers: []string{"software", "technology", "it ", "saas", "digital"},
		keywords: "software development, digital transformation, cloud services, data analytics, system integration, automation, platform business, API, subscription, cybersecurity",
	},
	{
		triggers: []string{"manufactur", "industrial", "factory", "machin"},
		keywords: "manufacturing, process automation, quality control, supply chain, OEM partnership, precision engineering, lean production, equipment, logistics, procurement",
	},
	{
		triggers: []string{"retail", "commerce", "wholesale", "store"},
		keywords: "retail, e-commerce, omnichannel, merchandising, customer loyalty, point of sale, inventory management, private label, distribution, market expansion",
	},
	{
		triggers: []string{"health", "medical", "pharma", "care"},
		keywords: "healthcare, medical devices, patient services, clinical data, regulatory compliance, telemedicine, wellness, diagnostics, care coordination, research collaboration",
	},
	{
		triggers: []string{"tourism", "travel", "hotel", "hospitality"},
		keywords: "tourism, hospitality, local experiences, destination marketing, seasonal demand, booking platforms, regional partnerships, cultural programs, transport, events",
	},
}

const genericFallbackKeywords = "business matching, partnership, collaboration, synergy, market expansion, new products, customer base, distribution channels, innovation, growth strategy"

// ExpandQuery asks the provider for partnership-discovery keywords for the
// profile. It never fails: on provider error it substitutes a keyword set
// from a small rule table keyed by industry/description content.
func (e *Engine) ExpandQuery(ctx context.Context, industry, description string) (keywords string, degraded bool) {
	callCtx, cancel := e.callCtx(ctx)
	defer cancel()

	out, err := e.provider.Complete(callCtx, expandSystemPrompt, expandPrompt(industry, description))
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out), false
	}

	zap.L().Warn("match: query expansion degraded to rule table",
		zap.String("industry", industry),
		zap.Error(err),
	)
	return fallbackKeywords(industry, description), true
}

func expandPrompt(industry, description string) string {
	var b strings.Builder
	b.WriteString("From the following industry and business description, generate at most ten keywords useful for business matching discovery.\n")
	b.WriteString("Industry: ")
	b.WriteString(industry)
	b.WriteString("\nBusiness description: ")
	b.WriteString(description)
	b.WriteString("\n\nRelated keywords (comma separated):")
	return b.String()
}

// fallbackKeywords picks a curated list by crude substring match on the
// industry and description, or the generic list when nothing matches.
func fallbackKeywords(industry, description string) string {
	haystack := strings.ToLower(industry + " " + description)
	for _, rule := range fallbackKeywordRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(haystack, trigger) {
				return rule.keywords
			}
		}
	}
	return genericFallbackKeywords
}
