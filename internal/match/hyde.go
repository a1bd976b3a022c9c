package match

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/model"
)

const hydeSystemPrompt = "You are an expert in business matching and business development."

// The five sections every HyDE document must contain. Downstream consumers
// (precedent lookup, embedding) assume a populated document.
var hydeSections = []string{
	"1. Strengths and weaknesses of both companies",
	"2. Synergies from collaboration",
	"3. Concrete collaboration ideas",
	"4. Market opportunities and challenges",
	"5. Success probability estimate",
}

// fallbackSuccessProbability is the fixed figure used in the templated
// fallback document.
const fallbackSuccessProbability = "70%"

// GenerateHyde synthesizes a hypothetical joint-analysis document for the two
// companies. It never fails: on provider error it emits a deterministic
// templated document populated with the profiles' field values, containing
// all five mandated section labels.
func (e *Engine) GenerateHyde(ctx context.Context, a, b model.CompanyProfile) (doc string, degraded bool) {
	callCtx, cancel := e.callCtx(ctx)
	defer cancel()

	out, err := e.provider.Complete(callCtx, hydeSystemPrompt, hydePrompt(a, b))
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out), false
	}

	zap.L().Warn("match: hyde generation degraded to template",
		zap.String("company_a", a.Name),
		zap.String("company_b", b.Name),
		zap.Error(err),
	)
	return fallbackHydeDocument(a, b), true
}

func hydePrompt(a, b model.CompanyProfile) string {
	var sb strings.Builder
	sb.WriteString("Write a detailed analytical report on the collaboration potential of the following two companies.\n\n")
	writeProfile(&sb, "Company A", a)
	writeProfile(&sb, "Company B", b)
	sb.WriteString("The report must include the following sections:\n")
	for _, s := range hydeSections {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeProfile(sb *strings.Builder, label string, p model.CompanyProfile) {
	fmt.Fprintf(sb, "%s:\nCompany name: %s\nIndustry: %s\nBusiness description: %s\n\n",
		label, p.Name, p.Industry, p.Description)
}

// fallbackHydeDocument is the deterministic degraded-mode document. All five
// section labels are present so downstream consumers see a full structure.
func fallbackHydeDocument(a, b model.CompanyProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Collaboration analysis: %s and %s\n\n", a.Name, b.Name)

	fmt.Fprintf(&sb, "%s\n%s operates in %s: %s. %s operates in %s: %s. Each company brings domain expertise the other lacks; limited shared history is the main weakness.\n\n",
		hydeSections[0], a.Name, a.Industry, a.Description, b.Name, b.Industry, b.Description)

	fmt.Fprintf(&sb, "%s\nCombining %s capabilities in %s with %s capabilities in %s can open cross-industry offerings neither company could deliver alone.\n\n",
		hydeSections[1], a.Name, a.Industry, b.Name, b.Industry)

	fmt.Fprintf(&sb, "%s\nA joint pilot product, shared distribution channels, and co-marketing to each partner's existing customer base.\n\n",
		hydeSections[2])

	fmt.Fprintf(&sb, "%s\nGrowing demand at the intersection of %s and %s presents an opportunity; coordination cost and brand alignment are the main challenges.\n\n",
		hydeSections[3], a.Industry, b.Industry)

	fmt.Fprintf(&sb, "%s\nEstimated success probability: %s.\n",
		hydeSections[4], fallbackSuccessProbability)

	return sb.String()
}
