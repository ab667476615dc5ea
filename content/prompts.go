package content

import (
	"fmt"
	"strings"
)

// Facts is the complete set of locality-derived values a prompt may embed.
// Nothing else ever reaches the generation service: no user input, so there
// is nothing to inject.
type Facts struct {
	Name            string
	RegionName      string
	RegionCode      string
	Population      int
	ElectricityRate float64
	AvgInstallCost  int
	IncentiveNames  []string
}

const introSystemPrompt = "You are an expert content writer specializing in EV charging " +
	"infrastructure and local home improvement guides. Write unique, data-driven " +
	"content that helps homeowners make informed decisions."

const faqSystemPrompt = "You are an expert in EV charging installation. Generate helpful, " +
	"locally-relevant FAQ content in JSON format."

// buildIntroPrompt produces the narrative prompt for one locality.
func buildIntroPrompt(f Facts) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a unique, helpful 250-word introduction for an article about EV charger installation in %s, %s.\n\n",
		f.Name, f.RegionName)
	b.WriteString("REQUIRED DATA POINTS TO INCLUDE NATURALLY:\n")
	fmt.Fprintf(&b, "- City: %s, %s\n", f.Name, f.RegionName)
	fmt.Fprintf(&b, "- Population: %d residents\n", f.Population)
	fmt.Fprintf(&b, "- Average installation cost: $%d\n", f.AvgInstallCost)
	fmt.Fprintf(&b, "- Local electricity rate: $%.2f/kWh\n", f.ElectricityRate)
	if len(f.IncentiveNames) > 0 {
		fmt.Fprintf(&b, "- Available incentives: %s\n", strings.Join(f.IncentiveNames, ", "))
	}
	b.WriteString("\nTONE: Helpful, authoritative, local-focused\n")
	b.WriteString("AVOID: Generic advice, repetitive phrases, obvious statements\n")
	fmt.Fprintf(&b, "INCLUDE: Specific mention of %s's characteristics (e.g., climate, EV adoption, local infrastructure)\n", f.Name)
	b.WriteString("FORMAT: 2-3 paragraphs, conversational but professional\n\n")
	b.WriteString(`Do not use phrases like "As a resident of..." or "If you live in...". Write directly and naturally.`)

	return b.String()
}

// buildFAQPrompt produces the FAQ prompt, asking for a JSON array of
// exactly FAQTarget question/answer objects.
func buildFAQPrompt(f Facts) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d unique FAQ questions and answers about EV charger installation specifically for %s, %s.\n\n",
		FAQTarget, f.Name, f.RegionName)
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- City: %s, %s\n", f.Name, f.RegionName)
	fmt.Fprintf(&b, "- Average cost: $%d\n", f.AvgInstallCost)
	fmt.Fprintf(&b, "- Electricity rate: $%.2f/kWh\n", f.ElectricityRate)
	fmt.Fprintf(&b, "- Region: %s\n", f.RegionName)
	if len(f.IncentiveNames) > 0 {
		fmt.Fprintf(&b, "- Available incentives: %s\n", strings.Join(f.IncentiveNames, ", "))
	}
	b.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "1. Questions must be specific to %s or %s\n", f.Name, f.RegionName)
	b.WriteString("2. Include local data points (costs, rates, incentives)\n")
	b.WriteString("3. Answer common homeowner concerns\n")
	b.WriteString("4. Be practical and actionable\n")
	b.WriteString("5. Vary question structure\n\n")
	b.WriteString("FORMAT: Return as JSON array:\n")
	b.WriteString(`[` + "\n" + `  {"question": "...", "answer": "..."},` + "\n" + `  ...` + "\n" + `]`)

	return b.String()
}
