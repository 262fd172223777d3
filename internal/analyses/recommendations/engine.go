package recommendations

import (
	"sort"
	"strings"
	"unicode"
)

// CatalogVersion identifies the recommendation copy below.
const CatalogVersion = "rec_v1"

type entry struct {
	rec Recommendation
	// core entries are emitted in catalog mode regardless of signals.
	core bool
	// needed reports whether the resume shows the issue the entry addresses.
	needed func(Signals) bool
}

var catalog = []entry{
	{
		rec: Recommendation{
			Category:    "IMPACT",
			Title:       "Quantify Your Impact",
			Description: `Add specific numbers, percentages, or results to your experience descriptions. For example: "Improved performance by 25%" or "Managed team of 5" or "Increased engagement by 40%".`,
			Impact:      "Makes your accomplishments concrete and impressive to employers",
			Priority:    PriorityHigh,
		},
		core:   true,
		needed: func(s Signals) bool { return !s.HasQuantifiedResults },
	},
	{
		rec: Recommendation{
			Category:    "KEYWORDS",
			Title:       "Optimize for Keywords",
			Description: "Review job descriptions for positions you want and include relevant keywords in your resume. Focus on technical skills, tools, and industry terms.",
			Impact:      "Helps your resume pass through applicant tracking systems",
			Priority:    PriorityHigh,
		},
		core:   true,
		needed: func(s Signals) bool { return !s.HasKeywords },
	},
	{
		rec: Recommendation{
			Category:    "LINKS",
			Title:       "Add Professional Links",
			Description: "Include links to your GitHub profile, personal portfolio website, or LinkedIn. Make sure these profiles showcase your best work.",
			Impact:      "Allows employers to see your actual work and skills",
			Priority:    PriorityMedium,
		},
		core:   true,
		needed: func(s Signals) bool { return !s.HasProfessionalLinks },
	},
	{
		rec: Recommendation{
			Category:    "LANGUAGE",
			Title:       "Strengthen Action Verbs",
			Description: `Use strong action words like "developed," "implemented," "led," "achieved," "optimized," "designed," "created" instead of weak verbs.`,
			Impact:      "Makes your experience sound more dynamic and impactful",
			Priority:    PriorityMedium,
		},
		core:   true,
		needed: func(s Signals) bool { return !s.HasActionVerbs },
	},
	{
		rec: Recommendation{
			Category:    "PROJECTS",
			Title:       "Add a Projects Section",
			Description: "List two or three projects you built, with the tools you used and what each one achieved. Link to the code or a live demo where you can.",
			Impact:      "Shows hands-on ability when work experience is still limited",
			Priority:    PriorityLow,
		},
		needed: func(s Signals) bool { return !s.HasProjects },
	},
}

// fallbackTitle is emitted in gated mode when no entry applies.
const fallbackTitle = "Optimize for Keywords"

// Catalog returns every recommendation in priority order.
func Catalog() []Recommendation {
	out := make([]Recommendation, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, withID(e.rec))
	}
	sortRecommendations(out)
	number(out)
	return out
}

// Generate selects recommendations for a resume. The result is always a
// fresh slice in High, Medium, Low order and never empty.
func Generate(signals Signals, mode Mode) []Recommendation {
	out := make([]Recommendation, 0, len(catalog))
	for _, e := range catalog {
		include := e.needed(signals)
		if mode != ModeGated && e.core {
			include = true
		}
		if include {
			out = append(out, withID(e.rec))
		}
	}
	if len(out) == 0 {
		for _, e := range catalog {
			if e.rec.Title == fallbackTitle {
				out = append(out, withID(e.rec))
			}
		}
	}
	out = dedupe(out)
	sortRecommendations(out)
	number(out)
	return out
}

func withID(rec Recommendation) Recommendation {
	rec.ID = slugify(rec.Title)
	return rec
}

func number(items []Recommendation) {
	for i := range items {
		items[i].Order = i + 1
	}
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// sortRecommendations orders by priority, keeping catalog order within a tier.
func sortRecommendations(items []Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		return priorityRank(items[i].Priority) > priorityRank(items[j].Priority)
	})
}

func dedupe(items []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(items))
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}
