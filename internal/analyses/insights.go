package analyses

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-reviewer/internal/analyses/recommendations"
)

const (
	maxSummaryLength = 600
	maxStrengths     = 5
	maxImprovements  = 4
	detailedLength   = 1000
)

const atsStatusTemplate = "Your resume structure is readable by ATS systems. To improve compatibility, ensure consistent formatting and include relevant keywords from job descriptions you're targeting."

var (
	defaultStrengths = []string{
		"Resume shows relevant experience for your field",
		"Professional presentation of information",
		"Clear structure makes it easy to read",
	}
	defaultImprovements = []string{
		"Consider adding more specific achievements with numbers",
		"Include keywords from target job descriptions",
		"Strengthen action verbs in experience descriptions",
	}
	contentFeedback = []string{
		"Experience section shows your background and progression",
		"Contact information allows employers to reach you",
		"Skills section highlights your technical abilities",
		"Overall content demonstrates your qualifications",
		"Consider adding more specific achievements with measurable results",
		"Ensure all sections are complete and up-to-date",
	}
	formattingFeedback = []string{
		"Use consistent formatting throughout all sections",
		"Ensure proper spacing and alignment for professional appearance",
		"Keep font choices professional and ATS-friendly",
		"Maintain consistent date formatting across all entries",
		"Use standard section headers that systems can recognize",
		"Consider bullet points for better readability",
	}
)

var (
	achievementPattern = regexp.MustCompile(`(?i)\d+%|\d+\+|managed \d+|\$\d+`)
	metricPattern      = regexp.MustCompile(`(?i)\d+%|\d+\+|managed \d+`)
	leadershipPattern  = regexp.MustCompile(`(?i)leadership|president|led|managed|team`)
	projectWorkPattern = regexp.MustCompile(`(?i)project|built|developed|created`)
	threeDigitsPattern = regexp.MustCompile(`\d{3}`)
	summaryPattern     = regexp.MustCompile(`(?i)summary|objective`)
	linksPattern       = regexp.MustCompile(`(?i)github|portfolio|linkedin`)
)

type rule struct {
	holds   func(text string) bool
	message string
}

var strengthRules = []rule{
	{
		holds: func(text string) bool {
			lower := strings.ToLower(text)
			return strings.Contains(lower, "gpa") || strings.Contains(lower, "3.") || strings.Contains(lower, "4.")
		},
		message: "Strong academic performance demonstrates dedication",
	},
	{holds: achievementPattern.MatchString, message: "Good use of quantified achievements and metrics"},
	{holds: leadershipPattern.MatchString, message: "Leadership experience sets you apart"},
	{holds: projectWorkPattern.MatchString, message: "Demonstrates hands-on project experience"},
	{
		holds: func(text string) bool {
			return strings.Contains(text, "@") && threeDigitsPattern.MatchString(text)
		},
		message: "Complete contact information is professional",
	},
}

var improvementRules = []rule{
	{holds: negate(summaryPattern.MatchString), message: "Add a professional summary to highlight key qualifications"},
	{holds: negate(linksPattern.MatchString), message: "Include links to your GitHub, portfolio, or LinkedIn profile"},
	{holds: negate(metricPattern.MatchString), message: "Add more specific metrics and quantified results"},
	{
		holds: func(text string) bool {
			return utf8.RuneCountInString(text) < detailedLength
		},
		message: "Consider adding more detail to your experience descriptions",
	},
}

func negate(f func(string) bool) func(string) bool {
	return func(s string) bool { return !f(s) }
}

// Synthesize combines the narrative with rule-based guidance for text.
func Synthesize(text ResumeText, narrative string, mode recommendations.Mode) Insights {
	return synthesize(text, narrative, DetectSignals(text), mode)
}

func synthesize(text ResumeText, narrative string, sig SignalSet, mode recommendations.Mode) Insights {
	s := string(text)
	return Insights{
		Summary:            truncateSummary(narrative),
		Strengths:          applyRules(strengthRules, s, maxStrengths, defaultStrengths),
		Improvements:       applyRules(improvementRules, s, maxImprovements, defaultImprovements),
		ATSStatus:          atsStatusTemplate,
		ContentFeedback:    cloneStrings(contentFeedback),
		FormattingFeedback: cloneStrings(formattingFeedback),
		Recommendations: recommendations.Generate(recommendations.Signals{
			HasQuantifiedResults: sig[SignalQuantified],
			HasKeywords:          sig[SignalKeywords],
			HasProfessionalLinks: linksPattern.MatchString(s),
			HasActionVerbs:       sig[SignalActionVerbs],
			HasProjects:          sig[SignalProjects],
		}, mode),
	}
}

func applyRules(rules []rule, text string, limit int, fallback []string) []string {
	out := make([]string, 0, limit)
	for _, r := range rules {
		if len(out) == limit {
			break
		}
		if r.holds(text) {
			out = append(out, r.message)
		}
	}
	if len(out) == 0 {
		return cloneStrings(fallback)
	}
	return out
}

// truncateSummary keeps at most maxSummaryLength characters of the narrative.
func truncateSummary(narrative string) string {
	if utf8.RuneCountInString(narrative) <= maxSummaryLength {
		return narrative
	}
	runes := []rune(narrative)
	return string(runes[:maxSummaryLength]) + "..."
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
