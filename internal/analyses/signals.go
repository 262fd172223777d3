package analyses

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Signal is a named presence test over resume text. Matching is
// case-insensitive and substring based.
type Signal string

const (
	SignalEmail             Signal = "has-email"
	SignalPhone             Signal = "has-phone"
	SignalLocation          Signal = "has-location"
	SignalExperience        Signal = "has-experience-section"
	SignalEducation         Signal = "has-education-section"
	SignalSkills            Signal = "has-skills-section"
	SignalProjects          Signal = "has-projects-section"
	SignalQuantified        Signal = "has-quantified-results"
	SignalActionVerbs       Signal = "has-action-verbs"
	SignalKeywords          Signal = "has-relevant-keywords"
	SignalAppropriateLength Signal = "appropriate-length"
	SignalStructure         Signal = "has-paragraph-structure"
)

// Bounds for SignalAppropriateLength, inclusive, in characters.
const (
	MinAppropriateLength = 500
	MaxAppropriateLength = 8000
)

// SignalOrder is the fixed evaluation order used for reporting.
var SignalOrder = []Signal{
	SignalEmail,
	SignalPhone,
	SignalLocation,
	SignalExperience,
	SignalEducation,
	SignalSkills,
	SignalProjects,
	SignalQuantified,
	SignalActionVerbs,
	SignalKeywords,
	SignalAppropriateLength,
	SignalStructure,
}

var (
	phoneDigitsPattern = regexp.MustCompile(`\d{3}[- ]?\d{3}[- ]?\d{4}`)
	locationPattern    = regexp.MustCompile(`(?i)city|state|,\s*[a-z]{2}`)
	experiencePattern  = regexp.MustCompile(`(?i)experience|work|job|position|intern`)
	educationPattern   = regexp.MustCompile(`(?i)education|degree|university|college|bachelor|master`)
	skillsPattern      = regexp.MustCompile(`(?i)skills|proficient|experienced|programming|languages`)
	projectsPattern    = regexp.MustCompile(`(?i)projects|built|developed|created|portfolio`)
	quantifiedPattern  = regexp.MustCompile(`(?i)\d+%|\d+\+|increased|improved|reduced|managed \d+|\$\d+|\d+\s*(?:users|clients|projects|students)`)
	actionVerbPattern  = regexp.MustCompile(`(?i)developed|created|implemented|managed|led|designed|built|optimized|improved`)
	keywordPattern     = regexp.MustCompile(`(?i)software|programming|development|engineering|technology|coding|database|web|mobile|api`)
	structurePattern   = regexp.MustCompile(`\n\s*\n`)
)

// Present reports whether the signal holds for text. Unknown signals never hold.
func (s Signal) Present(text string) bool {
	switch s {
	case SignalEmail:
		return strings.Contains(text, "@")
	case SignalPhone:
		return phoneDigitsPattern.MatchString(text)
	case SignalLocation:
		return locationPattern.MatchString(text)
	case SignalExperience:
		return experiencePattern.MatchString(text)
	case SignalEducation:
		return educationPattern.MatchString(text)
	case SignalSkills:
		return skillsPattern.MatchString(text)
	case SignalProjects:
		return projectsPattern.MatchString(text)
	case SignalQuantified:
		return quantifiedPattern.MatchString(text)
	case SignalActionVerbs:
		return actionVerbPattern.MatchString(text)
	case SignalKeywords:
		return keywordPattern.MatchString(text)
	case SignalAppropriateLength:
		n := utf8.RuneCountInString(text)
		return n >= MinAppropriateLength && n <= MaxAppropriateLength
	case SignalStructure:
		return structurePattern.MatchString(text)
	default:
		return false
	}
}

// SignalSet records which signals hold for one resume.
type SignalSet map[Signal]bool

// DetectSignals evaluates every signal in SignalOrder.
func DetectSignals(text ResumeText) SignalSet {
	set := make(SignalSet, len(SignalOrder))
	for _, s := range SignalOrder {
		set[s] = s.Present(string(text))
	}
	return set
}

// Count returns how many of the named signals hold.
func (s SignalSet) Count(names ...Signal) int {
	n := 0
	for _, name := range names {
		if s[name] {
			n++
		}
	}
	return n
}

// Present lists the signals that hold, in SignalOrder.
func (s SignalSet) Present() []string {
	out := make([]string, 0, len(s))
	for _, name := range SignalOrder {
		if s[name] {
			out = append(out, string(name))
		}
	}
	return out
}
