package analyses

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxSkills          = 12
	maxExperience      = 4
	nameScanLines      = 5
	titleMaxLength     = 100
	companyScanLines   = 3
	skillsNotListed    = "Skills not clearly listed"
	defaultCompany     = "Company"
	defaultDuration    = "Duration"
	defaultDescription = "Experience details from resume"
)

// skillVocabulary is matched case-insensitively as plain substrings, so
// "Java" also matches inside "JavaScript".
var skillVocabulary = []string{
	"JavaScript", "Python", "Java", "React", "Node.js", "SQL", "HTML", "CSS",
	"Git", "MongoDB", "Express", "TypeScript", "Angular", "Vue", "PHP", "C++", "C#",
	"AWS", "Docker", "Flask", "Bootstrap", "jQuery", "PostgreSQL", "MySQL",
	"Project Management", "Leadership", "Communication", "Problem Solving",
	"Machine Learning", "Data Analysis", "Figma", "Photoshop", "Excel", "PowerPoint",
}

var placeholderExperience = Experience{
	Title:       "Experience not clearly formatted",
	Company:     "Please check resume formatting",
	Duration:    "Dates not found",
	Description: "Experience section needs better formatting for extraction",
}

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(?:\+\d{1,3}[-. ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}|\d{10}`)
	namePattern     = regexp.MustCompile(`^[A-Za-z\s]+$`)
	cityPattern     = regexp.MustCompile(`[A-Za-z][A-Za-z .]*,[ \t]*[A-Z]{2}\b|[A-Za-z][A-Za-z ]*,[ \t]*[A-Za-z][A-Za-z ]*`)
	rolePattern     = regexp.MustCompile(`(?i)intern|developer|engineer|analyst|manager|coordinator|specialist|consultant`)
	domainPattern   = regexp.MustCompile(`(?i)software|web|data|marketing|sales|customer|project`)
	entryDelimiters = []string{"|", "•", "-"}
)

// ExtractProfile pulls contact details, skills and experience from the text.
// Fields that cannot be found are reported with sentinels; it never fails.
func ExtractProfile(text ResumeText) CandidateProfile {
	s := string(text)
	return CandidateProfile{
		Name:       extractName(s),
		Email:      firstMatch(emailPattern, s),
		Phone:      firstMatch(phonePattern, s),
		Location:   strings.TrimSpace(firstMatch(cityPattern, s)),
		Skills:     extractSkills(s),
		Experience: extractExperience(s),
	}
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindString(s); m != "" {
		return m
	}
	return NotFound
}

func nonBlankLines(s string) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func extractName(s string) string {
	lines := nonBlankLines(s)
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if n <= 3 || n >= 50 {
			continue
		}
		if strings.Contains(line, "@") || strings.Contains(line, "http") ||
			strings.Contains(line, "Phone") || strings.Contains(line, "Email") {
			continue
		}
		if namePattern.MatchString(line) {
			return line
		}
	}
	return NotFound
}

func extractSkills(s string) []string {
	lower := strings.ToLower(s)
	found := make([]string, 0, maxSkills)
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
			if len(found) == maxSkills {
				break
			}
		}
	}
	if len(found) == 0 {
		return []string{skillsNotListed}
	}
	return found
}

func isTitleLine(line string) bool {
	if utf8.RuneCountInString(line) >= titleMaxLength {
		return false
	}
	return rolePattern.MatchString(line) || domainPattern.MatchString(line)
}

// extractExperience opens an entry at each title line and looks a few lines
// ahead for a "Company | Dates" style line.
func extractExperience(s string) []Experience {
	lines := strings.Split(s, "\n")
	entries := make([]Experience, 0, maxExperience)
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || !isTitleLine(line) {
			continue
		}
		company, duration := companyAndDuration(lines, i+1)
		entries = append(entries, Experience{
			Title:       line,
			Company:     company,
			Duration:    duration,
			Description: defaultDescription,
		})
		if len(entries) == maxExperience {
			break
		}
	}
	if len(entries) == 0 {
		return []Experience{placeholderExperience}
	}
	return entries
}

func companyAndDuration(lines []string, start int) (string, string) {
	end := start + companyScanLines
	if end > len(lines) {
		end = len(lines)
	}
	for j := start; j < end; j++ {
		parts := splitEntryLine(strings.TrimSpace(lines[j]))
		if len(parts) < 2 {
			continue
		}
		company, duration := parts[0], parts[1]
		if company == "" {
			company = defaultCompany
		}
		if duration == "" {
			duration = defaultDuration
		}
		return company, duration
	}
	return defaultCompany, defaultDuration
}

// splitEntryLine splits on the strongest delimiter present, so a date range
// like "2021 - Present" survives a "Company | 2021 - Present" line. Splitting
// on every delimiter at once would shorten that duration to "2021".
func splitEntryLine(line string) []string {
	for _, delim := range entryDelimiters {
		if !strings.Contains(line, delim) {
			continue
		}
		parts := strings.Split(line, delim)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}
