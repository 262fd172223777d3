package analyses

import "resume-reviewer/internal/analyses/recommendations"

// NotFound marks a profile field that could not be located.
const NotFound = "Not found"

// ResumeText is trimmed resume text of at least MinResumeLength characters.
// Construct it with Normalize.
type ResumeText string

// Experience is one job entry found in the resume.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// CandidateProfile holds contact and background fields pulled from the text.
type CandidateProfile struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
}

// ScoreSet holds the 0-100 scores for one resume.
type ScoreSet struct {
	Overall    int `json:"overall"`
	Content    int `json:"content"`
	ATS        int `json:"ats"`
	Formatting int `json:"formatting"`
}

// Recommendation is an alias of the recommendations module type.
type Recommendation = recommendations.Recommendation

// Insights is the narrative summary plus prioritized guidance.
type Insights struct {
	Summary            string           `json:"summary"`
	Strengths          []string         `json:"strengths"`
	Improvements       []string         `json:"improvements"`
	ATSStatus          string           `json:"atsStatus"`
	ContentFeedback    []string         `json:"contentFeedback"`
	FormattingFeedback []string         `json:"formattingFeedback"`
	Recommendations    []Recommendation `json:"recommendations"`
}

// AnalysisResult is the complete output of one analysis run.
type AnalysisResult struct {
	ID            string           `json:"id"`
	FileName      string           `json:"fileName"`
	PromptVersion string           `json:"promptVersion"`
	Provider      string           `json:"provider,omitempty"`
	Model         string           `json:"model,omitempty"`
	Scores        ScoreSet         `json:"scores"`
	Profile       CandidateProfile `json:"profile"`
	Insights      Insights         `json:"insights"`
}
