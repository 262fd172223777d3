package analyses

import "math"

const (
	contentFloor = 60
	atsFloor     = 55
)

var contentFactors = []Signal{
	SignalEmail,
	SignalPhone,
	SignalExperience,
	SignalEducation,
	SignalSkills,
	SignalQuantified,
	SignalActionVerbs,
	SignalKeywords,
	SignalAppropriateLength,
}

var atsFactors = []Signal{
	SignalEmail,
	SignalPhone,
	SignalLocation,
	SignalSkills,
	SignalExperience,
	SignalEducation,
	SignalKeywords,
	SignalStructure,
}

// ComputeScores scores a resume from its presence signals. Content is floored
// at 60 and ATS at 55.
func ComputeScores(text ResumeText) ScoreSet {
	return scoresFromSignals(DetectSignals(text))
}

func scoresFromSignals(sig SignalSet) ScoreSet {
	content := round(math.Max(100*float64(sig.Count(contentFactors...))/float64(len(contentFactors)), contentFloor))
	ats := round(math.Max(100*float64(sig.Count(atsFactors...))/float64(len(atsFactors)), atsFloor))

	formatting := 50
	if sig[SignalStructure] {
		formatting += 15
	}
	if sig[SignalAppropriateLength] {
		formatting += 15
	}
	if sig[SignalQuantified] {
		formatting += 10
	}
	if sig[SignalActionVerbs] {
		formatting += 10
	}
	if formatting > 100 {
		formatting = 100
	}

	return ScoreSet{
		Overall:    round(float64(content+ats+formatting) / 3),
		Content:    content,
		ATS:        ats,
		Formatting: formatting,
	}
}

// round rounds half away from zero; all inputs are non-negative.
func round(v float64) int {
	return int(math.Round(v))
}
