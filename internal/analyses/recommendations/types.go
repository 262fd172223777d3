package recommendations

import (
	"fmt"
	"strings"
)

// Priority orders recommendations from most to least urgent.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Recommendation is one prioritized piece of guidance.
type Recommendation struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Priority    Priority `json:"priority"`
	Order       int      `json:"order"`
}

// Signals are the resume facts that decide which catalog entries apply.
type Signals struct {
	HasQuantifiedResults bool
	HasKeywords          bool
	HasProfessionalLinks bool
	HasActionVerbs       bool
	HasProjects          bool
}

// Mode selects how the catalog is emitted.
type Mode string

const (
	// ModeCatalog emits the four core entries for every resume, plus the
	// projects entry when no project work was detected.
	ModeCatalog Mode = "catalog"
	// ModeGated emits only the entries whose issue was detected.
	ModeGated Mode = "gated"
)

// ParseMode normalizes a mode string. Empty selects ModeCatalog.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModeCatalog):
		return ModeCatalog, nil
	case string(ModeGated):
		return ModeGated, nil
	default:
		return "", fmt.Errorf("recommendation mode %q is invalid", raw)
	}
}
