package reminder

import (
	"strings"

	"eliteagenda/internal/model"
)

// DefaultMedicineKeywords matches medicine mentions in the deployment
// languages we ship with.
var DefaultMedicineKeywords = []string{"remédio", "medicine"}

// Classifier decides whether a firing event is a health/medicine reminder,
// which controls the notification title and whether the alarm starts.
type Classifier struct {
	keywords []string
}

// NewClassifier builds a classifier with the given medicine keywords.
// An empty list falls back to the defaults.
func NewClassifier(keywords []string) *Classifier {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultMedicineKeywords...)
	}
	return &Classifier{keywords: cleaned}
}

// IsHealth reports whether the event warrants the audible alarm: its
// category is health, or its title mentions a medicine keyword
// (case-insensitive).
func (c *Classifier) IsHealth(e model.Event) bool {
	if e.Category == model.CategoryHealth {
		return true
	}
	title := strings.ToLower(e.Title)
	for _, kw := range c.keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
