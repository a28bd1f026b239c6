package reminder

import (
	"testing"

	"eliteagenda/internal/model"
)

func TestClassifyHealthCategory(t *testing.T) {
	c := NewClassifier(nil)
	e := model.Event{Title: "Checkup", Category: model.CategoryHealth}
	if !c.IsHealth(e) {
		t.Error("health category should classify as health")
	}
}

func TestClassifyMedicineKeyword(t *testing.T) {
	c := NewClassifier(nil)

	cases := []struct {
		title string
		want  bool
	}{
		{"Tomar remédio", true},
		{"TOMAR REMÉDIO", true},
		{"Take medicine at noon", true},
		{"Team meeting", false},
		{"", false},
	}
	for _, tc := range cases {
		e := model.Event{Title: tc.title, Category: model.CategoryOther}
		if got := c.IsHealth(e); got != tc.want {
			t.Errorf("IsHealth(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestClassifyCustomKeywords(t *testing.T) {
	c := NewClassifier([]string{"pílula", "dose"})

	e := model.Event{Title: "Tomar a PÍLULA", Category: model.CategoryOther}
	if !c.IsHealth(e) {
		t.Error("custom keyword should match case-insensitively")
	}

	// Custom keywords replace the defaults.
	e = model.Event{Title: "Take medicine", Category: model.CategoryOther}
	if c.IsHealth(e) {
		t.Error("default keyword should not match when custom list is set")
	}
}
