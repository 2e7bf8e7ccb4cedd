package finding

import "testing"

func TestNew(t *testing.T) {
	f := New("img-alt-text", SeverityError, `<img src="a.png">`, "Image missing alt text")

	if f.RuleID != "img-alt-text" {
		t.Errorf("New() RuleID = %v, want img-alt-text", f.RuleID)
	}
	if f.Severity != SeverityError {
		t.Errorf("New() Severity = %v, want %v", f.Severity, SeverityError)
	}
	if f.Element != `<img src="a.png">` {
		t.Errorf("New() Element = %v, want original element", f.Element)
	}
	if f.Description != "Image missing alt text" {
		t.Errorf("New() Description = %v, want original description", f.Description)
	}
}

func TestKey(t *testing.T) {
	base := New("table-accessibility", SeverityWarning, "<table>", "Table missing caption")

	same := base
	same.Severity = SeverityError
	same.SuggestedFix = "Add a <caption> element"
	if base.Key() != same.Key() {
		t.Error("Key() changed with severity and fix, want identity on rule/element/description only")
	}

	otherElement := base
	otherElement.Element = `<table class="nested">`
	if base.Key() == otherElement.Key() {
		t.Error("Key() identical for different elements")
	}

	otherRule := base
	otherRule.RuleID = "semantic-structure"
	if base.Key() == otherRule.Key() {
		t.Error("Key() identical for different rules")
	}

	otherDescription := base
	otherDescription.Description = "Table has no header cells"
	if base.Key() == otherDescription.Key() {
		t.Error("Key() identical for different descriptions")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		finding Finding
		wantErr bool
	}{
		{
			name:    "valid finding",
			finding: New("language", SeverityError, "<html>", "Missing language declaration"),
			wantErr: false,
		},
		{
			name:    "missing rule ID",
			finding: New("", SeverityError, "<html>", "Missing language declaration"),
			wantErr: true,
		},
		{
			name:    "missing description",
			finding: New("language", SeverityError, "<html>", ""),
			wantErr: true,
		},
		{
			name:    "missing element",
			finding: New("language", SeverityError, "", "Missing language declaration"),
			wantErr: true,
		},
		{
			name:    "invalid severity",
			finding: New("language", Severity("fatal"), "<html>", "Missing language declaration"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.finding.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
