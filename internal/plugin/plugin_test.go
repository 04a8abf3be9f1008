package plugin

import (
	"testing"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/model"
)

func employeeDescriptor() model.PluginDescriptor {
	return model.PluginDescriptor{
		ID:       "acme_employee_id",
		Name:     "Acme Employee ID",
		Country:  model.UniversalCountry,
		Category: "custom",
		Severity: "medium",
		Patterns: []model.PatternConfig{
			{Pattern: `EMP-\d{6}`, Confidence: "medium"},
		},
		Validation: &model.ValidationConfig{
			MinLength:      10,
			MaxLength:      10,
			RequiredPrefix: "EMP-",
		},
		Examples:        []string{"EMP-123456"},
		ContextKeywords: []string{"employee"},
	}
}

func TestPluginContextBoost(t *testing.T) {
	det, err := New(employeeDescriptor())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	boosted := det.Detect("employee EMP-123456", detect.LocationContext{SourceID: "t.txt"})
	if len(boosted) != 1 {
		t.Fatalf("expected 1 match, got %d", len(boosted))
	}
	if boosted[0].Confidence != model.ConfidenceHigh {
		t.Errorf("expected boosted confidence High, got %v", boosted[0].Confidence)
	}

	unboosted := det.Detect("id EMP-123456 on file", detect.LocationContext{SourceID: "t.txt"})
	if len(unboosted) != 1 {
		t.Fatalf("expected 1 match, got %d", len(unboosted))
	}
	if unboosted[0].Confidence != model.ConfidenceMedium {
		t.Errorf("expected unboosted confidence Medium, got %v", unboosted[0].Confidence)
	}
}

func TestPluginRejectsInvalidRegex(t *testing.T) {
	desc := employeeDescriptor()
	desc.Patterns[0].Pattern = `EMP-\d{6`
	if _, err := New(desc); err == nil {
		t.Fatalf("expected an error for invalid regex")
	}
}

func TestPluginRejectsMissingID(t *testing.T) {
	desc := employeeDescriptor()
	desc.ID = ""
	if _, err := New(desc); err == nil {
		t.Fatalf("expected an error for missing id")
	}
}

func TestPluginChecksumDispatch(t *testing.T) {
	desc := model.PluginDescriptor{
		ID:       "generic_iban_plugin",
		Name:     "Generic IBAN Plugin",
		Country:  model.UniversalCountry,
		Severity: "high",
		Patterns: []model.PatternConfig{
			{Pattern: `[A-Z]{2}\d{2}[A-Z0-9]{10,30}`, Confidence: "medium"},
		},
		Validation: &model.ValidationConfig{Checksum: "iban"},
		Examples:   []string{"NL91ABNA0417164300"},
	}
	det, err := New(desc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	matches := det.Detect("NL91ABNA0417164300", detect.LocationContext{SourceID: "t.txt"})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}
