package artcontext

import (
	"testing"

	"github.com/hemlocksec/pii-radar/internal/model"
)

func TestAnalyzeMedical(t *testing.T) {
	text := "Patient John Doe BSN 111222333 diagnosed with diabetes."
	start := 21
	end := 30
	a := NewAnalyzer(DefaultWindow)
	cat, snippet := a.Analyze(text, start, end, text[start:end])
	if cat != model.ArticleMedical {
		t.Fatalf("expected Medical category, got %v", cat)
	}
	if snippet == "" {
		t.Errorf("expected a non-empty context snippet")
	}
}

func TestAnalyzeNoKeyword(t *testing.T) {
	text := "Account number 111222333 was updated on file."
	a := NewAnalyzer(DefaultWindow)
	cat, _ := a.Analyze(text, 15, 24, "111222333")
	if cat != model.ArticleNone {
		t.Fatalf("expected no category, got %v", cat)
	}
}

func TestFirstMatchWinsOrder(t *testing.T) {
	// Both medical and criminal keywords are present; Medical must win
	// because it is checked first.
	text := "The patient has a criminal record and was diagnosed 111222333."
	a := NewAnalyzer(DefaultWindow)
	cat, _ := a.Analyze(text, 52, 61, "111222333")
	if cat != model.ArticleMedical {
		t.Fatalf("expected Medical to win by first-match order, got %v", cat)
	}
}

func TestApplySeverity(t *testing.T) {
	if got := ApplySeverity(model.SeverityLow, model.ArticleMedical); got != model.SeverityCritical {
		t.Errorf("expected Critical upgrade, got %v", got)
	}
	if got := ApplySeverity(model.SeverityLow, model.ArticleNone); got != model.SeverityLow {
		t.Errorf("expected default severity preserved, got %v", got)
	}
}
