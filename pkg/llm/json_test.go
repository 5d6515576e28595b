package llm

import (
	"testing"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	input := `{"risk_level": "moderate", "child_risk": "limit"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_PlainArray(t *testing.T) {
	input := `[{"name": "water"}, {"name": "sugar"}]`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_WithThinkTags(t *testing.T) {
	input := `<think>
This looks like a synthetic dye.
</think>
{"risk_level": "harmful", "child_risk": "avoid"}`

	expected := `{"risk_level": "harmful", "child_risk": "avoid"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_WithMarkdownFence(t *testing.T) {
	input := "Here is the classification:\n```json\n{\"risk_level\": \"low\"}\n```"
	expected := `{"risk_level": "low"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_ProseAroundObject(t *testing.T) {
	input := `Based on my analysis {"risk_level": "moderate", "regulated": true} is my answer.`
	expected := `{"risk_level": "moderate", "regulated": true}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_NestedObject(t *testing.T) {
	input := `{"outer": {"inner": {"deep": [1, 2, 3]}}}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	input := `{"regulatory_note": "limit 0.6 g/kg {category B}", "ok": true}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_EscapedQuotesInStrings(t *testing.T) {
	input := `{"note": "called \"red 40\" on labels"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I cannot classify this ingredient.")
	if err == nil {
		t.Fatal("expected error for response without JSON")
	}
}

func TestExtractJSON_UnbalancedJSON(t *testing.T) {
	_, err := ExtractJSON(`{"risk_level": "moderate"`)
	if err == nil {
		t.Fatal("expected error for unbalanced JSON")
	}
}

func TestParseJSONResponse(t *testing.T) {
	type payload struct {
		RiskLevel string `json:"risk_level"`
		Regulated bool   `json:"regulated"`
	}

	result, err := ParseJSONResponse[payload]("```json\n{\"risk_level\": \"harmful\", \"regulated\": true}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskLevel != "harmful" || !result.Regulated {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestParseJSONResponse_TypeMismatch(t *testing.T) {
	type payload struct {
		Count int `json:"count"`
	}

	_, err := ParseJSONResponse[payload](`{"count": "not a number"}`)
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
}
