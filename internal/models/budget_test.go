package models

import (
	"encoding/json"
	"testing"
)

func TestBudgetResponseDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
		expectLen   int
	}{
		{
			name:      "two records",
			body:      `{"myBudget":[{"title":"Food","budget":100},{"title":"Rent","budget":900}]}`,
			expectLen: 2,
		},
		{
			name:      "empty list is valid",
			body:      `{"myBudget":[]}`,
			expectLen: 0,
		},
		{
			name:        "missing myBudget",
			body:        `{"budget":[]}`,
			expectError: true,
		},
		{
			name:        "empty title",
			body:        `{"myBudget":[{"title":"","budget":10}]}`,
			expectError: true,
		},
		{
			name:        "negative budget",
			body:        `{"myBudget":[{"title":"Food","budget":-1}]}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp BudgetResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}

			err := resp.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("Expected validation error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected validation error: %v", err)
			}
			if len(resp.MyBudget) != tt.expectLen {
				t.Errorf("Expected %d records, got %d", tt.expectLen, len(resp.MyBudget))
			}
		})
	}
}

func TestTitlesAndBudgetsKeepOrder(t *testing.T) {
	records := []BudgetRecord{{Title: "Rent", Budget: 900}, {Title: "Food", Budget: 100}}

	titles := Titles(records)
	budgets := Budgets(records)

	if titles[0] != "Rent" || titles[1] != "Food" {
		t.Errorf("Unexpected title order: %v", titles)
	}
	if budgets[0] != 900 || budgets[1] != 100 {
		t.Errorf("Unexpected budget order: %v", budgets)
	}
}

func TestPieSeriesColorAtCycles(t *testing.T) {
	s := PieSeries{BackgroundColor: []string{"#a", "#b"}}
	if got := s.ColorAt(3); got != "#b" {
		t.Errorf("Expected #b, got %s", got)
	}
	if got := (PieSeries{}).ColorAt(0); got != "" {
		t.Errorf("Expected empty color, got %s", got)
	}

	var nilSet *PieDataset
	if nilSet.Len() != 0 {
		t.Error("Expected nil dataset length 0")
	}
}
