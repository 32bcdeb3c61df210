package models

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// BudgetRecord is one budget category as served by the budget backend
type BudgetRecord struct {
	Title  string  `json:"title" validate:"required"`
	Budget float64 `json:"budget" validate:"gte=0"`
}

// BudgetResponse is the payload of both budget endpoints
type BudgetResponse struct {
	MyBudget []BudgetRecord `json:"myBudget" validate:"dive"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that the payload carries a myBudget list and that every record
// has a non-empty title and a non-negative budget.
func (r *BudgetResponse) Validate() error {
	if r.MyBudget == nil {
		return fmt.Errorf("myBudget field is missing")
	}
	if err := recordValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid budget payload: %w", err)
	}
	return nil
}

// Titles returns the record titles in input order
func Titles(records []BudgetRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

// Budgets returns the record amounts in input order
func Budgets(records []BudgetRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Budget
	}
	return out
}
