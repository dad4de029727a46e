package dto

// CreateExpenseRequest payload for registering a company expense.
type CreateExpenseRequest struct {
	Category    string `json:"category" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required"`
	Amount      int64  `json:"amount" validate:"required"`
}

// ExpenseQuery mirrors supported expense listing filters.
type ExpenseQuery struct {
	Category string
	From     string
	To       string
	Limit    int
	Offset   int
}
