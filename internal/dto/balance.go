package dto

import (
	"time"

	"github.com/SscSPs/balance_updater/internal/core/domain"
	"github.com/SscSPs/balance_updater/internal/utils"
	"github.com/shopspring/decimal"
)

// SubmitBalanceRequest carries the operator's raw balance text, e.g. "$12,345.67".
type SubmitBalanceRequest struct {
	Input string `json:"input" binding:"required,max=64,balanceinput"`
}

// BalanceRecordResponse defines the structure for API responses containing a balance record.
type BalanceRecordResponse struct {
	RecordID    string          `json:"recordID"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
	Formatted   string          `json:"formatted"`
	RecordDate  string          `json:"recordDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// CurrentBalanceResponse is returned by the current balance endpoint.
// HasData is false (and Amount zero) when nothing has been recorded yet.
type CurrentBalanceResponse struct {
	AccountName string           `json:"accountName"`
	HasData     bool             `json:"hasData"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Formatted   string           `json:"formatted"`
	RecordDate  *string          `json:"recordDate,omitempty"`
}

// ListBalancesParams defines query parameters for listing balance history.
type ListBalancesParams struct {
	Limit     int    `form:"limit,default=30" binding:"min=1,max=366"`
	NextToken string `form:"nextToken"`
}

// ListBalancesResponse wraps one page of balance history.
type ListBalancesResponse struct {
	Records   []BalanceRecordResponse `json:"records"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ToBalanceRecordResponse converts a domain.BalanceRecord to BalanceRecordResponse DTO
func ToBalanceRecordResponse(r *domain.BalanceRecord) BalanceRecordResponse {
	return BalanceRecordResponse{
		RecordID:    r.RecordID,
		AccountName: r.AccountName,
		Amount:      r.Amount,
		Formatted:   utils.FormatCurrency(r.Amount),
		RecordDate:  r.RecordDate.Format(domain.DateLayout),
		CreatedAt:   r.CreatedAt,
		CreatedBy:   r.CreatedBy,
	}
}

// ToBalanceRecordResponses converts a slice of domain records.
func ToBalanceRecordResponses(records []domain.BalanceRecord) []BalanceRecordResponse {
	responses := make([]BalanceRecordResponse, len(records))
	for i := range records {
		responses[i] = ToBalanceRecordResponse(&records[i])
	}
	return responses
}

// ToCurrentBalanceResponse converts the reader result for the API.
func ToCurrentBalanceResponse(cb domain.CurrentBalance) CurrentBalanceResponse {
	resp := CurrentBalanceResponse{
		AccountName: cb.AccountName,
		HasData:     cb.HasData,
		Formatted:   utils.FormatCurrency(cb.Amount),
	}
	if cb.HasData {
		amount := cb.Amount
		resp.Amount = &amount
	}
	if cb.RecordDate != nil {
		d := cb.RecordDate.Format(domain.DateLayout)
		resp.RecordDate = &d
	}
	return resp
}
