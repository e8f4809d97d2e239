package admin

// AdjustBalanceRequest is an admin balance correction. Negative amounts debit.
type AdjustBalanceRequest struct {
	Amount      int64  `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,notblank,max=500"`
}
