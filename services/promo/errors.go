package promo

import "lashstudio/utils"

// Stable rejection codes for promo evaluation.
const (
	CodeNotFound      = "promo_not_found"
	CodeNotYetValid   = "promo_not_yet_valid"
	CodeExpired       = "promo_expired"
	CodeLimitReached  = "promo_limit_reached"
	CodeBelowMinimum  = "promo_below_minimum"
	CodeNotApplicable = "promo_not_applicable"
)

func errNotFound() error {
	return utils.NewNotFoundError(CodeNotFound, "promo code not found")
}

func rejection(code, msg string) error {
	return utils.NewValidationError(code, msg)
}
