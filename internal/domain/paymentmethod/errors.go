package paymentmethod

import "errors"

var (
	ErrNotFound  = errors.New("payment method not found")
	ErrNameTaken = errors.New("payment method name already exists")
	ErrBadForm   = errors.New("unknown payment form")
	ErrInUse     = errors.New("payment method is referenced by a subscription")
)
