package service

import "errors"

// Failure taxonomy of the submission pipeline. The first three are
// precondition failures with no side effects. ErrOrderCreateFailed leaves no
// partial state and is safe to retry. ErrOrderLinesFailed means an order row
// exists without lines; the cart is preserved so the customer can retry,
// which creates a second incomplete order unless the caller intervenes.
var (
	ErrUnauthenticated    = errors.New("caller is not authenticated")
	ErrEmptyCart          = errors.New("cart is empty, nothing to submit")
	ErrInvalidInput       = errors.New("delivery details are invalid")
	ErrOrderCreateFailed  = errors.New("order creation failed")
	ErrOrderLinesFailed   = errors.New("order line creation failed")
	ErrSubmissionInFlight = errors.New("a submission is already in flight for this cart")
)
