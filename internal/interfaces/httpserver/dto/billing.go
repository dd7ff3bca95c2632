package dto

// CheckoutRequest starts a hosted checkout session. Site overrides where the
// buyer lands after checkout.
type CheckoutRequest struct {
	Site string `json:"site"`
}

// CheckoutResponse carries the hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}
