package dto

// MyKeyResponse shows the caller's active credential, prefix only.
type MyKeyResponse struct {
	OK        bool   `json:"ok"`
	KeyPrefix string `json:"key_prefix,omitempty"`
	IssuedAt  string `json:"issued_at,omitempty"`
}

// VerifyKeyRequest carries a raw token for verification.
type VerifyKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

// VerifyKeyResponse reports whether a token is valid and on which plan.
type VerifyKeyResponse struct {
	OK        bool   `json:"ok"`
	Plan      string `json:"plan,omitempty"`
	KeyPrefix string `json:"key_prefix,omitempty"`
}
