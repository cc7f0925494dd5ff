package session

// CreateRequest represents session creation request body. The body is
// optional; without a locale the Accept-Language header is used.
type CreateRequest struct {
	Locale string `json:"locale" validate:"locale"`
}

// ResetRequest represents new album request body
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}
