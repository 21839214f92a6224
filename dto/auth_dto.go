// Package dto holds request bodies (bound with gin, JSON or form) and the
// payloads rendered inside the response envelope.
package dto

import "github.com/google/uuid"

// ─── Requests ────────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Mobile   string `json:"mobile" form:"mobile" binding:"required,max=18,mobile"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile" form:"mobile" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenRequest carries a refresh token for /refresh/ and /logout/.
type TokenRequest struct {
	Refresh string `json:"refresh" form:"refresh" binding:"required"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type RegisterResponse struct {
	UUID   uuid.UUID `json:"uuid"`
	Mobile string    `json:"mobile"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
