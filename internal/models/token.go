package models

// TokenPayload is payload carried by the auth token.
type TokenPayload struct {
	UserID uint64
	Role   Role
}
