package service

import "github.com/google/uuid"

// Actor identifies the authenticated user performing an operation. Handlers
// build it from the JWT context and thread it explicitly into every service
// call; the core never reads identity from ambient state.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}
