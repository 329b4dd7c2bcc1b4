package model

// Identity is the authenticated caller as asserted by the external identity
// provider. It is never stored locally; rows reference Identity.ID only.
type Identity struct {
	ID    string
	Email string
}
