package models

// Actor is the caller identity resolved for a single request. A zero Actor
// is the anonymous attribution used when token claims could not be read.
type Actor struct {
	UserID   uint
	Username string
	Email    string
}

// RevokerID returns the user id to record as restorer, nil when unresolved.
func (a Actor) RevokerID() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
