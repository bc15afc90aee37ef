package domain

import "time"

type ContactStatus string

const (
	StatusNew      ContactStatus = "new"
	StatusRead     ContactStatus = "read"
	StatusReplied  ContactStatus = "replied"
	StatusResolved ContactStatus = "resolved"
)

// SubmitterInfo is the snapshot of the logged-in user who sent the message.
type SubmitterInfo struct {
	AccountID string
	Username  string
}

type Contact struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	Submitter SubmitterInfo
	Status    ContactStatus
	CreatedAt time.Time
}
