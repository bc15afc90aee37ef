package domain

import (
	"context"
	"errors"
)

var ErrInvalidContactData = errors.New("name, email, subject and message are all required")

type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
}
