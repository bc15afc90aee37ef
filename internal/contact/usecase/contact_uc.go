package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rentease/listing-service/internal/contact/domain"
	listingdomain "github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

type CreateContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type ContactUsecase struct {
	repo   domain.ContactRepository
	logger *logger.Logger
}

func NewContactUsecase(repo domain.ContactRepository, log *logger.Logger) *ContactUsecase {
	return &ContactUsecase{repo: repo, logger: log}
}

// CreateContact stores a contact message from a logged-in user, snapshotting
// the submitter's identity alongside the form fields.
func (uc *ContactUsecase) CreateContact(ctx context.Context, p listingdomain.Principal, in CreateContactInput) (*domain.Contact, error) {
	if !p.Authenticated() {
		return nil, listingdomain.ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)
	if name == "" || email == "" || subject == "" || message == "" {
		return nil, domain.ErrInvalidContactData
	}

	contact := &domain.Contact{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Submitter: domain.SubmitterInfo{
			AccountID: p.ID,
			Username:  p.Username,
		},
		Status:    domain.StatusNew,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, contact); err != nil {
		uc.logger.Error("ContactUsecase.CreateContact: failed to store message", "account_id", p.ID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("ContactUsecase.CreateContact: message stored", "contact_id", contact.ID, "account_id", p.ID)
	return contact, nil
}
