package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentease/listing-service/internal/adapter/http/middleware"
	"github.com/rentease/listing-service/internal/adapter/messaging/nats"
	contactusecase "github.com/rentease/listing-service/internal/contact/usecase"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateContact handles POST /contact for logged-in users.
func (h *Handler) CreateContact(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.CreateContact")
	defer span.End()

	p := middleware.PrincipalFrom(c)

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be valid JSON"})
		return
	}

	contact, err := h.contacts.CreateContact(ctx, p, contactusecase.CreateContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publish(ctx, nats.SubjectContactCreated, nats.ContactEvent{ContactID: contact.ID, AccountID: p.ID})
	c.JSON(http.StatusCreated, gin.H{"message": "your message has been received", "id": contact.ID})
}
