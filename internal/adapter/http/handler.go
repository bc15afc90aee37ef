package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	accountdomain "github.com/rentease/listing-service/internal/account/domain"
	accountusecase "github.com/rentease/listing-service/internal/account/usecase"
	"github.com/rentease/listing-service/internal/adapter/messaging/nats"
	contactdomain "github.com/rentease/listing-service/internal/contact/domain"
	contactusecase "github.com/rentease/listing-service/internal/contact/usecase"
	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/listing/usecase"
	"github.com/rentease/listing-service/internal/platform/logger"
)

var tracer = otel.Tracer("listing-service/http-handler")

type Handler struct {
	listings  *usecase.ListingUsecase
	recovery  *accountusecase.RecoveryUsecase
	contacts  *contactusecase.ContactUsecase
	publisher *nats.Publisher
	logger    *logger.Logger
}

func NewHandler(
	listings *usecase.ListingUsecase,
	recovery *accountusecase.RecoveryUsecase,
	contacts *contactusecase.ContactUsecase,
	publisher *nats.Publisher,
	log *logger.Logger,
) *Handler {
	return &Handler{
		listings:  listings,
		recovery:  recovery,
		contacts:  contacts,
		publisher: publisher,
		logger:    log,
	}
}

// publish emits a domain event; delivery problems are logged, never
// surfaced to the client.
func (h *Handler) publish(ctx context.Context, subject string, data interface{}) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, subject, data); err != nil {
		h.logger.Warn("Handler: event publish failed", "subject", subject, "error", err.Error())
	}
}

// respondError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a storage-level failure and stays generic on the wire.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidListingData),
		errors.Is(err, domain.ErrNoImages),
		errors.Is(err, domain.ErrInvalidImageType),
		errors.Is(err, domain.ErrTooManyImages),
		errors.Is(err, contactdomain.ErrInvalidContactData),
		errors.Is(err, accountdomain.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, accountdomain.ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Handler: request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
	}
}

// ---- response shapes ----

type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type listingResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Price         float64        `json:"price"`
	Images        []string       `json:"images"`
	Cover         string         `json:"cover"`
	Bedrooms      int            `json:"bedrooms"`
	Beds          int            `json:"beds"`
	Bathrooms     int            `json:"bathrooms"`
	Location      string         `json:"location"`
	Description   string         `json:"description"`
	ContactName   string         `json:"contactName"`
	ContactMobile string         `json:"contactMobile"`
	ContactEmail  string         `json:"contactEmail"`
	Author        authorResponse `json:"author"`
	Likes         []string       `json:"likes"`
	Rating        float64        `json:"rating"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type commentResponse struct {
	ID        string         `json:"id"`
	Author    authorResponse `json:"author"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
}

type reviewResponse struct {
	ID        string         `json:"id"`
	Author    authorResponse `json:"author"`
	Rating    int            `json:"rating"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
}

type userRefResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type listingDetailResponse struct {
	Listing  listingResponse   `json:"listing"`
	Comments []commentResponse `json:"comments"`
	Reviews  []reviewResponse  `json:"reviews"`
	Likers   []userRefResponse `json:"likers"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:            l.ID,
		Name:          l.Name,
		Price:         l.Price,
		Images:        l.Images,
		Cover:         l.Cover(),
		Bedrooms:      l.Bedrooms,
		Beds:          l.Beds,
		Bathrooms:     l.Bathrooms,
		Location:      l.Location,
		Description:   l.Description,
		ContactName:   l.ContactName,
		ContactMobile: l.ContactMobile,
		ContactEmail:  l.ContactEmail,
		Author:        authorResponse{ID: l.Author.ID, Username: l.Author.Username},
		Likes:         l.Likes,
		Rating:        l.Rating,
		CreatedAt:     l.CreatedAt,
	}
}

func toListingDetailResponse(d *domain.ListingDetail) listingDetailResponse {
	comments := make([]commentResponse, 0, len(d.Comments))
	for _, cm := range d.Comments {
		comments = append(comments, commentResponse{
			ID:        cm.ID,
			Author:    authorResponse{ID: cm.Author.ID, Username: cm.Author.Username},
			Text:      cm.Text,
			CreatedAt: cm.CreatedAt,
		})
	}
	reviews := make([]reviewResponse, 0, len(d.Reviews))
	for _, rv := range d.Reviews {
		reviews = append(reviews, reviewResponse{
			ID:        rv.ID,
			Author:    authorResponse{ID: rv.Author.ID, Username: rv.Author.Username},
			Rating:    rv.Rating,
			Text:      rv.Text,
			CreatedAt: rv.CreatedAt,
		})
	}
	likers := make([]userRefResponse, 0, len(d.Likers))
	for _, lk := range d.Likers {
		likers = append(likers, userRefResponse{ID: lk.ID, Username: lk.Username})
	}
	return listingDetailResponse{
		Listing:  toListingResponse(d.Listing),
		Comments: comments,
		Reviews:  reviews,
		Likers:   likers,
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}
