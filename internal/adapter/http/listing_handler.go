package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rentease/listing-service/internal/adapter/http/middleware"
	"github.com/rentease/listing-service/internal/adapter/messaging/nats"
	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/listing/usecase"
)

// Index handles GET /listings. An optional search query narrows the window;
// a query that matches nothing comes back as an empty page, not an error.
func (h *Handler) Index(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.Index")
	defer span.End()

	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	filter := domain.Filter{Query: c.Query("search"), Page: page}
	span.SetAttributes(attribute.String("search.query", filter.Query), attribute.Int("search.page", page))

	result, err := h.listings.SearchListings(ctx, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNoSearchResults) {
			c.JSON(http.StatusOK, gin.H{
				"listings":   []listingResponse{},
				"current":    page,
				"totalPages": 0,
				"message":    "no listings matched your search",
			})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":   toListingResponses(result.Listings),
		"current":    result.Current,
		"totalPages": result.TotalPages,
	})
}

// Create handles POST /listings as multipart form data, image files under
// the "images" field.
func (h *Handler) Create(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.Create")
	defer span.End()

	p := middleware.PrincipalFrom(c)

	in, err := parseCreateInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files, err := readImageFiles(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	listing, err := h.listings.CreateListing(ctx, p, in, files)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publish(ctx, nats.SubjectListingCreated, nats.ListingEvent{ListingID: listing.ID, AuthorID: listing.Author.ID})
	c.JSON(http.StatusCreated, toListingResponse(listing))
}

// Show handles GET /listings/:id.
func (h *Handler) Show(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.Show")
	defer span.End()

	detail, err := h.listings.GetListing(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingDetailResponse(detail))
}

// Update handles PUT /listings/:id. Only submitted form fields change; a
// fresh image batch, when present, replaces the old one entirely.
func (h *Handler) Update(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.Update")
	defer span.End()

	p := middleware.PrincipalFrom(c)

	in, err := parseUpdateInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files, err := readImageFiles(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	listing, err := h.listings.UpdateListing(ctx, c.Param("id"), p, in, files)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publish(ctx, nats.SubjectListingUpdated, nats.ListingEvent{ListingID: listing.ID})
	c.JSON(http.StatusOK, toListingResponse(listing))
}

// Delete handles DELETE /listings/:id, cascading over the listing's
// dependent records before the listing itself goes.
func (h *Handler) Delete(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.Delete")
	defer span.End()

	p := middleware.PrincipalFrom(c)
	id := c.Param("id")

	if err := h.listings.DeleteListing(ctx, id, p); err != nil {
		h.respondError(c, err)
		return
	}

	h.publish(ctx, nats.SubjectListingDeleted, nats.ListingEvent{ListingID: id})
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

// ToggleLike handles POST /listings/:id/like.
func (h *Handler) ToggleLike(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.ToggleLike")
	defer span.End()

	p := middleware.PrincipalFrom(c)

	listing, err := h.listings.ToggleLike(ctx, c.Param("id"), p)
	if err != nil {
		h.respondError(c, err)
		return
	}

	liked := listing.LikedBy(p.ID)
	h.publish(ctx, nats.SubjectListingLiked, nats.LikeEvent{ListingID: listing.ID, UserID: p.ID, Liked: liked})
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": len(listing.Likes)})
}

// ListByAuthor handles GET /users/:id/listings.
func (h *Handler) ListByAuthor(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.ListByAuthor")
	defer span.End()

	listings, err := h.listings.ListByAuthor(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": toListingResponses(listings)})
}

// ---- form parsing ----

func parseCreateInput(c *gin.Context) (usecase.CreateListingInput, error) {
	in := usecase.CreateListingInput{
		Name:          c.PostForm("name"),
		Location:      c.PostForm("location"),
		Description:   c.PostForm("description"),
		ContactName:   c.PostForm("contactName"),
		ContactMobile: c.PostForm("contactMobile"),
		ContactEmail:  c.PostForm("contactEmail"),
	}

	var err error
	if raw := c.PostForm("price"); raw != "" {
		if in.Price, err = strconv.ParseFloat(raw, 64); err != nil {
			return in, fmt.Errorf("price must be a number")
		}
	}
	if in.Bedrooms, err = formCount(c, "bedrooms"); err != nil {
		return in, err
	}
	if in.Beds, err = formCount(c, "beds"); err != nil {
		return in, err
	}
	if in.Bathrooms, err = formCount(c, "bathrooms"); err != nil {
		return in, err
	}
	return in, nil
}

func parseUpdateInput(c *gin.Context) (usecase.UpdateListingInput, error) {
	var in usecase.UpdateListingInput

	in.Name = formString(c, "name")
	in.Location = formString(c, "location")
	in.Description = formString(c, "description")
	in.ContactName = formString(c, "contactName")
	in.ContactMobile = formString(c, "contactMobile")
	in.ContactEmail = formString(c, "contactEmail")

	if raw, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, fmt.Errorf("price must be a number")
		}
		in.Price = &price
	}
	var err error
	if in.Bedrooms, err = formCountPtr(c, "bedrooms"); err != nil {
		return in, err
	}
	if in.Beds, err = formCountPtr(c, "beds"); err != nil {
		return in, err
	}
	if in.Bathrooms, err = formCountPtr(c, "bathrooms"); err != nil {
		return in, err
	}
	return in, nil
}

// formString distinguishes "not submitted" from "submitted empty".
func formString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func formCount(c *gin.Context, key string) (int, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative whole number", key)
	}
	return n, nil
}

func formCountPtr(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s must be a non-negative whole number", key)
	}
	return &n, nil
}

// readImageFiles pulls the "images" parts out of the multipart body. The
// batch cap is checked here too so an oversized request is refused before
// its payload is read into memory.
func readImageFiles(c *gin.Context) ([]usecase.ImageFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: malformed upload", domain.ErrInvalidListingData)
	}

	headers := form.File["images"]
	if len(headers) > usecase.MaxImagesPerRequest {
		return nil, domain.ErrTooManyImages
	}

	files := make([]usecase.ImageFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", header.Filename, err)
		}
		files = append(files, usecase.ImageFile{Name: header.Filename, Data: data})
	}
	return files, nil
}
