package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"slidecast-backend/internal/models"
	"slidecast-backend/internal/services"
)

// DefaultMaxUploadBytes caps a deck upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 50 << 20

// multipartOverhead is the body allowance on top of the file limit for the
// boundary, part headers and any other form fields.
const multipartOverhead int64 = 1 << 20

var allowedDeckExtensions = map[string]bool{
	".pdf": true,
	".jpg": true,
}

// Deck turns an uploaded document into published page images.
type Deck interface {
	Ingest(ctx context.Context, sessionID string, data []byte) (*services.DeckResult, error)
}

type SlidesHandler struct {
	deck     Deck
	maxBytes int64
	logger   zerolog.Logger
}

func NewSlidesHandler(deck Deck, maxBytes int64, logger zerolog.Logger) *SlidesHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &SlidesHandler{
		deck:     deck,
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "slides").Logger(),
	}
}

// UploadDeck godoc
// @Summary     Upload a slide deck
// @Description Rasterizes a PDF (or a single JPG) into one PNG per page and publishes
// @Description every page to object storage under session/{sessionId}/page-{n}.png.
// @Description A page that fails to upload is listed in pages with its error and
// @Description left out of imageUrls.
// @Tags        slides
// @Accept      multipart/form-data
// @Produce     json
// @Param       sessionId path     string true "Session ID"
// @Param       file      formData file   true "PDF or JPG, at most 50 MiB"
// @Success     200 {object} models.SlidesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.InternalErrorResponse
// @Router      /session/{sessionId}/slides/pdf [post]
func (h *SlidesHandler) UploadDeck(c *gin.Context) {
	sessionID := c.Param("sessionId")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fileTooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file uploaded"})
		return
	}
	if header.Size > h.maxBytes {
		h.fileTooLarge(c)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedDeckExtensions[ext] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Unsupported file type",
			Message: "expected a .pdf or .jpg file",
		})
		return
	}

	data, err := readFormFile(header)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to read upload")
		c.JSON(http.StatusInternalServerError, models.InternalErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
		return
	}

	result, err := h.deck.Ingest(c.Request.Context(), sessionID, data)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid session id"})
		case errors.Is(err, services.ErrNoImages):
			h.logger.Error().Err(err).Str("session_id", sessionID).Msg("rasterization failed")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to process PDF into images"})
		default:
			status := models.HTTPStatus(err)
			if status >= http.StatusInternalServerError {
				h.logger.Error().Err(err).Str("session_id", sessionID).Msg("deck ingestion failed")
			}
			c.JSON(status, models.InternalErrorResponse{
				Error:   statusMessage(status),
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.SlidesResponse{
		Message:    "PDF processed successfully",
		TotalPages: result.TotalPages,
		ImageURLs:  result.ImageURLs(),
		Pages:      result.Pages,
	})
}

func (h *SlidesHandler) fileTooLarge(c *gin.Context) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "File too large",
		Message: fmt.Sprintf("maximum upload size is %d bytes", h.maxBytes),
	})
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}
