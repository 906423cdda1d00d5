package galleries

import (
	"errors"
	"io"
	"log"
	"net/http"

	"gallery-app/internal/gallery"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *gallery.Service
}

func NewHandler(svc *gallery.Service) *Handler {
	return &Handler{svc: svc}
}

func mustUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gallery.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, gallery.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("gallery operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// List returns every gallery the calling admin owns.
func (h *Handler) List(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	out, err := h.svc.ListGalleries(callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"galleries": out})
}

func (h *Handler) Create(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	var input gallery.CreateGalleryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.CreateGallery(callerID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "gallery": g})
}

func (h *Handler) Update(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	var patch gallery.GalleryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.UpdateGallery(callerID, c.Param("galleryId"), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "gallery": g})
}

func (h *Handler) Delete(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteGallery(c.Request.Context(), callerID, c.Param("galleryId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadPhoto accepts a multipart upload under the form field "photo".
func (h *Handler) UploadPhoto(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	photo, err := h.svc.UploadPhoto(c.Request.Context(), callerID, c.Param("galleryId"),
		fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "photo": photo})
}

// ClientList returns the galleries shared with the calling client, photos
// enriched with signed URLs.
func (h *Handler) ClientList(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	out, err := h.svc.ListClientGalleries(c.Request.Context(), callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"galleries": out})
}

// ToggleFavorite flips the calling client's favorite marker on a photo.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	isFavorite, err := h.svc.ToggleFavorite(callerID, c.Param("galleryId"), c.Param("photoId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isFavorite": isFavorite})
}
