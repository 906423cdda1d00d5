package clients

import (
	"net/http"

	"gallery-app/internal/domain/accounts"
	"gallery-app/internal/gallery"
	"gallery-app/internal/identity"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	identity  *identity.Service
	galleries *gallery.Service
}

func NewHandler(id *identity.Service, svc *gallery.Service) *Handler {
	return &Handler{identity: id, galleries: svc}
}

func mustUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// Create registers a client account under the calling admin. The account
// gets a generated temporary password; the returned profile never includes
// credentials.
func (h *Handler) Create(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input struct {
		Email     string   `json:"email" binding:"required"`
		Name      string   `json:"name" binding:"required"`
		Galleries []string `json:"galleries"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.CreateUser(input.Email, identity.TempPassword(), input.Name, accounts.RoleClient, &callerID)
	if err == identity.ErrEmailTaken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during client creation"})
		return
	}

	profile, err := h.galleries.RegisterClientProfile(user, callerID, input.Galleries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during client creation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "client": profile})
}

// List returns the calling admin's client profiles.
func (h *Handler) List(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}

	clients, err := h.galleries.ListClients(callerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error listing clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}
