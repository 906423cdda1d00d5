package auth

import (
	"net/http"
	"regexp"

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

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

// AdminSignup registers a photographer account. This is the only
// account-creating route that needs no authentication.
func (h *Handler) AdminSignup(c *gin.Context) {
	var input struct {
		Email        string `json:"email" binding:"required"`
		Password     string `json:"password" binding:"required"`
		Name         string `json:"name" binding:"required"`
		BusinessName string `json:"businessName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isEmailValid(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}

	user, err := h.identity.CreateUser(input.Email, input.Password, input.Name, accounts.RoleAdmin, nil)
	if err == identity.ErrEmailTaken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during admin signup"})
		return
	}

	if _, err := h.galleries.RegisterAdminProfile(user, input.BusinessName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during admin signup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Login exchanges email/password for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.Authenticate(input.Email, input.Password)
	if err == identity.ErrInvalidCredentials {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during login"})
		return
	}

	token, err := h.identity.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
