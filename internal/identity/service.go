package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gallery-app/internal/domain/accounts"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when an account already exists for the email.
	ErrEmailTaken = errors.New("identity: email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

const tokenLifetime = 24 * time.Hour

// Service owns user records and bearer tokens. It is the internal stand-in
// for a hosted auth provider: accounts live in a relational table, sessions
// are stateless HS256 tokens.
type Service struct {
	db     *gorm.DB
	secret []byte
}

func NewService(db *gorm.DB, secret []byte) *Service {
	return &Service{db: db, secret: secret}
}

// CreateUser registers an account with the given role. adminID must be set
// for client accounts and nil for admins.
func (s *Service) CreateUser(email, password, name, role string, adminID *string) (*accounts.User, error) {
	var existing accounts.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := accounts.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		AdminID:      adminID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies an email/password pair.
func (s *Service) Authenticate(email, password string) (*accounts.User, error) {
	var user accounts.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// IssueToken signs a bearer token carrying the user's id, email and role.
func (s *Service) IssueToken(u *accounts.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	})
	return token.SignedString(s.secret)
}

// TempPassword returns a random initial password for admin-created client
// accounts. The client is expected to reset it out of band.
func TempPassword() string {
	b := make([]byte, 6)
	rand.Read(b)
	return hex.EncodeToString(b)
}
