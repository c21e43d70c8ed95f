package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/teamforge-api/dto"
	"github.com/teamforge-api/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity provider: it issues and verifies the
// authenticated principals the collaboration engine consumes. The
// engine itself never sees raw credentials.
type AuthService struct {
	users   UserStore
	history HistoryStore
	rec     *HistoryRecorder
}

// NewAuthService creates a new auth service instance
func NewAuthService(users UserStore, history HistoryStore, rec *HistoryRecorder) *AuthService {
	return &AuthService{users: users, history: history, rec: rec}
}

// Register creates a new user account and returns a signed token
func (s *AuthService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Username: req.Username,
	}
	if err := s.users.Create(&user); err != nil {
		return nil, err
	}

	token, expiresAt, err := GenerateToken(user)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &dto.AuthResponse{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, expiresAt, err := GenerateToken(user)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &dto.AuthResponse{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// CurrentUser retrieves the profile of the authenticated user
func (s *AuthService) CurrentUser(id string) (models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// History returns the principal's audit history in append order
func (s *AuthService) History(userID string) ([]models.HistoryEntry, error) {
	return s.history.FindByUser(userID)
}

// SubmitSupportQuery records a support query into the principal's
// history. The append is best effort like every other history write.
func (s *AuthService) SubmitSupportQuery(principal models.Principal, query string) error {
	if query == "" {
		return models.NewValidationError("query", "support query is required")
	}
	s.rec.Record(principal.ID, fmt.Sprintf("Submitted support query: %s at %s", query, time.Now().Format(time.RFC3339)))
	return nil
}

// GenerateToken generates a new JWT token for a user
func GenerateToken(user models.User) (string, time.Time, error) {
	// Get secret key from environment
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return "", time.Time{}, errors.New("JWT_SECRET not set in environment")
	}

	// Token expires in 24 hours
	expiresAt := time.Now().Add(24 * time.Hour)

	claims := dto.TokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims if valid
func ValidateToken(tokenString string) (*dto.TokenClaims, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return nil, errors.New("JWT_SECRET not set in environment")
	}

	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
