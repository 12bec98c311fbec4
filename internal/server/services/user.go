package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/server/auth"
	"github.com/dmitrijs2005/sumdays/internal/server/models"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/repomanager"
)

var generateToken = auth.GenerateToken

type UserService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	jwtSecret        []byte
	validityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, secret string, validity time.Duration) *UserService {
	return &UserService{
		db:               db,
		repomanager:      m,
		jwtSecret:        []byte(secret),
		validityDuration: validity,
	}
}

// IssueToken signs an access token for userID. The user row itself is
// created lazily on first sync.
func (s *UserService) IssueToken(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", common.ErrorValidation)
	}
	token, err := generateToken(userID, s.jwtSecret, s.validityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// Get loads a provisioned user.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).Get(ctx, userID)
}
