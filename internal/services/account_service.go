// Package services holds the business logic between the HTTP handlers and the
// repositories.
package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/auth"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/logger"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
	"github.com/bricesuazo/eboto-api/internal/validation"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the acting account lacks permission
var ErrForbidden = errors.New("forbidden")

// AccountService handles registration and sign in
type AccountService struct {
	accounts  postgres.AccountRepository
	tokens    *auth.TokenManager
	validator validation.AccountValidation
	log       *log.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accounts postgres.AccountRepository, tokens *auth.TokenManager) *AccountService {
	return &AccountService{
		accounts:  accounts,
		tokens:    tokens,
		validator: validation.AccountValidation{},
		log:       logger.Service("account"),
	}
}

// RegisterRequest is the payload to create an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account with a hashed password
func (s *AccountService) Register(req RegisterRequest) (*voter.Account, error) {
	if err := s.validator.ValidateAccountName(req.Name); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAccountEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := voter.NewAccount(req.Email, req.Name, hash)
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}

	s.log.Info("account registered", "account_id", account.ID, "email", account.Email)
	return account, nil
}

// LoginRequest is the payload to sign in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a bearer token
func (s *AccountService) Login(req LoginRequest) (*voter.Account, string, error) {
	account, err := s.accounts.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password so the response does not
			// reveal which emails are registered
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	if err := auth.ComparePassword(account.PasswordHash, req.Password); err != nil {
		s.log.Warn("sign in rejected", "email", req.Email)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(account.ID.String(), account.Email)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("account signed in", "account_id", account.ID)
	return account, token, nil
}

// GetAccount loads an account by ID
func (s *AccountService) GetAccount(id string) (*voter.Account, error) {
	if err := validation.ValidateUUID(id, "account_id"); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, err
	}

	return account, nil
}
