package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/logger"
)

// PostgresAccountRepository implements AccountRepository using GORM
type PostgresAccountRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *gorm.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		db:  db,
		log: logger.Repository("account"),
	}
}

func (r *PostgresAccountRepository) Create(a *voter.Account) error {
	r.log.Debug("creating new account", "account_id", a.ID, "email", a.Email)

	if a.Email == "" || a.Name == "" || a.PasswordHash == "" {
		return errors.New("email, name and password are required")
	}

	if err := r.db.Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("account email already registered", "email", a.Email)
			return fmt.Errorf("%w: email %q is already registered", ErrConflict, a.Email)
		}
		r.log.Error("failed to create account", "error", err, "account_id", a.ID)
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.log.Info("account created successfully", "account_id", a.ID, "email", a.Email)
	return nil
}

func (r *PostgresAccountRepository) GetByID(id string) (*voter.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid account ID format", "account_id", id, "error", err)
		return nil, fmt.Errorf("invalid account ID format: %w", err)
	}

	var a voter.Account
	if err := r.db.First(&a, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		r.log.Error("failed to retrieve account", "account_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	return &a, nil
}

func (r *PostgresAccountRepository) GetByEmail(email string) (*voter.Account, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	var a voter.Account
	if err := r.db.First(&a, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		r.log.Error("failed to retrieve account by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to retrieve account by email: %w", err)
	}

	return &a, nil
}
