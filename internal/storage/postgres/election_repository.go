package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/logger"
)

// PostgresElectionRepository implements ElectionRepository using GORM
type PostgresElectionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewElectionRepository creates a new PostgreSQL election repository
func NewElectionRepository(db *gorm.DB) *PostgresElectionRepository {
	return &PostgresElectionRepository{
		db:  db,
		log: logger.Repository("election"),
	}
}

func (r *PostgresElectionRepository) Create(e *election.Election) error {
	r.log.Debug("creating new election", "election_id", e.ID, "slug", e.Slug)

	if err := e.Validate(); err != nil {
		r.log.Error("election validation failed", "error", err, "election_id", e.ID)
		return fmt.Errorf("election validation failed: %w", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		r.log.Error("failed to create election", "error", err, "election_id", e.ID)
		return fmt.Errorf("failed to create election: %w", err)
	}

	r.log.Info("election created successfully", "election_id", e.ID, "slug", e.Slug)
	return nil
}

func (r *PostgresElectionRepository) GetByID(id string) (*election.Election, error) {
	r.log.Debug("retrieving election by ID", "election_id", id)

	electionID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", id, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var e election.Election
	if err := r.db.First(&e, "id = ?", electionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("election not found", "election_id", id)
			return nil, fmt.Errorf("election not found: %w", err)
		}
		r.log.Error("failed to retrieve election", "election_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve election: %w", err)
	}

	return &e, nil
}

func (r *PostgresElectionRepository) GetBySlug(slug string) (*election.Election, error) {
	r.log.Debug("retrieving election by slug", "slug", slug)

	if slug == "" {
		return nil, errors.New("slug cannot be empty")
	}

	var e election.Election
	if err := r.db.First(&e, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("election not found", "slug", slug)
			return nil, fmt.Errorf("election not found: %w", err)
		}
		r.log.Error("failed to retrieve election by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to retrieve election by slug: %w", err)
	}

	return &e, nil
}

func (r *PostgresElectionRepository) GetByCommissioner(accountID string) ([]*election.Election, error) {
	r.log.Debug("retrieving elections by commissioner", "account_id", accountID)

	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		r.log.Error("invalid account ID format", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("invalid account ID format: %w", err)
	}

	var elections []*election.Election
	if err := r.db.
		Joins("JOIN commissioners ON commissioners.election_id = elections.id").
		Where("commissioners.account_id = ?", accountUUID).
		Order("elections.created_at DESC").
		Find(&elections).Error; err != nil {
		r.log.Error("failed to retrieve elections by commissioner", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to retrieve elections by commissioner: %w", err)
	}

	r.log.Debug("elections retrieved successfully", "account_id", accountID, "count", len(elections))
	return elections, nil
}

func (r *PostgresElectionRepository) Update(e *election.Election) error {
	r.log.Debug("updating election", "election_id", e.ID)

	if err := e.Validate(); err != nil {
		r.log.Error("election validation failed", "error", err, "election_id", e.ID)
		return fmt.Errorf("election validation failed: %w", err)
	}

	var existing election.Election
	if err := r.db.First(&existing, "id = ?", e.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("election not found for update", "election_id", e.ID)
			return fmt.Errorf("election not found: %w", err)
		}
		r.log.Error("failed to check election existence for update", "election_id", e.ID, "error", err)
		return fmt.Errorf("failed to check election existence: %w", err)
	}

	if err := r.db.Save(e).Error; err != nil {
		r.log.Error("failed to update election", "error", err, "election_id", e.ID)
		return fmt.Errorf("failed to update election: %w", err)
	}

	r.log.Info("election updated successfully", "election_id", e.ID, "slug", e.Slug)
	return nil
}

// Delete removes the election and everything it owns: votes, candidates,
// partylists, positions, voters, invites and commissioner links, all in one
// transaction.
func (r *PostgresElectionRepository) Delete(id string) error {
	r.log.Debug("deleting election", "election_id", id)

	electionID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", id, "error", err)
		return fmt.Errorf("invalid election ID format: %w", err)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var e election.Election
		if err := tx.First(&e, "id = ?", electionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("election not found: %w", err)
			}
			return fmt.Errorf("failed to check election existence: %w", err)
		}

		owned := []interface{}{
			&ballot.Vote{},
			&election.Candidate{},
			&election.Partylist{},
			&election.Position{},
			&voter.Voter{},
			&voter.InvitedVoter{},
			&voter.Commissioner{},
		}
		for _, model := range owned {
			if err := tx.Where("election_id = ?", electionID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete owned records: %w", err)
			}
		}

		if err := tx.Delete(&e).Error; err != nil {
			return fmt.Errorf("failed to delete election: %w", err)
		}

		return nil
	})

	if err != nil {
		r.log.Error("failed to delete election", "election_id", id, "error", err)
		return err
	}

	r.log.Info("election deleted successfully", "election_id", id)
	return nil
}
