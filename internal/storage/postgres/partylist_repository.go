package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/logger"
)

// PostgresPartylistRepository implements PartylistRepository using GORM
type PostgresPartylistRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPartylistRepository creates a new PostgreSQL partylist repository
func NewPartylistRepository(db *gorm.DB) *PostgresPartylistRepository {
	return &PostgresPartylistRepository{
		db:  db,
		log: logger.Repository("partylist"),
	}
}

func (r *PostgresPartylistRepository) Create(p *election.Partylist) error {
	r.log.Debug("creating new partylist", "partylist_id", p.ID, "election_id", p.ElectionID, "acronym", p.Acronym)

	if err := p.Validate(); err != nil {
		r.log.Error("partylist validation failed", "error", err, "partylist_id", p.ID)
		return fmt.Errorf("partylist validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("partylist acronym already taken", "election_id", p.ElectionID, "acronym", p.Acronym)
			return fmt.Errorf("%w: acronym %q already exists in this election", ErrConflict, p.Acronym)
		}
		r.log.Error("failed to create partylist", "error", err, "partylist_id", p.ID)
		return fmt.Errorf("failed to create partylist: %w", err)
	}

	r.log.Info("partylist created successfully", "partylist_id", p.ID, "election_id", p.ElectionID, "acronym", p.Acronym)
	return nil
}

func (r *PostgresPartylistRepository) GetByID(id string) (*election.Partylist, error) {
	partylistID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid partylist ID format", "partylist_id", id, "error", err)
		return nil, fmt.Errorf("invalid partylist ID format: %w", err)
	}

	var p election.Partylist
	if err := r.db.First(&p, "id = ?", partylistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("partylist not found: %w", err)
		}
		r.log.Error("failed to retrieve partylist", "partylist_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve partylist: %w", err)
	}

	return &p, nil
}

func (r *PostgresPartylistRepository) GetByElectionID(electionID string) ([]*election.Partylist, error) {
	r.log.Debug("retrieving partylists by election ID", "election_id", electionID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var partylists []*election.Partylist
	if err := r.db.
		Where("election_id = ?", electionUUID).
		Order("acronym ASC").
		Find(&partylists).Error; err != nil {
		r.log.Error("failed to retrieve partylists", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve partylists: %w", err)
	}

	r.log.Debug("partylists retrieved successfully", "election_id", electionID, "count", len(partylists))
	return partylists, nil
}

func (r *PostgresPartylistRepository) Delete(id string) error {
	r.log.Debug("deleting partylist", "partylist_id", id)

	partylistID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid partylist ID format", "partylist_id", id, "error", err)
		return fmt.Errorf("invalid partylist ID format: %w", err)
	}

	var p election.Partylist
	if err := r.db.First(&p, "id = ?", partylistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("attempted to delete non-existent partylist", "partylist_id", id)
			return fmt.Errorf("partylist not found: %w", err)
		}
		return fmt.Errorf("failed to check partylist existence: %w", err)
	}

	if err := r.db.Delete(&p).Error; err != nil {
		r.log.Error("failed to delete partylist", "partylist_id", id, "error", err)
		return fmt.Errorf("failed to delete partylist: %w", err)
	}

	r.log.Info("partylist deleted successfully", "partylist_id", id, "election_id", p.ElectionID)
	return nil
}
