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

// PostgresPositionRepository implements PositionRepository using GORM
type PostgresPositionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPositionRepository creates a new PostgreSQL position repository
func NewPositionRepository(db *gorm.DB) *PostgresPositionRepository {
	return &PostgresPositionRepository{
		db:  db,
		log: logger.Repository("position"),
	}
}

func (r *PostgresPositionRepository) Create(p *election.Position) error {
	r.log.Debug("creating new position", "position_id", p.ID, "election_id", p.ElectionID)

	if err := p.Validate(); err != nil {
		r.log.Error("position validation failed", "error", err, "position_id", p.ID)
		return fmt.Errorf("position validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		r.log.Error("failed to create position", "error", err, "position_id", p.ID)
		return fmt.Errorf("failed to create position: %w", err)
	}

	r.log.Info("position created successfully", "position_id", p.ID, "election_id", p.ElectionID, "name", p.Name)
	return nil
}

func (r *PostgresPositionRepository) GetByID(id string) (*election.Position, error) {
	positionID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid position ID format", "position_id", id, "error", err)
		return nil, fmt.Errorf("invalid position ID format: %w", err)
	}

	var p election.Position
	if err := r.db.First(&p, "id = ?", positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("position not found: %w", err)
		}
		r.log.Error("failed to retrieve position", "position_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve position: %w", err)
	}

	return &p, nil
}

// GetByElectionID returns the positions of an election in ballot order
func (r *PostgresPositionRepository) GetByElectionID(electionID string) ([]*election.Position, error) {
	r.log.Debug("retrieving positions by election ID", "election_id", electionID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var positions []*election.Position
	if err := r.db.
		Where("election_id = ?", electionUUID).
		Order("ballot_order ASC").
		Find(&positions).Error; err != nil {
		r.log.Error("failed to retrieve positions", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve positions: %w", err)
	}

	r.log.Debug("positions retrieved successfully", "election_id", electionID, "count", len(positions))
	return positions, nil
}

func (r *PostgresPositionRepository) Update(p *election.Position) error {
	r.log.Debug("updating position", "position_id", p.ID)

	if err := p.Validate(); err != nil {
		r.log.Error("position validation failed", "error", err, "position_id", p.ID)
		return fmt.Errorf("position validation failed: %w", err)
	}

	if err := r.db.Save(p).Error; err != nil {
		r.log.Error("failed to update position", "error", err, "position_id", p.ID)
		return fmt.Errorf("failed to update position: %w", err)
	}

	r.log.Info("position updated successfully", "position_id", p.ID)
	return nil
}

func (r *PostgresPositionRepository) Delete(id string) error {
	r.log.Debug("deleting position", "position_id", id)

	positionID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid position ID format", "position_id", id, "error", err)
		return fmt.Errorf("invalid position ID format: %w", err)
	}

	var p election.Position
	if err := r.db.First(&p, "id = ?", positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("attempted to delete non-existent position", "position_id", id)
			return fmt.Errorf("position not found: %w", err)
		}
		return fmt.Errorf("failed to check position existence: %w", err)
	}

	if err := r.db.Delete(&p).Error; err != nil {
		r.log.Error("failed to delete position", "position_id", id, "error", err)
		return fmt.Errorf("failed to delete position: %w", err)
	}

	r.log.Info("position deleted successfully", "position_id", id, "election_id", p.ElectionID)
	return nil
}
