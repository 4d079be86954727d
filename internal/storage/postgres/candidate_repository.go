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

// PostgresCandidateRepository implements CandidateRepository using GORM
type PostgresCandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewCandidateRepository creates a new PostgreSQL candidate repository
func NewCandidateRepository(db *gorm.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *PostgresCandidateRepository) Create(c *election.Candidate) error {
	r.log.Debug("creating new candidate", "candidate_id", c.ID, "election_id", c.ElectionID, "slug", c.Slug)

	if err := c.Validate(); err != nil {
		r.log.Error("candidate validation failed", "error", err, "candidate_id", c.ID)
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	if err := r.db.Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("candidate slug already taken", "election_id", c.ElectionID, "slug", c.Slug)
			return fmt.Errorf("%w: slug %q already exists in this election", ErrConflict, c.Slug)
		}
		r.log.Error("failed to create candidate", "error", err, "candidate_id", c.ID)
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	r.log.Info("candidate created successfully", "candidate_id", c.ID, "election_id", c.ElectionID, "slug", c.Slug)
	return nil
}

func (r *PostgresCandidateRepository) GetByID(id string) (*election.Candidate, error) {
	candidateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid candidate ID format", "candidate_id", id, "error", err)
		return nil, fmt.Errorf("invalid candidate ID format: %w", err)
	}

	var c election.Candidate
	if err := r.db.First(&c, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate not found: %w", err)
		}
		r.log.Error("failed to retrieve candidate", "candidate_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidate: %w", err)
	}

	return &c, nil
}

// GetBySlug resolves a candidate by its per-election slug, the key of the
// public candidate page
func (r *PostgresCandidateRepository) GetBySlug(electionID, slug string) (*election.Candidate, error) {
	r.log.Debug("retrieving candidate by slug", "election_id", electionID, "slug", slug)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var c election.Candidate
	if err := r.db.First(&c, "election_id = ? AND slug = ?", electionUUID, slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate not found: %w", err)
		}
		r.log.Error("failed to retrieve candidate by slug", "election_id", electionID, "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidate by slug: %w", err)
	}

	return &c, nil
}

func (r *PostgresCandidateRepository) GetByElectionID(electionID string) ([]*election.Candidate, error) {
	r.log.Debug("retrieving candidates by election ID", "election_id", electionID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var candidates []*election.Candidate
	if err := r.db.
		Where("election_id = ?", electionUUID).
		Order("last_name ASC").
		Find(&candidates).Error; err != nil {
		r.log.Error("failed to retrieve candidates", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}

	r.log.Debug("candidates retrieved successfully", "election_id", electionID, "count", len(candidates))
	return candidates, nil
}

func (r *PostgresCandidateRepository) GetByPositionID(positionID string) ([]*election.Candidate, error) {
	positionUUID, err := uuid.Parse(positionID)
	if err != nil {
		r.log.Error("invalid position ID format", "position_id", positionID, "error", err)
		return nil, fmt.Errorf("invalid position ID format: %w", err)
	}

	var candidates []*election.Candidate
	if err := r.db.
		Where("position_id = ?", positionUUID).
		Order("last_name ASC").
		Find(&candidates).Error; err != nil {
		r.log.Error("failed to retrieve candidates by position", "position_id", positionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidates by position: %w", err)
	}

	return candidates, nil
}

func (r *PostgresCandidateRepository) Delete(id string) error {
	r.log.Debug("deleting candidate", "candidate_id", id)

	candidateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid candidate ID format", "candidate_id", id, "error", err)
		return fmt.Errorf("invalid candidate ID format: %w", err)
	}

	var c election.Candidate
	if err := r.db.First(&c, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("attempted to delete non-existent candidate", "candidate_id", id)
			return fmt.Errorf("candidate not found: %w", err)
		}
		return fmt.Errorf("failed to check candidate existence: %w", err)
	}

	if err := r.db.Delete(&c).Error; err != nil {
		r.log.Error("failed to delete candidate", "candidate_id", id, "error", err)
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	r.log.Info("candidate deleted successfully", "candidate_id", id, "election_id", c.ElectionID)
	return nil
}
