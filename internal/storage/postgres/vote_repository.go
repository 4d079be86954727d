package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewVoteRepository creates a new PostgreSQL vote repository
func NewVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

// CreateBallot commits all vote rows of one ballot in a single transaction.
// Either every row is created or none is; a unique-constraint violation on
// (election_id, voter_id, position_id) means a concurrent submission from
// the same voter already won and is reported as ballot.ErrAlreadyVoted.
func (r *PostgresVoteRepository) CreateBallot(votes []*ballot.Vote) error {
	if len(votes) == 0 {
		return errors.New("ballot cannot be empty")
	}

	electionID := votes[0].ElectionID
	voterID := votes[0].VoterID
	r.log.Debug("committing ballot", "election_id", electionID, "voter_id", voterID, "votes", len(votes))

	for _, v := range votes {
		if err := v.Validate(); err != nil {
			r.log.Error("vote validation failed", "error", err, "vote_id", v.ID)
			return fmt.Errorf("vote validation failed: %w", err)
		}
		if v.ElectionID != electionID || v.VoterID != voterID {
			return errors.New("ballot rows must share one election and voter")
		}
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, v := range votes {
			if err := tx.Create(v).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("ballot rejected by unique constraint",
				"election_id", electionID, "voter_id", voterID)
			return fmt.Errorf("%w: constraint violation on (election, voter, position)", ballot.ErrAlreadyVoted)
		}
		r.log.Error("failed to commit ballot", "error", err, "election_id", electionID, "voter_id", voterID)
		return fmt.Errorf("failed to commit ballot: %w", err)
	}

	r.log.Info("ballot committed successfully", "election_id", electionID, "voter_id", voterID, "votes", len(votes))
	return nil
}

// HasVoted reports whether any vote row exists for the (election, voter)
// pair. A voter with any row is considered to have voted.
func (r *PostgresVoteRepository) HasVoted(electionID, voterID string) (bool, error) {
	r.log.Debug("checking if voter has voted", "election_id", electionID, "voter_id", voterID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return false, fmt.Errorf("invalid election ID format: %w", err)
	}

	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		r.log.Error("invalid voter ID format", "voter_id", voterID, "error", err)
		return false, fmt.Errorf("invalid voter ID format: %w", err)
	}

	var count int64
	if err := r.db.Model(&ballot.Vote{}).
		Where("election_id = ? AND voter_id = ?", electionUUID, voterUUID).
		Count(&count).Error; err != nil {
		r.log.Error("failed to check voting status", "election_id", electionID, "voter_id", voterID, "error", err)
		return false, fmt.Errorf("failed to check voting status: %w", err)
	}

	hasVoted := count > 0
	r.log.Debug("voting status checked", "election_id", electionID, "voter_id", voterID, "has_voted", hasVoted)
	return hasVoted, nil
}

func (r *PostgresVoteRepository) GetByElectionID(electionID string) ([]*ballot.Vote, error) {
	r.log.Debug("retrieving votes by election ID", "election_id", electionID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var votes []*ballot.Vote
	if err := r.db.
		Where("election_id = ?", electionUUID).
		Order("created_at ASC").
		Find(&votes).Error; err != nil {
		r.log.Error("failed to retrieve votes", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve votes: %w", err)
	}

	r.log.Debug("votes retrieved successfully", "election_id", electionID, "count", len(votes))
	return votes, nil
}

// CountBallots counts distinct voters with at least one vote row
func (r *PostgresVoteRepository) CountBallots(electionID string) (int64, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return 0, fmt.Errorf("invalid election ID format: %w", err)
	}

	var count int64
	if err := r.db.Model(&ballot.Vote{}).
		Where("election_id = ?", electionUUID).
		Distinct("voter_id").
		Count(&count).Error; err != nil {
		r.log.Error("failed to count ballots", "election_id", electionID, "error", err)
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}

	return count, nil
}

// TallyByElection runs the live aggregate over the vote ledger: COUNT(*)
// grouped by position and candidate. There is no cached counter anywhere;
// this query is the tally.
func (r *PostgresVoteRepository) TallyByElection(electionID string) ([]ballot.TallyRow, error) {
	r.log.Debug("computing tally rows", "election_id", electionID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var rows []ballot.TallyRow
	if err := r.db.Model(&ballot.Vote{}).
		Select("position_id, candidate_id, COUNT(*) as count").
		Where("election_id = ?", electionUUID).
		Group("position_id").
		Group("candidate_id").
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to compute tally", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to compute tally: %w", err)
	}

	r.log.Debug("tally rows computed", "election_id", electionID, "rows", len(rows))
	return rows, nil
}
