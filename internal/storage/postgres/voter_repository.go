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

// PostgresVoterRepository implements VoterRepository using GORM
type PostgresVoterRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewVoterRepository creates a new PostgreSQL voter repository
func NewVoterRepository(db *gorm.DB) *PostgresVoterRepository {
	return &PostgresVoterRepository{
		db:  db,
		log: logger.Repository("voter"),
	}
}

func (r *PostgresVoterRepository) Create(v *voter.Voter) error {
	r.log.Debug("adding voter to roster", "voter_id", v.ID, "election_id", v.ElectionID, "account_id", v.AccountID)

	if v.ElectionID == uuid.Nil || v.AccountID == uuid.Nil {
		return errors.New("election ID and account ID are required")
	}

	if err := r.db.Create(v).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("account already on roster", "election_id", v.ElectionID, "account_id", v.AccountID)
			return fmt.Errorf("%w: account is already a voter of this election", ErrConflict)
		}
		r.log.Error("failed to add voter", "error", err, "voter_id", v.ID)
		return fmt.Errorf("failed to add voter: %w", err)
	}

	r.log.Info("voter added successfully", "voter_id", v.ID, "election_id", v.ElectionID, "account_id", v.AccountID)
	return nil
}

func (r *PostgresVoterRepository) GetByElectionID(electionID string) ([]*voter.Voter, error) {
	r.log.Debug("retrieving voters by election ID", "election_id", electionID)

	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var voters []*voter.Voter
	if err := r.db.
		Where("election_id = ?", electionUUID).
		Order("created_at ASC").
		Find(&voters).Error; err != nil {
		r.log.Error("failed to retrieve voters", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve voters: %w", err)
	}

	r.log.Debug("voters retrieved successfully", "election_id", electionID, "count", len(voters))
	return voters, nil
}

// IsVoter reports whether the account is on the election's roster. Invited
// but not yet accepted emails are not voters.
func (r *PostgresVoterRepository) IsVoter(electionID, accountID string) (bool, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return false, fmt.Errorf("invalid election ID format: %w", err)
	}

	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		r.log.Error("invalid account ID format", "account_id", accountID, "error", err)
		return false, fmt.Errorf("invalid account ID format: %w", err)
	}

	var count int64
	if err := r.db.Model(&voter.Voter{}).
		Where("election_id = ? AND account_id = ?", electionUUID, accountUUID).
		Count(&count).Error; err != nil {
		r.log.Error("failed to check roster membership", "election_id", electionID, "account_id", accountID, "error", err)
		return false, fmt.Errorf("failed to check roster membership: %w", err)
	}

	return count > 0, nil
}

func (r *PostgresVoterRepository) Delete(id string) error {
	r.log.Debug("removing voter from roster", "voter_id", id)

	voterID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid voter ID format", "voter_id", id, "error", err)
		return fmt.Errorf("invalid voter ID format: %w", err)
	}

	var v voter.Voter
	if err := r.db.First(&v, "id = ?", voterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("attempted to remove non-existent voter", "voter_id", id)
			return fmt.Errorf("voter not found: %w", err)
		}
		return fmt.Errorf("failed to check voter existence: %w", err)
	}

	if err := r.db.Delete(&v).Error; err != nil {
		r.log.Error("failed to remove voter", "voter_id", id, "error", err)
		return fmt.Errorf("failed to remove voter: %w", err)
	}

	r.log.Info("voter removed successfully", "voter_id", id, "election_id", v.ElectionID)
	return nil
}

// Invite methods

func (r *PostgresVoterRepository) CreateInvite(iv *voter.InvitedVoter) error {
	r.log.Debug("creating voter invite", "invite_id", iv.ID, "election_id", iv.ElectionID, "email", iv.Email)

	if iv.ElectionID == uuid.Nil || iv.Email == "" {
		return errors.New("election ID and email are required")
	}

	if err := r.db.Create(iv).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("email already invited", "election_id", iv.ElectionID, "email", iv.Email)
			return fmt.Errorf("%w: email %q is already on the roster of this election", ErrConflict, iv.Email)
		}
		r.log.Error("failed to create invite", "error", err, "invite_id", iv.ID)
		return fmt.Errorf("failed to create invite: %w", err)
	}

	r.log.Info("invite created successfully", "invite_id", iv.ID, "election_id", iv.ElectionID, "email", iv.Email)
	return nil
}

func (r *PostgresVoterRepository) GetInviteByID(id string) (*voter.InvitedVoter, error) {
	inviteID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid invite ID format", "invite_id", id, "error", err)
		return nil, fmt.Errorf("invalid invite ID format: %w", err)
	}

	var iv voter.InvitedVoter
	if err := r.db.First(&iv, "id = ?", inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invite not found: %w", err)
		}
		r.log.Error("failed to retrieve invite", "invite_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve invite: %w", err)
	}

	return &iv, nil
}

func (r *PostgresVoterRepository) GetInviteByEmail(electionID, email string) (*voter.InvitedVoter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var iv voter.InvitedVoter
	if err := r.db.First(&iv, "election_id = ? AND email = ?", electionUUID, email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invite not found: %w", err)
		}
		r.log.Error("failed to retrieve invite by email", "election_id", electionID, "email", email, "error", err)
		return nil, fmt.Errorf("failed to retrieve invite by email: %w", err)
	}

	return &iv, nil
}

func (r *PostgresVoterRepository) GetInvitesByElectionID(electionID string) ([]*voter.InvitedVoter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("invalid election ID format: %w", err)
	}

	var invites []*voter.InvitedVoter
	if err := r.db.
		Where("election_id = ?", electionUUID).
		Order("created_at ASC").
		Find(&invites).Error; err != nil {
		r.log.Error("failed to retrieve invites", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve invites: %w", err)
	}

	return invites, nil
}

func (r *PostgresVoterRepository) UpdateInvite(iv *voter.InvitedVoter) error {
	r.log.Debug("updating invite", "invite_id", iv.ID, "status", iv.Status.String())

	if err := r.db.Save(iv).Error; err != nil {
		r.log.Error("failed to update invite", "error", err, "invite_id", iv.ID)
		return fmt.Errorf("failed to update invite: %w", err)
	}

	r.log.Info("invite updated successfully", "invite_id", iv.ID, "status", iv.Status.String())
	return nil
}

// Commissioner methods

func (r *PostgresVoterRepository) AddCommissioner(c *voter.Commissioner) error {
	r.log.Debug("adding commissioner", "commissioner_id", c.ID, "election_id", c.ElectionID, "account_id", c.AccountID)

	if c.ElectionID == uuid.Nil || c.AccountID == uuid.Nil {
		return errors.New("election ID and account ID are required")
	}

	if err := r.db.Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account is already a commissioner of this election", ErrConflict)
		}
		r.log.Error("failed to add commissioner", "error", err, "commissioner_id", c.ID)
		return fmt.Errorf("failed to add commissioner: %w", err)
	}

	r.log.Info("commissioner added successfully", "commissioner_id", c.ID, "election_id", c.ElectionID)
	return nil
}

func (r *PostgresVoterRepository) IsCommissioner(electionID, accountID string) (bool, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		r.log.Error("invalid election ID format", "election_id", electionID, "error", err)
		return false, fmt.Errorf("invalid election ID format: %w", err)
	}

	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		r.log.Error("invalid account ID format", "account_id", accountID, "error", err)
		return false, fmt.Errorf("invalid account ID format: %w", err)
	}

	var count int64
	if err := r.db.Model(&voter.Commissioner{}).
		Where("election_id = ? AND account_id = ?", electionUUID, accountUUID).
		Count(&count).Error; err != nil {
		r.log.Error("failed to check commissioner membership", "election_id", electionID, "account_id", accountID, "error", err)
		return false, fmt.Errorf("failed to check commissioner membership: %w", err)
	}

	return count > 0, nil
}
