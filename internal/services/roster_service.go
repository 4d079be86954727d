package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/logger"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
	"github.com/bricesuazo/eboto-api/internal/validation"
)

// RosterService manages the voter roster of an election: direct additions,
// email invitations and their accept or decline lifecycle.
type RosterService struct {
	elections postgres.ElectionRepository
	accounts  postgres.AccountRepository
	voters    postgres.VoterRepository
	log       *log.Logger
}

// NewRosterService creates a new roster service
func NewRosterService(repos postgres.RepositoryContainer) *RosterService {
	return &RosterService{
		elections: repos.Elections(),
		accounts:  repos.Accounts(),
		voters:    repos.Voters(),
		log:       logger.Service("roster"),
	}
}

// AddVoter puts an existing account directly on the roster. Only
// commissioners may modify the roster.
func (s *RosterService) AddVoter(electionID, actorID, accountID string) (*voter.Voter, error) {
	if err := s.requireCommissioner(electionID, actorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(accountID, "account_id"); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, err
	}

	elec, err := s.elections.GetByID(electionID)
	if err != nil {
		return nil, err
	}

	v := voter.NewVoter(elec.ID, account.ID)
	if err := s.voters.Create(v); err != nil {
		return nil, err
	}

	s.log.Info("voter added to roster", "election_id", electionID, "account_id", accountID, "by", actorID)
	return v, nil
}

// InviteVoterRequest is the payload to invite an email to the roster
type InviteVoterRequest struct {
	Email string `json:"email" binding:"required"`
}

// InviteVoter records an email invitation to the roster. The invite starts
// in the added state and moves to invited once the commissioner sends it.
func (s *RosterService) InviteVoter(electionID, actorID string, req InviteVoterRequest) (*voter.InvitedVoter, error) {
	if err := s.requireCommissioner(electionID, actorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, err
	}

	elec, err := s.elections.GetByID(electionID)
	if err != nil {
		return nil, err
	}

	invite := voter.NewInvitedVoter(elec.ID, req.Email)
	if err := s.voters.CreateInvite(invite); err != nil {
		return nil, err
	}

	s.log.Info("voter invited", "election_id", electionID, "email", req.Email, "by", actorID)
	return invite, nil
}

// MarkInviteSent transitions an invite from added to invited
func (s *RosterService) MarkInviteSent(electionID, actorID, inviteID string) (*voter.InvitedVoter, error) {
	if err := s.requireCommissioner(electionID, actorID); err != nil {
		return nil, err
	}

	invite, err := s.loadInvite(electionID, inviteID)
	if err != nil {
		return nil, err
	}

	if err := invite.UpdateStatus(voter.InviteInvited); err != nil {
		return nil, err
	}
	if err := s.voters.UpdateInvite(invite); err != nil {
		return nil, err
	}

	s.log.Info("invite marked as sent", "election_id", electionID, "invite_id", inviteID)
	return invite, nil
}

// RespondToInvite accepts or declines an invitation. The responding account
// must be signed in with the invited email; accepting creates the voter row.
func (s *RosterService) RespondToInvite(electionID, inviteID, accountID string, accept bool) (*voter.InvitedVoter, error) {
	if err := validation.ValidateUUID(accountID, "account_id"); err != nil {
		return nil, err
	}

	invite, err := s.loadInvite(electionID, inviteID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, err
	}

	if account.Email != invite.Email {
		return nil, fmt.Errorf("%w: invitation was sent to a different email", ErrForbidden)
	}

	newStatus := voter.InviteDeclined
	if accept {
		newStatus = voter.InviteAccepted
	}
	if err := invite.UpdateStatus(newStatus); err != nil {
		return nil, err
	}

	if accept {
		v := voter.NewVoter(invite.ElectionID, account.ID)
		if err := s.voters.Create(v); err != nil {
			return nil, err
		}
	}

	if err := s.voters.UpdateInvite(invite); err != nil {
		return nil, err
	}

	s.log.Info("invite response recorded",
		"election_id", electionID, "invite_id", inviteID, "account_id", accountID, "status", invite.Status)
	return invite, nil
}

// GetRoster lists the voters and pending invites of an election
func (s *RosterService) GetRoster(electionID, actorID string) ([]*voter.Voter, []*voter.InvitedVoter, error) {
	if err := s.requireCommissioner(electionID, actorID); err != nil {
		return nil, nil, err
	}

	voters, err := s.voters.GetByElectionID(electionID)
	if err != nil {
		return nil, nil, err
	}

	invites, err := s.voters.GetInvitesByElectionID(electionID)
	if err != nil {
		return nil, nil, err
	}

	return voters, invites, nil
}

// RemoveVoter deletes a voter row from the roster
func (s *RosterService) RemoveVoter(electionID, actorID, voterID string) error {
	if err := s.requireCommissioner(electionID, actorID); err != nil {
		return err
	}
	if err := validation.ValidateUUID(voterID, "voter_id"); err != nil {
		return err
	}

	if err := s.voters.Delete(voterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: voter", ErrNotFound)
		}
		return err
	}

	s.log.Info("voter removed from roster", "election_id", electionID, "voter_id", voterID, "by", actorID)
	return nil
}

func (s *RosterService) loadInvite(electionID, inviteID string) (*voter.InvitedVoter, error) {
	if err := validation.ValidateUUID(inviteID, "invite_id"); err != nil {
		return nil, err
	}

	invite, err := s.voters.GetInviteByID(inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invite", ErrNotFound)
		}
		return nil, err
	}

	if invite.ElectionID.String() != electionID {
		return nil, fmt.Errorf("%w: invite", ErrNotFound)
	}

	return invite, nil
}

func (s *RosterService) requireCommissioner(electionID, actorID string) error {
	if err := validation.ValidateUUID(electionID, "election_id"); err != nil {
		return err
	}
	if err := validation.ValidateUUID(actorID, "account_id"); err != nil {
		return err
	}

	if _, err := s.elections.GetByID(electionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: election", ErrNotFound)
		}
		return err
	}

	isCommissioner, err := s.voters.IsCommissioner(electionID, actorID)
	if err != nil {
		return err
	}
	if !isCommissioner {
		return fmt.Errorf("%w: only commissioners may manage the roster", ErrForbidden)
	}

	return nil
}
