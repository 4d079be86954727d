package postgres

import (
	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
)

// ElectionRepository defines the methods to interact with elections in the DB.
type ElectionRepository interface {
	Create(e *election.Election) error
	GetByID(id string) (*election.Election, error)
	GetBySlug(slug string) (*election.Election, error)
	GetByCommissioner(accountID string) ([]*election.Election, error)
	Update(e *election.Election) error
	Delete(id string) error
}

// PositionRepository defines the methods to interact with ballot positions
type PositionRepository interface {
	Create(p *election.Position) error
	GetByID(id string) (*election.Position, error)
	GetByElectionID(electionID string) ([]*election.Position, error)
	Update(p *election.Position) error
	Delete(id string) error
}

// PartylistRepository defines the methods to interact with partylists
type PartylistRepository interface {
	Create(p *election.Partylist) error
	GetByID(id string) (*election.Partylist, error)
	GetByElectionID(electionID string) ([]*election.Partylist, error)
	Delete(id string) error
}

// CandidateRepository defines the methods to interact with candidates
type CandidateRepository interface {
	Create(c *election.Candidate) error
	GetByID(id string) (*election.Candidate, error)
	GetBySlug(electionID, slug string) (*election.Candidate, error)
	GetByElectionID(electionID string) ([]*election.Candidate, error)
	GetByPositionID(positionID string) ([]*election.Candidate, error)
	Delete(id string) error
}

// AccountRepository defines the methods to interact with user accounts
type AccountRepository interface {
	Create(a *voter.Account) error
	GetByID(id string) (*voter.Account, error)
	GetByEmail(email string) (*voter.Account, error)
}

// VoterRepository defines the methods to interact with election rosters:
// voters, pending invites and commissioners.
type VoterRepository interface {
	Create(v *voter.Voter) error
	GetByElectionID(electionID string) ([]*voter.Voter, error)
	IsVoter(electionID, accountID string) (bool, error)
	Delete(id string) error

	CreateInvite(iv *voter.InvitedVoter) error
	GetInviteByID(id string) (*voter.InvitedVoter, error)
	GetInviteByEmail(electionID, email string) (*voter.InvitedVoter, error)
	GetInvitesByElectionID(electionID string) ([]*voter.InvitedVoter, error)
	UpdateInvite(iv *voter.InvitedVoter) error

	AddCommissioner(c *voter.Commissioner) error
	IsCommissioner(electionID, accountID string) (bool, error)
}

// VoteRepository defines the methods to interact with the vote ledger
type VoteRepository interface {
	CreateBallot(votes []*ballot.Vote) error
	HasVoted(electionID, voterID string) (bool, error)
	GetByElectionID(electionID string) ([]*ballot.Vote, error)
	CountBallots(electionID string) (int64, error)
	TallyByElection(electionID string) ([]ballot.TallyRow, error)
}

// RepositoryContainer aggregates all repositories behind one dependency
type RepositoryContainer interface {
	Elections() ElectionRepository
	Positions() PositionRepository
	Partylists() PartylistRepository
	Candidates() CandidateRepository
	Accounts() AccountRepository
	Voters() VoterRepository
	Votes() VoteRepository
	Health() error
	Close() error
}
