package ballot

import "github.com/bricesuazo/eboto-api/internal/domain/election"

// Repository interfaces consumed by the ballot service. Declared here so the
// service does not depend on a concrete storage backend.

// ElectionRepository resolves the election being voted in
type ElectionRepository interface {
	GetByID(id string) (*election.Election, error)
}

// PositionRepository loads the ballot structure of an election
type PositionRepository interface {
	GetByElectionID(electionID string) ([]*election.Position, error)
}

// CandidateRepository loads the candidates of an election
type CandidateRepository interface {
	GetByElectionID(electionID string) ([]*election.Candidate, error)
}

// VoterRepository answers roster membership questions
type VoterRepository interface {
	IsVoter(electionID, accountID string) (bool, error)
}

// VoteRepository persists and aggregates ballots. CreateBallot must be
// all-or-nothing and must surface a uniqueness violation as ErrAlreadyVoted.
type VoteRepository interface {
	CreateBallot(votes []*Vote) error
	HasVoted(electionID, voterID string) (bool, error)
	CountBallots(electionID string) (int64, error)
	TallyByElection(electionID string) ([]TallyRow, error)
}
