package ballot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/common"
)

// Vote is one selection of a ballot: one row per (voter, position), with a
// nil CandidateID recording an explicit abstention. The unique index on
// (election_id, voter_id, position_id) is the race-safety mechanism for the
// one-ballot-per-voter guarantee; every pre-check in the service is only a
// convenience for a clean error.
type Vote struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID  uuid.UUID  `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_votes_election_voter_position"`
	VoterID     uuid.UUID  `json:"voter_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_election_voter_position"`
	PositionID  uuid.UUID  `json:"position_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_election_voter_position"`
	CandidateID *uuid.UUID `json:"candidate_id" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`

	Election common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
}

// TableName overrides the table name
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func NewVote(electionID, voterID, positionID uuid.UUID, candidateID *uuid.UUID) *Vote {
	return &Vote{
		ID:          uuid.New(),
		ElectionID:  electionID,
		VoterID:     voterID,
		PositionID:  positionID,
		CandidateID: candidateID,
		CreatedAt:   time.Now(),
	}
}

// IsAbstention reports whether this vote is an explicit abstain marker
func (v *Vote) IsAbstention() bool {
	return v.CandidateID == nil
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if v.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if v.VoterID == uuid.Nil {
		return fmt.Errorf("voter_id is required")
	}
	if v.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if v.CandidateID != nil && *v.CandidateID == uuid.Nil {
		return fmt.Errorf("candidate_id must be a valid UUID or absent")
	}
	return nil
}

// Selection is one (position, choice) pair of a submitted ballot. A nil
// CandidateID means the voter abstains for that position.
type Selection struct {
	PositionID  uuid.UUID  `json:"position_id"`
	CandidateID *uuid.UUID `json:"candidate_id"`
}

// ChooseCandidate builds a selection for a candidate
func ChooseCandidate(positionID, candidateID uuid.UUID) Selection {
	return Selection{PositionID: positionID, CandidateID: &candidateID}
}

// Abstain builds an explicit abstention for a position
func Abstain(positionID uuid.UUID) Selection {
	return Selection{PositionID: positionID}
}

// IsAbstention reports whether the selection abstains
func (s Selection) IsAbstention() bool {
	return s.CandidateID == nil
}

// Tally is the aggregate vote count of one election, always computed live
// from vote rows. Counts are zero-filled for every candidate and position.
type Tally struct {
	ElectionID   uuid.UUID       `json:"election_id"`
	TotalBallots int64           `json:"total_ballots"`
	Positions    []PositionTally `json:"positions"`
}

// PositionTally holds the per-candidate counts of one position
type PositionTally struct {
	PositionID  uuid.UUID        `json:"position_id"`
	Name        string           `json:"name"`
	Order       int              `json:"order"`
	Abstentions int64            `json:"abstentions"`
	Candidates  []CandidateTally `json:"candidates"`
}

// CandidateTally is the vote count of one candidate
type CandidateTally struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Votes       int64     `json:"votes"`
}

// TallyRow is one row of the grouped aggregate over the votes table. A nil
// CandidateID bucket carries the abstentions of the position.
type TallyRow struct {
	PositionID  uuid.UUID
	CandidateID *uuid.UUID
	Count       int64
}
