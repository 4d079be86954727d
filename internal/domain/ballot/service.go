package ballot

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/logger"
)

// Service validates and commits ballots and serves live tallies.
type Service struct {
	elections  ElectionRepository
	positions  PositionRepository
	candidates CandidateRepository
	voters     VoterRepository
	votes      VoteRepository
	now        func() time.Time
	log        *log.Logger
}

func NewService(elections ElectionRepository, positions PositionRepository, candidates CandidateRepository, voters VoterRepository, votes VoteRepository) *Service {
	return NewServiceWithClock(elections, positions, candidates, voters, votes, time.Now)
}

// NewServiceWithClock injects the clock used for window checks. All window
// arithmetic runs against this single clock in UTC.
func NewServiceWithClock(elections ElectionRepository, positions PositionRepository, candidates CandidateRepository, voters VoterRepository, votes VoteRepository, now func() time.Time) *Service {
	return &Service{
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		voters:     voters,
		votes:      votes,
		now:        now,
		log:        logger.Service("ballot"),
	}
}

// CastVote validates and commits the full ballot of one voter for one
// election. All validation happens before any write; on any error nothing is
// committed. The pre-checks give clean errors, but the real guarantee
// against a double submission racing past them is the unique constraint on
// (election_id, voter_id, position_id), which the storage layer translates
// back to ErrAlreadyVoted.
func (s *Service) CastVote(electionID, voterID uuid.UUID, selections []Selection) error {
	s.log.Debug("processing ballot", "election_id", electionID, "voter_id", voterID, "selections", len(selections))

	if electionID == uuid.Nil || voterID == uuid.Nil {
		return fmt.Errorf("%w: election and voter are required", ErrInvalidSelection)
	}

	elec, err := s.elections.GetByID(electionID.String())
	if err != nil {
		return classifyLookupError(err, "election")
	}

	if !elec.IsVotingOpen(s.now()) {
		s.log.Debug("ballot rejected, voting window closed",
			"election_id", electionID,
			"status", elec.Status(s.now()).String())
		return fmt.Errorf("%w: election is %s", ErrNotOpen, elec.Status(s.now()))
	}

	isVoter, err := s.voters.IsVoter(electionID.String(), voterID.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if !isVoter {
		return fmt.Errorf("%w: account %s", ErrForbidden, voterID)
	}

	hasVoted, err := s.votes.HasVoted(electionID.String(), voterID.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if hasVoted {
		return ErrAlreadyVoted
	}

	votes, err := s.buildBallot(elec, voterID, selections)
	if err != nil {
		return err
	}

	if err := s.votes.CreateBallot(votes); err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			// Lost the race against a concurrent submission from the same
			// voter; the constraint decided, exactly one ballot committed.
			s.log.Warn("concurrent ballot detected by unique constraint",
				"election_id", electionID, "voter_id", voterID)
			return ErrAlreadyVoted
		}
		s.log.Error("failed to commit ballot", "error", err, "election_id", electionID, "voter_id", voterID)
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}

	s.log.Info("ballot committed",
		"election_id", electionID,
		"voter_id", voterID,
		"votes", len(votes))
	return nil
}

// buildBallot validates every selection against the election's positions and
// candidates and converts the ballot into vote rows. A single bad selection
// rejects the whole ballot.
func (s *Service) buildBallot(elec *election.Election, voterID uuid.UUID, selections []Selection) ([]*Vote, error) {
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: ballot has no selections", ErrInvalidSelection)
	}

	positions, err := s.positions.GetByElectionID(elec.ID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	candidates, err := s.candidates.GetByElectionID(elec.ID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	positionSet := make(map[uuid.UUID]struct{}, len(positions))
	for _, p := range positions {
		positionSet[p.ID] = struct{}{}
	}
	candidateByID := make(map[uuid.UUID]*election.Candidate, len(candidates))
	for _, c := range candidates {
		candidateByID[c.ID] = c
	}

	votes := make([]*Vote, 0, len(selections))
	seen := make(map[uuid.UUID]struct{}, len(selections))

	for _, sel := range selections {
		if sel.PositionID == uuid.Nil {
			return nil, fmt.Errorf("%w: selection is missing a position", ErrInvalidSelection)
		}
		if _, dup := seen[sel.PositionID]; dup {
			return nil, fmt.Errorf("%w: position %s appears more than once", ErrInvalidSelection, sel.PositionID)
		}
		seen[sel.PositionID] = struct{}{}

		if _, ok := positionSet[sel.PositionID]; !ok {
			return nil, fmt.Errorf("%w: position %s does not belong to election %s", ErrInvalidSelection, sel.PositionID, elec.ID)
		}

		if !sel.IsAbstention() {
			cand, ok := candidateByID[*sel.CandidateID]
			if !ok {
				return nil, fmt.Errorf("%w: candidate %s does not belong to election %s", ErrInvalidSelection, *sel.CandidateID, elec.ID)
			}
			if cand.PositionID != sel.PositionID {
				return nil, fmt.Errorf("%w: candidate %s does not run for position %s", ErrInvalidSelection, cand.ID, sel.PositionID)
			}
		}

		votes = append(votes, NewVote(elec.ID, voterID, sel.PositionID, sel.CandidateID))
	}

	return votes, nil
}

// HasVoted reports whether the voter already has a ballot in the election
func (s *Service) HasVoted(electionID, voterID uuid.UUID) (bool, error) {
	if _, err := s.elections.GetByID(electionID.String()); err != nil {
		return false, classifyLookupError(err, "election")
	}

	hasVoted, err := s.votes.HasVoted(electionID.String(), voterID.String())
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return hasVoted, nil
}

// GetTally computes the live tally of an election by counting vote rows
// grouped by position and candidate. There is no cached counter to drift:
// the ledger is the single source of truth.
func (s *Service) GetTally(electionID uuid.UUID) (*Tally, error) {
	s.log.Debug("computing tally", "election_id", electionID)

	elec, err := s.elections.GetByID(electionID.String())
	if err != nil {
		return nil, classifyLookupError(err, "election")
	}

	positions, err := s.positions.GetByElectionID(electionID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	candidates, err := s.candidates.GetByElectionID(electionID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	rows, err := s.votes.TallyByElection(electionID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	totalBallots, err := s.votes.CountBallots(electionID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	counts := make(map[uuid.UUID]map[uuid.UUID]int64, len(positions))
	abstentions := make(map[uuid.UUID]int64, len(positions))
	for _, row := range rows {
		if row.CandidateID == nil {
			abstentions[row.PositionID] += row.Count
			continue
		}
		if counts[row.PositionID] == nil {
			counts[row.PositionID] = make(map[uuid.UUID]int64)
		}
		counts[row.PositionID][*row.CandidateID] += row.Count
	}

	candidatesByPosition := make(map[uuid.UUID][]*election.Candidate, len(positions))
	for _, c := range candidates {
		candidatesByPosition[c.PositionID] = append(candidatesByPosition[c.PositionID], c)
	}

	tally := &Tally{
		ElectionID:   elec.ID,
		TotalBallots: totalBallots,
		Positions:    make([]PositionTally, 0, len(positions)),
	}

	for _, pos := range positions {
		pt := PositionTally{
			PositionID:  pos.ID,
			Name:        pos.Name,
			Order:       pos.Order,
			Abstentions: abstentions[pos.ID],
			Candidates:  make([]CandidateTally, 0, len(candidatesByPosition[pos.ID])),
		}
		for _, cand := range candidatesByPosition[pos.ID] {
			pt.Candidates = append(pt.Candidates, CandidateTally{
				CandidateID: cand.ID,
				Name:        cand.FullName(),
				Slug:        cand.Slug,
				Votes:       counts[pos.ID][cand.ID],
			})
		}
		sort.SliceStable(pt.Candidates, func(i, j int) bool {
			return pt.Candidates[i].Votes > pt.Candidates[j].Votes
		})
		tally.Positions = append(tally.Positions, pt)
	}

	sort.SliceStable(tally.Positions, func(i, j int) bool {
		return tally.Positions[i].Order < tally.Positions[j].Order
	})

	return tally, nil
}

// classifyLookupError folds a repository lookup failure into the ballot
// error taxonomy
func classifyLookupError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, entity)
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
