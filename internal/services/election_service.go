package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/logger"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
	"github.com/bricesuazo/eboto-api/internal/validation"
)

// ErrAccessDenied is returned when the publicity policy denies a viewer
var ErrAccessDenied = errors.New("access denied")

// ErrMustSignIn is returned when the publicity policy requires authentication
var ErrMustSignIn = errors.New("sign in required")

// ElectionService handles election lifecycle and ballot structure
type ElectionService struct {
	elections  postgres.ElectionRepository
	positions  postgres.PositionRepository
	partylists postgres.PartylistRepository
	candidates postgres.CandidateRepository
	voters     postgres.VoterRepository
	validator  validation.ElectionValidation
	log        *log.Logger
}

// NewElectionService creates a new election service
func NewElectionService(repos postgres.RepositoryContainer) *ElectionService {
	return &ElectionService{
		elections:  repos.Elections(),
		positions:  repos.Positions(),
		partylists: repos.Partylists(),
		candidates: repos.Candidates(),
		voters:     repos.Voters(),
		validator:  validation.ElectionValidation{},
		log:        logger.Service("election"),
	}
}

// CreateElectionRequest is the payload to create an election
type CreateElectionRequest struct {
	Name            string    `json:"name" binding:"required"`
	Slug            string    `json:"slug" binding:"required"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	VotingStartHour *int      `json:"voting_start_hour"`
	VotingEndHour   *int      `json:"voting_end_hour"`
}

// CreateElection creates an election with its built-in Independent partylist
// and registers the creating account as its first commissioner
func (s *ElectionService) CreateElection(accountID string, req CreateElectionRequest) (*election.Election, error) {
	if err := validation.ValidateUUID(accountID, "account_id"); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateElectionName(req.Name); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateElectionDescription(req.Description); err != nil {
		return nil, err
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	startHour, endHour := 7, 19
	if req.VotingStartHour != nil {
		startHour = *req.VotingStartHour
	}
	if req.VotingEndHour != nil {
		endHour = *req.VotingEndHour
	}
	if err := validation.ValidateVotingHours(startHour, endHour); err != nil {
		return nil, err
	}

	elec := election.NewElection(req.Name, req.Slug, req.StartDate, req.EndDate, startHour, endHour)
	elec.Description = req.Description
	if err := elec.Validate(); err != nil {
		return nil, err
	}

	if err := s.elections.Create(elec); err != nil {
		return nil, err
	}

	// Every election ships with an Independent partylist so candidates can
	// run without an affiliation
	independent := election.NewPartylist(elec.ID, "Independent", "IND")
	if err := s.partylists.Create(independent); err != nil {
		return nil, fmt.Errorf("failed to create default partylist: %w", err)
	}

	accountUUID, _ := uuid.Parse(accountID)
	if err := s.voters.AddCommissioner(voter.NewCommissioner(elec.ID, accountUUID)); err != nil {
		return nil, fmt.Errorf("failed to register creator as commissioner: %w", err)
	}

	s.log.Info("election created", "election_id", elec.ID, "slug", elec.Slug, "commissioner", accountID)
	return elec, nil
}

// GetElectionForViewer loads an election by slug and applies the publicity
// policy for the given viewer. An empty accountID means anonymous.
func (s *ElectionService) GetElectionForViewer(slug, accountID string) (*election.Election, error) {
	elec, err := s.elections.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: election", ErrNotFound)
		}
		return nil, err
	}

	viewer, err := s.buildViewer(elec.ID.String(), accountID)
	if err != nil {
		return nil, err
	}

	switch elec.Access(viewer) {
	case election.DecisionAllowed:
		return elec, nil
	case election.DecisionMustSignIn:
		return nil, ErrMustSignIn
	default:
		// Denied reads as not found so private elections do not leak
		// their existence through the error
		return nil, fmt.Errorf("%w: election", ErrNotFound)
	}
}

// GetElectionsByCommissioner lists the elections an account manages
func (s *ElectionService) GetElectionsByCommissioner(accountID string) ([]*election.Election, error) {
	if err := validation.ValidateUUID(accountID, "account_id"); err != nil {
		return nil, err
	}
	return s.elections.GetByCommissioner(accountID)
}

// UpdateElectionRequest is the payload to update election settings
type UpdateElectionRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	VotingStartHour *int       `json:"voting_start_hour"`
	VotingEndHour   *int       `json:"voting_end_hour"`
	Publicity       *string    `json:"publicity"`
}

// UpdateElection updates election settings. Only commissioners may update.
func (s *ElectionService) UpdateElection(electionID, accountID string, req UpdateElectionRequest) (*election.Election, error) {
	elec, err := s.requireCommissioner(electionID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := s.validator.ValidateElectionName(*req.Name); err != nil {
			return nil, err
		}
		elec.Name = *req.Name
	}
	if req.Description != nil {
		if err := s.validator.ValidateElectionDescription(*req.Description); err != nil {
			return nil, err
		}
		elec.Description = *req.Description
	}
	if req.StartDate != nil {
		elec.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		elec.EndDate = *req.EndDate
	}
	if req.VotingStartHour != nil {
		elec.VotingStartHour = *req.VotingStartHour
	}
	if req.VotingEndHour != nil {
		elec.VotingEndHour = *req.VotingEndHour
	}
	if req.Publicity != nil {
		publicity, valid := election.PublicityFromString(*req.Publicity)
		if !valid {
			return nil, fmt.Errorf("invalid publicity %q", *req.Publicity)
		}
		elec.Publicity = publicity
	}

	if err := elec.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateRange(elec.StartDate, elec.EndDate); err != nil {
		return nil, err
	}

	if err := s.elections.Update(elec); err != nil {
		return nil, err
	}

	s.log.Info("election updated", "election_id", elec.ID, "by", accountID)
	return elec, nil
}

// DeleteElection removes an election and everything under it. Only
// commissioners may delete.
func (s *ElectionService) DeleteElection(electionID, accountID string) error {
	if _, err := s.requireCommissioner(electionID, accountID); err != nil {
		return err
	}

	if err := s.elections.Delete(electionID); err != nil {
		return err
	}

	s.log.Info("election deleted", "election_id", electionID, "by", accountID)
	return nil
}

// CreatePositionRequest is the payload to add a contested position
type CreatePositionRequest struct {
	Name  string `json:"name" binding:"required"`
	Order int    `json:"order"`
}

// CreatePosition adds a position to the ballot of an election
func (s *ElectionService) CreatePosition(electionID, accountID string, req CreatePositionRequest) (*election.Position, error) {
	elec, err := s.requireCommissioner(electionID, accountID)
	if err != nil {
		return nil, err
	}

	position := election.NewPosition(elec.ID, req.Name, req.Order)
	if err := position.Validate(); err != nil {
		return nil, err
	}
	if err := s.positions.Create(position); err != nil {
		return nil, err
	}

	s.log.Info("position created", "election_id", electionID, "position_id", position.ID, "name", position.Name)
	return position, nil
}

// CreatePartylistRequest is the payload to add a partylist
type CreatePartylistRequest struct {
	Name    string `json:"name" binding:"required"`
	Acronym string `json:"acronym" binding:"required"`
}

// CreatePartylist adds a partylist to an election
func (s *ElectionService) CreatePartylist(electionID, accountID string, req CreatePartylistRequest) (*election.Partylist, error) {
	elec, err := s.requireCommissioner(electionID, accountID)
	if err != nil {
		return nil, err
	}

	if err := (validation.PartylistValidation{}).ValidateAcronym(req.Acronym); err != nil {
		return nil, err
	}

	partylist := election.NewPartylist(elec.ID, req.Name, req.Acronym)
	if err := partylist.Validate(); err != nil {
		return nil, err
	}
	if err := s.partylists.Create(partylist); err != nil {
		return nil, err
	}

	s.log.Info("partylist created", "election_id", electionID, "partylist_id", partylist.ID, "acronym", partylist.Acronym)
	return partylist, nil
}

// CreateCandidateRequest is the payload to add a candidate
type CreateCandidateRequest struct {
	Slug        string `json:"slug" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name" binding:"required"`
	PositionID  string `json:"position_id" binding:"required"`
	PartylistID string `json:"partylist_id" binding:"required"`
}

// CreateCandidate adds a candidate running for a position of an election
func (s *ElectionService) CreateCandidate(electionID, accountID string, req CreateCandidateRequest) (*election.Candidate, error) {
	elec, err := s.requireCommissioner(electionID, accountID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateSlug(req.Slug); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(req.PositionID, "position_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(req.PartylistID, "partylist_id"); err != nil {
		return nil, err
	}

	position, err := s.positions.GetByID(req.PositionID)
	if err != nil {
		return nil, fmt.Errorf("%w: position", ErrNotFound)
	}
	if position.ElectionID != elec.ID {
		return nil, errors.New("position does not belong to this election")
	}

	partylist, err := s.partylists.GetByID(req.PartylistID)
	if err != nil {
		return nil, fmt.Errorf("%w: partylist", ErrNotFound)
	}
	if partylist.ElectionID != elec.ID {
		return nil, errors.New("partylist does not belong to this election")
	}

	candidate := election.NewCandidate(elec.ID, position.ID, partylist.ID, req.Slug, req.FirstName, req.LastName)
	candidate.MiddleName = req.MiddleName
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if err := s.candidates.Create(candidate); err != nil {
		return nil, err
	}

	s.log.Info("candidate created", "election_id", electionID, "candidate_id", candidate.ID, "slug", candidate.Slug)
	return candidate, nil
}

// GetCandidateForViewer loads a candidate credential page. It inherits the
// access decision of the parent election.
func (s *ElectionService) GetCandidateForViewer(electionSlug, candidateSlug, accountID string) (*election.Candidate, error) {
	elec, err := s.GetElectionForViewer(electionSlug, accountID)
	if err != nil {
		return nil, err
	}

	candidate, err := s.candidates.GetBySlug(elec.ID.String(), candidateSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: candidate", ErrNotFound)
		}
		return nil, err
	}

	return candidate, nil
}

// GetBallotStructure returns positions in ballot order with their candidates
func (s *ElectionService) GetBallotStructure(electionSlug, accountID string) ([]*election.Position, map[string][]*election.Candidate, error) {
	elec, err := s.GetElectionForViewer(electionSlug, accountID)
	if err != nil {
		return nil, nil, err
	}

	positions, err := s.positions.GetByElectionID(elec.ID.String())
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.candidates.GetByElectionID(elec.ID.String())
	if err != nil {
		return nil, nil, err
	}

	byPosition := make(map[string][]*election.Candidate, len(positions))
	for _, c := range candidates {
		key := c.PositionID.String()
		byPosition[key] = append(byPosition[key], c)
	}

	return positions, byPosition, nil
}

// requireCommissioner loads an election and checks that the account manages it
func (s *ElectionService) requireCommissioner(electionID, accountID string) (*election.Election, error) {
	if err := validation.ValidateUUID(electionID, "election_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(accountID, "account_id"); err != nil {
		return nil, err
	}

	elec, err := s.elections.GetByID(electionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: election", ErrNotFound)
		}
		return nil, err
	}

	isCommissioner, err := s.voters.IsCommissioner(electionID, accountID)
	if err != nil {
		return nil, err
	}
	if !isCommissioner {
		return nil, fmt.Errorf("%w: only commissioners may manage this election", ErrForbidden)
	}

	return elec, nil
}

// buildViewer assembles the access policy input for an account, or an
// anonymous viewer when accountID is empty
func (s *ElectionService) buildViewer(electionID, accountID string) (election.Viewer, error) {
	if accountID == "" {
		return election.AnonymousViewer(), nil
	}

	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		return election.Viewer{}, fmt.Errorf("invalid account ID format: %w", err)
	}

	isVoter, err := s.voters.IsVoter(electionID, accountID)
	if err != nil {
		return election.Viewer{}, err
	}

	isCommissioner, err := s.voters.IsCommissioner(electionID, accountID)
	if err != nil {
		return election.Viewer{}, err
	}

	return election.Viewer{
		AccountID:      accountUUID,
		IsVoter:        isVoter,
		IsCommissioner: isCommissioner,
	}, nil
}
