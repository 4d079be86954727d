package election

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/common"
)

// Position represents one office on the ballot. Order is the ballot display
// order and the tie-break for multi-position ballots.
type Position struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Order      int       `json:"order" gorm:"column:ballot_order;not null;default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Election common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
}

// Partylist groups candidates within one election. The acronym is unique
// per election.
type Partylist struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_partylists_election_acronym"`
	Name       string    `json:"name" gorm:"not null"`
	Acronym    string    `json:"acronym" gorm:"not null;uniqueIndex:idx_partylists_election_acronym"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Election common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
}

// Candidate runs for one position under one partylist. The slug is unique
// per election and backs the public candidate page.
type Candidate struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID  uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_candidates_election_slug"`
	PositionID  uuid.UUID `json:"position_id" gorm:"type:uuid;not null;index"`
	PartylistID uuid.UUID `json:"partylist_id" gorm:"type:uuid;not null;index"`
	Slug        string    `json:"slug" gorm:"not null;uniqueIndex:idx_candidates_election_slug"`
	FirstName   string    `json:"first_name" gorm:"not null"`
	MiddleName  string    `json:"middle_name"`
	LastName    string    `json:"last_name" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Election  common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
	Position  Position              `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	Partylist Partylist             `json:"partylist,omitempty" gorm:"foreignKey:PartylistID"`
}

// TableName overrides the table name
func (Position) TableName() string {
	return "positions"
}

// TableName overrides the table name
func (Partylist) TableName() string {
	return "partylists"
}

// TableName overrides the table name
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (p *Partylist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func NewPosition(electionID uuid.UUID, name string, order int) *Position {
	return &Position{
		ID:         uuid.New(),
		ElectionID: electionID,
		Name:       name,
		Order:      order,
		CreatedAt:  time.Now(),
	}
}

func NewPartylist(electionID uuid.UUID, name, acronym string) *Partylist {
	return &Partylist{
		ID:         uuid.New(),
		ElectionID: electionID,
		Name:       name,
		Acronym:    acronym,
		CreatedAt:  time.Now(),
	}
}

func NewCandidate(electionID, positionID, partylistID uuid.UUID, slug, firstName, lastName string) *Candidate {
	return &Candidate{
		ID:          uuid.New(),
		ElectionID:  electionID,
		PositionID:  positionID,
		PartylistID: partylistID,
		Slug:        slug,
		FirstName:   firstName,
		LastName:    lastName,
		CreatedAt:   time.Now(),
	}
}

// Validate checks if the position data is valid
func (p *Position) Validate() error {
	if p.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Order < 0 {
		return fmt.Errorf("order must be non-negative")
	}
	return nil
}

// Validate checks if the partylist data is valid
func (p *Partylist) Validate() error {
	if p.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Acronym == "" {
		return fmt.Errorf("acronym is required")
	}
	return nil
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if c.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if c.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if c.PartylistID == uuid.Nil {
		return fmt.Errorf("partylist_id is required")
	}
	if c.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return nil
}

// FullName returns the candidate's display name
func (c *Candidate) FullName() string {
	if c.MiddleName != "" {
		return c.FirstName + " " + c.MiddleName + " " + c.LastName
	}
	return c.FirstName + " " + c.LastName
}
