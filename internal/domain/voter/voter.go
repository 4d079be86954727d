package voter

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bricesuazo/eboto-api/internal/domain/common"
)

// Account is a signed-up user. An account becomes a commissioner or a voter
// through the link tables below; the account itself carries no election role.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Voter entitles one account to cast a ballot in one election.
type Voter struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_voters_election_account"`
	AccountID  uuid.UUID `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_voters_election_account"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Election common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
	Account  common.SharedAccount  `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

// InvitedVoter is a pending roster entry addressed by email. It becomes a
// Voter only when the invite is accepted by a signed-in account.
type InvitedVoter struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID uuid.UUID    `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_invited_voters_election_email"`
	Email      string       `json:"email" gorm:"not null;uniqueIndex:idx_invited_voters_election_email"`
	Status     InviteStatus `json:"status" gorm:"type:invite_status;not null;default:'added'"`
	CreatedAt  time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"autoUpdateTime"`

	Election common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
}

// Commissioner links an account to an election it administers.
type Commissioner struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ElectionID uuid.UUID `json:"election_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_commissioners_election_account"`
	AccountID  uuid.UUID `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_commissioners_election_account"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Election common.SharedElection `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
	Account  common.SharedAccount  `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

// TableName overrides the table name
func (Account) TableName() string {
	return "accounts"
}

// TableName overrides the table name
func (Voter) TableName() string {
	return "voters"
}

// TableName overrides the table name
func (InvitedVoter) TableName() string {
	return "invited_voters"
}

// TableName overrides the table name
func (Commissioner) TableName() string {
	return "commissioners"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Voter) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (iv *InvitedVoter) BeforeCreate(tx *gorm.DB) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (c *Commissioner) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func NewAccount(email, name, passwordHash string) *Account {
	return &Account{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

func NewVoter(electionID, accountID uuid.UUID) *Voter {
	return &Voter{
		ID:         uuid.New(),
		ElectionID: electionID,
		AccountID:  accountID,
		CreatedAt:  time.Now(),
	}
}

func NewInvitedVoter(electionID uuid.UUID, email string) *InvitedVoter {
	return &InvitedVoter{
		ID:         uuid.New(),
		ElectionID: electionID,
		Email:      email,
		Status:     InviteAdded,
		CreatedAt:  time.Now(),
	}
}

func NewCommissioner(electionID, accountID uuid.UUID) *Commissioner {
	return &Commissioner{
		ID:         uuid.New(),
		ElectionID: electionID,
		AccountID:  accountID,
		CreatedAt:  time.Now(),
	}
}

// Implement common.AccountInterface
func (a *Account) GetID() uuid.UUID {
	return a.ID
}

func (a *Account) GetName() string {
	return a.Name
}

// CanTransitionTo checks if the invite can move to a new status
func (iv *InvitedVoter) CanTransitionTo(newStatus InviteStatus) bool {
	transitions := map[InviteStatus][]InviteStatus{
		InviteAdded:    {InviteInvited},
		InviteInvited:  {InviteAccepted, InviteDeclined},
		InviteAccepted: {},
		InviteDeclined: {},
	}

	allowed, exists := transitions[iv.Status]
	if !exists {
		return false
	}

	return slices.Contains(allowed, newStatus)
}

// UpdateStatus updates the invite status if the transition is valid
func (iv *InvitedVoter) UpdateStatus(newStatus InviteStatus) error {
	if !iv.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition invite from %s to %s", iv.Status, newStatus)
	}
	iv.Status = newStatus
	return nil
}

// InviteStatus represents the lifecycle of an invited voter
type InviteStatus byte

const (
	InviteAdded InviteStatus = iota
	InviteInvited
	InviteAccepted
	InviteDeclined
)

func (s InviteStatus) String() string {
	switch s {
	case InviteAdded:
		return "added"
	case InviteInvited:
		return "invited"
	case InviteAccepted:
		return "accepted"
	case InviteDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s InviteStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *InviteStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := InviteStatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid invite status: %s", str)
	}
	*s = status
	return nil
}

// InviteStatusFromString converts a string to an InviteStatus
func InviteStatusFromString(s string) (InviteStatus, bool) {
	switch s {
	case "added":
		return InviteAdded, true
	case "invited":
		return InviteInvited, true
	case "accepted":
		return InviteAccepted, true
	case "declined":
		return InviteDeclined, true
	default:
		return InviteAdded, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *InviteStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InviteAdded
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if b, ok := value.([]byte); ok {
			str = string(b)
		} else {
			return fmt.Errorf("cannot scan %T into InviteStatus", value)
		}
	}

	status, valid := InviteStatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid invite status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s InviteStatus) Value() (driver.Value, error) {
	return s.String(), nil
}
