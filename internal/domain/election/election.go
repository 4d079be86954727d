package election

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Election represents one election owned by its commissioners. Voting is
// open on every day of [StartDate, EndDate] between VotingStartHour
// (inclusive) and VotingEndHour (exclusive).
type Election struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"start_date" gorm:"not null"`
	EndDate         time.Time `json:"end_date" gorm:"not null"`
	VotingStartHour int       `json:"voting_start_hour" gorm:"not null;default:7"`
	VotingEndHour   int       `json:"voting_end_hour" gorm:"not null;default:19"`
	Publicity       Publicity `json:"publicity" gorm:"type:publicity;not null;default:'private'"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Election) TableName() string {
	return "elections"
}

// BeforeCreate sets a UUID before creating the record
func (e *Election) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewElection creates a new election with the given parameters
func NewElection(name, slug string, startDate, endDate time.Time, startHour, endHour int) *Election {
	return &Election{
		ID:              uuid.New(),
		Slug:            slug,
		Name:            name,
		StartDate:       startDate,
		EndDate:         endDate,
		VotingStartHour: startHour,
		VotingEndHour:   endHour,
		Publicity:       PublicityPrivate,
		CreatedAt:       time.Now(),
	}
}

// Validate checks if the election data is valid
func (e *Election) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	if e.VotingStartHour < 0 || e.VotingStartHour > 23 {
		return fmt.Errorf("voting_start_hour must be between 0 and 23")
	}
	if e.VotingEndHour < 1 || e.VotingEndHour > 24 {
		return fmt.Errorf("voting_end_hour must be between 1 and 24")
	}
	if e.VotingEndHour <= e.VotingStartHour {
		return fmt.Errorf("voting_end_hour must be after voting_start_hour")
	}
	return nil
}

// Status reports the lifecycle state of the election at the given instant.
// The state is recomputed from wall-clock time on every check; nothing is
// persisted.
func (e *Election) Status(now time.Time) Status {
	now = now.In(time.UTC)

	firstDay := startOfDay(e.StartDate)
	if now.Before(firstDay) {
		return StatusUpcoming
	}

	closeAt := startOfDay(e.EndDate).Add(time.Duration(e.VotingEndHour) * time.Hour)
	if !now.Before(closeAt) {
		return StatusEnded
	}

	// Hour bounds are closed-open: [VotingStartHour, VotingEndHour).
	hour := now.Hour()
	if hour >= e.VotingStartHour && hour < e.VotingEndHour {
		return StatusVotingOpen
	}
	return StatusVotingClosedToday
}

// IsVotingOpen reports whether a ballot may be cast at the given instant
func (e *Election) IsVotingOpen(now time.Time) bool {
	return e.Status(now) == StatusVotingOpen
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.UTC)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Implement common.ElectionInterface for consistency with other domains
func (e *Election) GetID() uuid.UUID {
	return e.ID
}

func (e *Election) GetSlug() string {
	return e.Slug
}

func (e *Election) GetName() string {
	return e.Name
}

// Status represents the recomputed lifecycle state of an election
type Status byte

const (
	StatusUpcoming Status = iota
	StatusVotingClosedToday
	StatusVotingOpen
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusUpcoming:
		return "upcoming"
	case StatusVotingClosedToday:
		return "voting_closed_today"
	case StatusVotingOpen:
		return "voting_open"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Publicity represents the visibility tier of an election
type Publicity byte

const (
	PublicityPrivate Publicity = iota
	PublicityVoter
	PublicityPublic
)

func (p Publicity) String() string {
	switch p {
	case PublicityPrivate:
		return "private"
	case PublicityVoter:
		return "voter"
	case PublicityPublic:
		return "public"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (p Publicity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (p *Publicity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	publicity, valid := PublicityFromString(str)
	if !valid {
		return fmt.Errorf("invalid publicity: %s", str)
	}
	*p = publicity
	return nil
}

// PublicityFromString converts a string to a Publicity
func PublicityFromString(s string) (Publicity, bool) {
	switch s {
	case "private":
		return PublicityPrivate, true
	case "voter":
		return PublicityVoter, true
	case "public":
		return PublicityPublic, true
	default:
		return PublicityPrivate, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (p *Publicity) Scan(value interface{}) error {
	if value == nil {
		*p = PublicityPrivate
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if b, ok := value.([]byte); ok {
			str = string(b)
		} else {
			return fmt.Errorf("cannot scan %T into Publicity", value)
		}
	}

	publicity, valid := PublicityFromString(str)
	if !valid {
		return fmt.Errorf("invalid publicity value: %s", str)
	}
	*p = publicity
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (p Publicity) Value() (driver.Value, error) {
	return p.String(), nil
}
