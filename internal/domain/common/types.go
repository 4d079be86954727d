package common

import "github.com/google/uuid"

// SharedElection represents the minimal Election structure used across domains
type SharedElection struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

// SharedAccount represents the minimal Account structure used across domains
type SharedAccount struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// SharedPosition represents the minimal Position structure used across domains
type SharedPosition struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name"`
	Order int       `json:"order"`
}

// SharedCandidate represents the minimal Candidate structure used across domains
type SharedCandidate struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Slug       string    `json:"slug"`
	PositionID uuid.UUID `json:"position_id"`
}

// Interfaces for type safety without circular imports

type ElectionInterface interface {
	GetID() uuid.UUID
	GetSlug() string
	GetName() string
}

type AccountInterface interface {
	GetID() uuid.UUID
	GetName() string
}
