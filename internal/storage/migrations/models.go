package migrations

import (
	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
)

// AllModels returns every persisted model in dependency order. Migration 002
// feeds this to AutoMigrate, so the domain packages stay the single source of
// truth for column definitions.
func AllModels() []any {
	return []any{
		&voter.Account{},
		&election.Election{},
		&election.Position{},
		&election.Partylist{},
		&election.Candidate{},
		&voter.Voter{},
		&voter.InvitedVoter{},
		&voter.Commissioner{},
		&ballot.Vote{},
	}
}
