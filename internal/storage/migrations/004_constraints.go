package migrations

import "gorm.io/gorm"

// migration004Up creates check and foreign key constraints. The unique
// constraint on votes(election_id, voter_id, position_id) is the one the
// ballot commit path relies on for concurrent submissions; everything else
// here is defense against malformed rows reaching the database.
func migration004Up(db *gorm.DB) error {
	constraints := []string{
		"ALTER TABLE accounts ADD CONSTRAINT valid_account_email CHECK (email ~* '^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\\.[A-Za-z]{2,}$')",

		"ALTER TABLE elections ADD CONSTRAINT valid_election_dates CHECK (end_date >= start_date)",
		"ALTER TABLE elections ADD CONSTRAINT valid_voting_hours CHECK (voting_start_hour >= 0 AND voting_start_hour <= 23 AND voting_end_hour >= 1 AND voting_end_hour <= 24 AND voting_end_hour > voting_start_hour)",

		"ALTER TABLE invited_voters ADD CONSTRAINT valid_invite_email CHECK (email ~* '^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\\.[A-Za-z]{2,}$')",
	}

	for _, constraintSQL := range constraints {
		// Use IF NOT EXISTS equivalent by catching errors
		db.Exec(constraintSQL) // Don't return error for constraints that might already exist
	}

	foreignKeys := []string{
		"ALTER TABLE positions ADD CONSTRAINT fk_positions_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE partylists ADD CONSTRAINT fk_partylists_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE candidates ADD CONSTRAINT fk_candidates_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE candidates ADD CONSTRAINT fk_candidates_position FOREIGN KEY (position_id) REFERENCES positions(id) ON DELETE CASCADE",
		"ALTER TABLE voters ADD CONSTRAINT fk_voters_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE voters ADD CONSTRAINT fk_voters_account FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE",
		"ALTER TABLE invited_voters ADD CONSTRAINT fk_invited_voters_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE commissioners ADD CONSTRAINT fk_commissioners_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE commissioners ADD CONSTRAINT fk_commissioners_account FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE",
		"ALTER TABLE votes ADD CONSTRAINT fk_votes_election FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE",
		"ALTER TABLE votes ADD CONSTRAINT fk_votes_position FOREIGN KEY (position_id) REFERENCES positions(id) ON DELETE CASCADE",
		"ALTER TABLE votes ADD CONSTRAINT fk_votes_candidate FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE",
	}

	for _, fkSQL := range foreignKeys {
		db.Exec(fkSQL)
	}

	return nil
}

// migration004Down drops constraints
func migration004Down(db *gorm.DB) error {
	drops := []string{
		"ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_candidate",
		"ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_position",
		"ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_election",
		"ALTER TABLE commissioners DROP CONSTRAINT IF EXISTS fk_commissioners_account",
		"ALTER TABLE commissioners DROP CONSTRAINT IF EXISTS fk_commissioners_election",
		"ALTER TABLE invited_voters DROP CONSTRAINT IF EXISTS fk_invited_voters_election",
		"ALTER TABLE voters DROP CONSTRAINT IF EXISTS fk_voters_account",
		"ALTER TABLE voters DROP CONSTRAINT IF EXISTS fk_voters_election",
		"ALTER TABLE candidates DROP CONSTRAINT IF EXISTS fk_candidates_position",
		"ALTER TABLE candidates DROP CONSTRAINT IF EXISTS fk_candidates_election",
		"ALTER TABLE partylists DROP CONSTRAINT IF EXISTS fk_partylists_election",
		"ALTER TABLE positions DROP CONSTRAINT IF EXISTS fk_positions_election",
		"ALTER TABLE invited_voters DROP CONSTRAINT IF EXISTS valid_invite_email",
		"ALTER TABLE elections DROP CONSTRAINT IF EXISTS valid_voting_hours",
		"ALTER TABLE elections DROP CONSTRAINT IF EXISTS valid_election_dates",
		"ALTER TABLE accounts DROP CONSTRAINT IF EXISTS valid_account_email",
	}

	for _, dropSQL := range drops {
		if err := db.Exec(dropSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
