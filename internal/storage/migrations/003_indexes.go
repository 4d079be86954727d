package migrations

import "gorm.io/gorm"

// migration003Up creates performance indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_elections_publicity ON elections(publicity)",
		"CREATE INDEX IF NOT EXISTS idx_elections_dates ON elections(start_date, end_date)",

		"CREATE INDEX IF NOT EXISTS idx_positions_election ON positions(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_positions_election_order ON positions(election_id, ballot_order)",

		"CREATE INDEX IF NOT EXISTS idx_partylists_election ON partylists(election_id)",

		"CREATE INDEX IF NOT EXISTS idx_candidates_election ON candidates(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position_id)",
		"CREATE INDEX IF NOT EXISTS idx_candidates_partylist ON candidates(partylist_id)",

		"CREATE INDEX IF NOT EXISTS idx_voters_election ON voters(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_voters_account ON voters(account_id)",

		"CREATE INDEX IF NOT EXISTS idx_invited_voters_election ON invited_voters(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_invited_voters_status ON invited_voters(status)",

		"CREATE INDEX IF NOT EXISTS idx_commissioners_election ON commissioners(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_commissioners_account ON commissioners(account_id)",

		"CREATE INDEX IF NOT EXISTS idx_votes_election ON votes(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_election_voter ON votes(election_id, voter_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_election_position ON votes(election_id, position_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops performance indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_elections_publicity",
		"idx_elections_dates",
		"idx_positions_election",
		"idx_positions_election_order",
		"idx_partylists_election",
		"idx_candidates_election",
		"idx_candidates_position",
		"idx_candidates_partylist",
		"idx_voters_election",
		"idx_voters_account",
		"idx_invited_voters_election",
		"idx_invited_voters_status",
		"idx_commissioners_election",
		"idx_commissioners_account",
		"idx_votes_election",
		"idx_votes_election_voter",
		"idx_votes_election_position",
		"idx_votes_candidate",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
