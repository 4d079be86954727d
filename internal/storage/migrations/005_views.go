package migrations

import "gorm.io/gorm"

// migration005Up creates analytical views for monitoring elections
func migration005Up(db *gorm.DB) error {
	views := []string{
		`CREATE VIEW election_tally AS
        SELECT
            v.election_id,
            v.position_id,
            p.name as position_name,
            v.candidate_id,
            CASE
                WHEN v.candidate_id IS NULL THEN 'Abstain'
                ELSE TRIM(CONCAT(c.first_name, ' ', c.last_name))
            END as candidate_name,
            COUNT(*) as vote_count
        FROM votes v
        JOIN positions p ON v.position_id = p.id
        LEFT JOIN candidates c ON v.candidate_id = c.id
        GROUP BY v.election_id, v.position_id, p.name, v.candidate_id, c.first_name, c.last_name`,

		`CREATE VIEW voting_progress AS
        SELECT
            e.id as election_id,
            e.name as election_name,
            COUNT(DISTINCT vt.id) as registered_voters,
            COUNT(DISTINCT v.voter_id) as voters_who_voted,
            ROUND(
                100.0 * COUNT(DISTINCT v.voter_id) / GREATEST(COUNT(DISTINCT vt.id), 1), 2
            ) as turnout_percentage
        FROM elections e
        LEFT JOIN voters vt ON e.id = vt.election_id
        LEFT JOIN votes v ON e.id = v.election_id
        GROUP BY e.id, e.name`,
	}

	for _, viewSQL := range views {
		if err := db.Exec(viewSQL).Error; err != nil {
			return err
		}
	}

	comments := []string{
		"COMMENT ON TABLE accounts IS 'Registered platform accounts (voters and commissioners sign in with these)'",
		"COMMENT ON TABLE elections IS 'Elections with their voting window dates, daily hours and publicity level'",
		"COMMENT ON TABLE positions IS 'Contested positions of an election in ballot order'",
		"COMMENT ON TABLE partylists IS 'Partylists candidates may run under, including the built-in Independent'",
		"COMMENT ON TABLE candidates IS 'Candidates running for a position, optionally affiliated with a partylist'",
		"COMMENT ON TABLE voters IS 'Accounts on the voter roster of an election'",
		"COMMENT ON TABLE invited_voters IS 'Email invitations to the roster with their lifecycle status'",
		"COMMENT ON TABLE commissioners IS 'Accounts managing an election'",
		"COMMENT ON TABLE votes IS 'The vote ledger: one row per voter per position, NULL candidate_id is an abstention'",

		"COMMENT ON COLUMN votes.candidate_id IS 'NULL records an explicit abstention for the position'",
		"COMMENT ON COLUMN elections.voting_start_hour IS 'Hour of day (0-23) when voting opens on each election day'",
		"COMMENT ON COLUMN elections.voting_end_hour IS 'Hour of day (1-24) when voting closes on each election day'",
	}

	for _, commentSQL := range comments {
		db.Exec(commentSQL) // Don't fail if comments can't be added
	}

	return nil
}

// migration005Down drops analytical views
func migration005Down(db *gorm.DB) error {
	views := []string{
		"voting_progress",
		"election_tally",
	}

	for _, view := range views {
		if err := db.Exec("DROP VIEW IF EXISTS " + view + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
