package migrations

import "gorm.io/gorm"

// migration003Up creates the indexes the query paths depend on beyond what
// the model tags declare. The unique index over (event_id, voter_id) is the
// vote ledger's source of truth for duplicate voters; NULL voters stay
// distinct, matching the anonymous-vote semantics.
func migration003Up(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_event_voter ON votes (event_id, voter_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_favorites_user_event ON favorites (user_id, event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_time_window ON events (start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_event ON candidates (event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_event_parent ON comments (event_id, parent_comment_id)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration003Down drops the indexes created above
func migration003Down(db *gorm.DB) error {
	statements := []string{
		`DROP INDEX IF EXISTS idx_comments_event_parent`,
		`DROP INDEX IF EXISTS idx_candidates_event`,
		`DROP INDEX IF EXISTS idx_events_created_at`,
		`DROP INDEX IF EXISTS idx_events_time_window`,
		`DROP INDEX IF EXISTS uq_favorites_user_event`,
		`DROP INDEX IF EXISTS uq_votes_event_voter`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
