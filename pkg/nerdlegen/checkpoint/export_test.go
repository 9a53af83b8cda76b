package checkpoint

// CorruptMatches overwrites the stored match list of a shard.
func CorruptMatches(s *SQLiteStore, runID string, length int, prefix, matches string) error {
	_, err := s.db.Exec(`UPDATE shards SET matches = ? WHERE run_id = ? AND length = ? AND prefix = ?`,
		matches, runID, length, prefix)
	return err
}
