package dbx

import "database/sql"

// TextArg passes a JSON blob to a TEXT column; an empty blob is stored as NULL.
func TextArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// TextBytes returns the scanned blob, or nil for NULL.
func TextBytes(ns sql.NullString) []byte {
	if !ns.Valid {
		return nil
	}
	return []byte(ns.String)
}
