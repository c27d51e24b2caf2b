package service

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// ComputeLinkKey derives the deterministic key that associates payment records
// with a session: hex md5 of the session id concatenated with the plate.
// Session ids are unique, so keys cannot collide across sessions. The md5
// construction is kept for compatibility with ledger records written by the
// payment component.
func ComputeLinkKey(sessionID int64, licensePlate string) string {
	sum := md5.Sum([]byte(strconv.FormatInt(sessionID, 10) + licensePlate))
	return hex.EncodeToString(sum[:])
}
