package store

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
)

// CacheKey derives the deterministic record key for a ticket+stage pair.
// Hashing keeps keys fixed-width and index-friendly regardless of repo and
// title lengths.
func CacheKey(ticket domain.Ticket, stage Stage) string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%s|%s", ticket.Ref(), stage)))
	return hex.EncodeToString(sum[:])
}
