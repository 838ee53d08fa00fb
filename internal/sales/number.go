package sales

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const numberTokenBytes = 4

// GenerateNumber builds a human-scannable transaction number with a random
// suffix. Uniqueness is enforced by the per-business DB constraint; the
// random token makes a collision vanishingly unlikely even when two sales
// commit in the same instant.
func GenerateNumber(now time.Time) (string, error) {
	token := make([]byte, numberTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("generating transaction number: %w", err)
	}
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), hex.EncodeToString(token)), nil
}
