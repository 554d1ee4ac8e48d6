// Package id provides fallback identifier generation for jobs whose provider
// response did not carry a task ID.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Fallback creates a locally generated job ID derived from the current
// timestamp. Format: job_<unix-timestamp>_<random>
// Example: job_1701432000_a1b2c3d4
func Fallback() string {
	timestamp := time.Now().Unix()
	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		// Timestamp only if crypto/rand fails
		return fmt.Sprintf("job_%d", timestamp)
	}
	return fmt.Sprintf("job_%d_%s", timestamp, hex.EncodeToString(random))
}
