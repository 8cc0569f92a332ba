package service

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IDGenerator mints student identities.
type IDGenerator interface {
	NewStudentID(now time.Time) string
}

// StudentIDGenerator composes "S" + base36 unix milliseconds + 12 random hex
// characters taken from a v4 UUID. The time prefix keeps IDs roughly sortable
// in the sheet; the 48 random bits separate submissions minted in the same
// millisecond.
type StudentIDGenerator struct{}

// NewStudentID implements IDGenerator.
func (StudentIDGenerator) NewStudentID(now time.Time) string {
	u := uuid.New()
	return "S" + strconv.FormatInt(now.UnixMilli(), 36) + hex.EncodeToString(u[:6])
}
