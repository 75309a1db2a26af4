package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns an opaque client-assigned entity id: random part plus
// a base36 creation timestamp. Ids are generated once and never reassigned.
func NewID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return random + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
