package prediction

import (
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/card"
)

const (
	// MaxOffset is the last game offset a launched prediction may win at.
	MaxOffset = 2
	// LaunchWindow is how many games ahead of a source result a pending
	// prediction may be to get launched.
	LaunchWindow = 3
)

// Verification statuses rendered into the published message.
const (
	StatusPending = "⏳"
	StatusFailed  = "❌"
)

var wonStatuses = [MaxOffset + 1]string{"✅0️⃣", "✅1️⃣", "✅2️⃣"}

// StatusWon returns the success status for a win at the given offset.
func StatusWon(offset int) string {
	if offset < 0 || offset > MaxOffset {
		return StatusFailed
	}
	return wonStatuses[offset]
}

// Prediction is one scheduled entry from the Excel workbook plus its launch
// and verification state.
type Prediction struct {
	Numero        int         `json:"numero"`
	Victoire      card.Winner `json:"victoire"`
	ScheduledAt   string      `json:"scheduled_at,omitempty"`
	Launched      bool        `json:"launched"`
	Verified      bool        `json:"verified"`
	CurrentOffset int         `json:"current_offset"`
	MessageID     int         `json:"message_id,omitempty"`
	ChannelID     int64       `json:"channel_id,omitempty"`
}

// Stats summarizes the store contents for /sta and the health endpoint.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Launched int `json:"launched"`
	Verified int `json:"verified"`
}

// Outcome is a prediction resolved during verification, ready for its
// published message to be edited.
type Outcome struct {
	Key       string
	Numero    int
	Victoire  card.Winner
	Status    string
	MessageID int
	ChannelID int64
}
