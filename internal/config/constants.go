package config

import "time"

const (
	// Typing placeholder cycle interval
	TypingInterval = 500 * time.Millisecond

	// How long the "Copied!" affordance stays visible
	CopiedNoticeDuration = 1500 * time.Millisecond

	// Minimum donation in dollars
	MinDonationAmount = 1

	// Share footer appended to shared message text
	ShareURL = "https://rysen.app"

	// Cache key date layout (local time, one key per calendar day)
	CacheDateLayout = "2006-01-02"
)

// DonationChips are the predefined dollar amounts offered before the
// custom-amount field.
var DonationChips = []string{"10", "20", "50", "100", "250"}

// TypingFrames cycle through the placeholder text while a reply is
// pending.
var TypingFrames = []string{"Typing", "Typing.", "Typing..", "Typing..."}
