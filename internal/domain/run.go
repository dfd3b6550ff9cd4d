package domain

import "time"

// SendMode selects the delivery target of a run.
type SendMode string

const (
	SendModeNormal SendMode = "normal"
	SendModeTest   SendMode = "test"
)

// RunStats holds statistics about one pipeline run.
type RunStats struct {
	Fetched    int
	Formatted  int
	SendMode   SendMode
	CampaignID int64
	Duration   time.Duration
}
