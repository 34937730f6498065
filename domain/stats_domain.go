package domain

import "time"

var (
	MessageSuccessGetStats = "success get stats"
	MessageFailedGetStats  = "failed to get stats"
)

// Stats event kinds as stored by the backend.
const (
	StatsKindLogin       = "login"
	StatsKindInteraction = "interaction"
	StatsKindScan        = "scan"
)

type StatsErrorKind int

const (
	StatsUnknown StatsErrorKind = iota
	StatsNotFound
)

type StatsError struct {
	Kind    StatsErrorKind
	Message string
}

func (e StatsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind == StatsNotFound {
		return "stats not found"
	}
	return "unknown stats error"
}

func (StatsError) domainError() {}

func UnknownStatsError(message string) StatsError {
	return StatsError{Kind: StatsUnknown, Message: message}
}

var ErrStatsNotFound = StatsError{Kind: StatsNotFound}

type (
	// Stats mirrors the backend-appended event log: three parallel lists
	// of timestamps, read-only.
	Stats struct {
		Logins       []time.Time `json:"logins"`
		Interactions []time.Time `json:"interactions"`
		Scans        []time.Time `json:"scans"`
	}

	StatsReportEntry struct {
		Date         string `json:"date"`
		Logins       int    `json:"logins"`
		Interactions int    `json:"interactions"`
		Scans        int    `json:"scans"`
	}

	StatsReport struct {
		Days              []StatsReportEntry `json:"days"`
		TotalLogins       int                `json:"total_logins"`
		TotalInteractions int                `json:"total_interactions"`
		TotalScans        int                `json:"total_scans"`
	}
)
