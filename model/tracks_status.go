package model

const (
	StatusMessageOK          = "All is Well"
	StatusMessageUnavailable = "Remote Data Unavailable"
)

// TracksStatus is the liveness summary of one trackdb.
type TracksStatus struct {
	// Unix epoch seconds of the check.
	LastUpdate int64       `json:"last_update"`
	Tracks     TracksCount `json:"tracks"`
	Message    string      `json:"message"`
}

type TracksCount struct {
	// Every track of the trackdb, with or without a data file.
	Total    int           `json:"total"`
	WithData WithDataCount `json:"with_data"`
}

type WithDataCount struct {
	Total   int `json:"total"`
	TotalKO int `json:"total_ko"`
	// Broken tracks keyed by name, each value is [resolved url, error].
	KO map[string][2]string `json:"ko,omitempty"`
}

func (s *TracksStatus) IsOK() bool {
	return s.Tracks.WithData.TotalKO == 0
}
