package models

import "time"

// ProtectedImage is the output of the protect flow.
type ProtectedImage struct {
	MediaID  string
	Label    string
	Filename string
	Data     []byte
}

// Verdict is the outcome of checking one image against a list of media IDs.
type Verdict struct {
	Matched       bool
	MediaID       string
	Similarity    float64
	MatchTextHash bool
	// Checked counts extraction calls made.
	Checked int
}

// MisuseReport describes the first scanned image that matched.
type MisuseReport struct {
	Found      bool
	TweetURL   string
	Author     string
	ImageURL   string
	MediaID    string
	Similarity float64
	Candidates int
}

// HistoryRecord is a locally remembered protected image.
type HistoryRecord struct {
	MediaID   string
	OwnerSHA  string
	Label     string
	Filename  string
	CreatedAt time.Time
}
