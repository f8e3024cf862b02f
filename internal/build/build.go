package build

import "time"

// Overridden at link time.
var (
	commit  = ""
	date    = ""
	version = "dev"
)

var Current Build

func init() {
	buildDate, _ := time.Parse(time.RFC3339, date)
	Current = Build{
		Commit:  commit,
		Version: version,
		Date:    buildDate,
	}
}

type Build struct {
	Commit  string    `json:"commit,omitempty"`
	Version string    `json:"version,omitempty"`
	Date    time.Time `json:"date,omitempty"`
}
