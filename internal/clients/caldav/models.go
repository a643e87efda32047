package caldav

import "time"

// Calendar is a remote calendar collection.
type Calendar struct {
	Path        string
	DisplayName string
}

// RemoteEvent is a VEVENT fetched from the remote calendar.
type RemoteEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}
