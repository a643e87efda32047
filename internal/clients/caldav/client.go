// Package caldav fetches events from a remote CalDAV calendar so they
// can be imported into the local schedule. Fetch-only: the engine never
// writes back to the remote calendar.
package caldav

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

// Client is a read-only CalDAV client.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	client       *caldav.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
	}
}

// IsConfigured returns true if the client has credentials
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.username != "" && c.password != ""
}

// SetCalendarPath pins the calendar to query; when empty, the first
// discovered calendar is used.
func (c *Client) SetCalendarPath(path string) {
	c.calendarPath = path
}

func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// DiscoverCalendars returns all calendars visible to the user.
func (c *Client) DiscoverCalendars(ctx context.Context) ([]Calendar, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	var result []Calendar
	for _, cal := range cals {
		result = append(result, Calendar{
			Path:        cal.Path,
			DisplayName: cal.Name,
		})
	}

	return result, nil
}

// FetchEvents returns remote events overlapping [from, to).
func (c *Client) FetchEvents(ctx context.Context, from, to time.Time) ([]RemoteEvent, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	path := c.calendarPath
	if path == "" {
		cals, err := c.DiscoverCalendars(ctx)
		if err != nil {
			return nil, err
		}
		if len(cals) == 0 {
			return nil, fmt.Errorf("no calendars found")
		}
		path = cals[0].Path
		c.calendarPath = path
	}

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: from,
					End:   to,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	var events []RemoteEvent
	for _, obj := range objects {
		ev, err := parseCalendarObject(&obj)
		if err != nil {
			continue // skip objects without a usable VEVENT
		}
		events = append(events, ev)
	}

	return events, nil
}

func parseCalendarObject(obj *caldav.CalendarObject) (RemoteEvent, error) {
	ev := RemoteEvent{}

	if obj.Data == nil {
		return ev, fmt.Errorf("no data in calendar object")
	}

	for _, comp := range obj.Data.Children {
		if comp.Name != ical.CompEvent {
			continue
		}

		if prop := comp.Props.Get(ical.PropUID); prop != nil {
			ev.UID = prop.Value
		}
		if prop := comp.Props.Get(ical.PropSummary); prop != nil {
			ev.Summary = prop.Value
		}
		if prop := comp.Props.Get(ical.PropDescription); prop != nil {
			ev.Description = prop.Value
		}
		if prop := comp.Props.Get(ical.PropLocation); prop != nil {
			ev.Location = prop.Value
		}
		if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
			if t, err := prop.DateTime(time.UTC); err == nil {
				ev.Start = t
			}
			if valueType := prop.Params.Get(ical.ParamValue); valueType == string(ical.ValueDate) {
				ev.AllDay = true
			}
		}
		if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
			if t, err := prop.DateTime(time.UTC); err == nil {
				ev.End = t
			}
		}

		break // only the first VEVENT per object
	}

	if ev.Start.IsZero() {
		return ev, fmt.Errorf("event without start time")
	}
	return ev, nil
}
