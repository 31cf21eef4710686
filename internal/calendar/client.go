// Package calendar wraps the Google Calendar v3 API for creating and
// listing meetings with Meet links. A client is built per request from the
// caller's access token; the service itself holds no Google credentials.
package calendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// Client talks to the calendar of one authenticated user.
type Client struct {
	svc        *gcal.Service
	calendarID string
	timeZone   string
}

// NewClient builds a calendar client bound to the caller's OAuth access
// token.
func NewClient(ctx context.Context, accessToken, calendarID, timeZone string) (*Client, error) {
	if accessToken == "" {
		return nil, types.NewAPIError(types.ErrUnauthorized, "calendar auth", "missing Google access token")
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, types.NewAPIError(types.ErrUnknownUpstream, "calendar auth", "create calendar service: %v", err)
	}
	return &Client{svc: svc, calendarID: calendarID, timeZone: timeZone}, nil
}

// CreateEventParams describes a meeting to schedule. Times are RFC 3339
// strings passed through to the provider verbatim.
type CreateEventParams struct {
	Title         string
	Description   string
	StartDateTime string
	EndDateTime   string
	Attendees     []string
}

// CreatedEvent is the usable outcome of event creation.
type CreatedEvent struct {
	EventID     string `json:"eventId"`
	HangoutLink string `json:"hangoutLink"`
}

// CreateMeetEvent inserts a calendar event with an attached Meet conference.
// An event created without a join link is a hard UpstreamRejected failure:
// nothing can be recorded without a URL to join.
func (c *Client) CreateMeetEvent(ctx context.Context, p CreateEventParams) (*CreatedEvent, error) {
	attendees := make([]*gcal.EventAttendee, 0, len(p.Attendees))
	for _, email := range p.Attendees {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	event := &gcal.Event{
		Summary:     p.Title,
		Description: p.Description,
		Start:       &gcal.EventDateTime{DateTime: p.StartDateTime, TimeZone: c.timeZone},
		End:         &gcal.EventDateTime{DateTime: p.EndDateTime, TimeZone: c.timeZone},
		Attendees:   attendees,
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             "meetrec-" + uuid.New().String(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, "create calendar event")
	}

	if created.HangoutLink == "" {
		return nil, types.NewAPIError(types.ErrUpstreamRejected, "create calendar event",
			"the event was created but no Meet link was returned; make sure Google Meet is enabled for this account")
	}
	return &CreatedEvent{EventID: created.Id, HangoutLink: created.HangoutLink}, nil
}

// UpcomingMeetings lists the next Meet-joinable events on the calendar.
func (c *Client) UpcomingMeetings(ctx context.Context) ([]types.Meeting, error) {
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(20).
		SingleEvents(true).
		OrderBy("startTime").
		Q("meet.google.com").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, "list upcoming meetings")
	}
	return collectMeetings(res.Items, false), nil
}

// PastMeetings lists recent Meet-joinable events, newest first.
func (c *Client) PastMeetings(ctx context.Context) ([]types.Meeting, error) {
	res, err := c.svc.Events.List(c.calendarID).
		TimeMax(time.Now().Format(time.RFC3339)).
		MaxResults(30).
		SingleEvents(true).
		OrderBy("startTime").
		Q("meet.google.com").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, "list past meetings")
	}
	return collectMeetings(res.Items, true), nil
}

// collectMeetings keeps only events that actually carry a join link.
func collectMeetings(items []*gcal.Event, reverse bool) []types.Meeting {
	meetings := make([]types.Meeting, 0, len(items))
	for _, e := range items {
		if e.HangoutLink == "" {
			continue
		}
		meetings = append(meetings, mapEvent(e))
	}
	if reverse {
		for i, j := 0, len(meetings)-1; i < j; i, j = i+1, j-1 {
			meetings[i], meetings[j] = meetings[j], meetings[i]
		}
	}
	return meetings
}

// mapEvent converts a calendar event into the boundary shape, tolerating
// all-day events (date instead of dateTime) and missing optional fields.
func mapEvent(e *gcal.Event) types.Meeting {
	m := types.Meeting{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		HangoutLink: e.HangoutLink,
		Status:      e.Status,
	}
	if m.Summary == "" {
		m.Summary = "Untitled Meeting"
	}
	if m.Status == "" {
		m.Status = "confirmed"
	}
	if e.Start != nil {
		m.Start = e.Start.DateTime
		if m.Start == "" {
			m.Start = e.Start.Date
		}
	}
	if e.End != nil {
		m.End = e.End.DateTime
		if m.End == "" {
			m.End = e.End.Date
		}
	}
	for _, a := range e.Attendees {
		m.Attendees = append(m.Attendees, types.MeetingAttendee{
			Email:          a.Email,
			ResponseStatus: a.ResponseStatus,
		})
	}
	return m
}

// classify maps Google API failures onto the shared error taxonomy.
func classify(err error, op string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		kind := types.ErrUnknownUpstream
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = types.ErrUnauthorized
		case http.StatusNotFound:
			kind = types.ErrNotFound
		}
		// Google sometimes returns errors with an empty Message field.
		msg := gerr.Message
		if msg == "" {
			msg = gerr.Error()
		}
		return &types.APIError{
			Kind:    kind,
			Status:  gerr.Code,
			Op:      op,
			Message: msg,
			Body:    gerr.Body,
		}
	}
	return types.NewAPIError(types.ErrNetwork, op, "%v", err)
}
