// Package service orchestrates the one multi-step workflow in the system:
// create a calendar event with a Meet link, then dispatch a recording bot to
// it, with explicit partial-failure semantics.
package service

import (
	"context"
	"strings"

	"github.com/codebuildervaibhav/meetrec/internal/calendar"
	"github.com/codebuildervaibhav/meetrec/internal/recall"
	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// EventCreator creates calendar events with join links.
type EventCreator interface {
	CreateMeetEvent(ctx context.Context, p calendar.CreateEventParams) (*calendar.CreatedEvent, error)
}

// BotDispatcher sends recording bots to meeting URLs.
type BotDispatcher interface {
	CreateBot(ctx context.Context, p recall.CreateBotParams) (*types.Bot, error)
}

// Scheduler performs the composite schedule-and-record operation.
type Scheduler struct {
	events EventCreator
	bots   BotDispatcher
}

// NewScheduler creates a scheduler over the two providers.
func NewScheduler(events EventCreator, bots BotDispatcher) *Scheduler {
	return &Scheduler{events: events, bots: bots}
}

// ScheduleRequest describes one meeting to schedule and record. Times are
// RFC 3339 strings passed through to both providers verbatim.
type ScheduleRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartDateTime string   `json:"startDateTime"`
	EndDateTime   string   `json:"endDateTime"`
	Attendees     []string `json:"attendees"`
	BotName       string   `json:"bot_name"`
}

// ScheduleResult is the outcome of the composite operation. On partial
// success the event link and id are populated and BotErr explains why no
// bot was dispatched; the event is never rolled back, it has value on its
// own and the provider offers no cheap undo.
type ScheduleResult struct {
	HangoutLink string
	EventID     string
	Bot         *types.Bot
	BotErr      error
}

// Partial reports whether the event was created but the bot dispatch failed.
func (r *ScheduleResult) Partial() bool {
	return r.BotErr != nil
}

// ScheduleAndRecord creates the calendar event and dispatches the recording
// bot. A calendar failure (including an event without a join link, which
// the calendar client reports as UpstreamRejected) aborts the whole
// operation before any bot call is made. A bot failure after a successful
// event yields a partial result with a nil error.
func (s *Scheduler) ScheduleAndRecord(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, types.NewAPIError(types.ErrInvalidRequest, "schedule meeting", "meeting title is required")
	}

	event, err := s.events.CreateMeetEvent(ctx, calendar.CreateEventParams{
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		Attendees:     req.Attendees,
	})
	if err != nil {
		return nil, err
	}

	result := &ScheduleResult{
		HangoutLink: event.HangoutLink,
		EventID:     event.EventID,
	}

	bot, err := s.bots.CreateBot(ctx, recall.CreateBotParams{
		MeetingURL: event.HangoutLink,
		BotName:    req.BotName,
		JoinAt:     req.StartDateTime,
	})
	if err != nil {
		result.BotErr = err
		return result, nil
	}

	result.Bot = bot
	return result, nil
}
