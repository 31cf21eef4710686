package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/meetrec/internal/calendar"
	"github.com/codebuildervaibhav/meetrec/internal/service"
	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// CalendarClient is the per-request calendar surface the handlers need.
// *calendar.Client satisfies it; tests substitute fakes.
type CalendarClient interface {
	CreateMeetEvent(ctx context.Context, p calendar.CreateEventParams) (*calendar.CreatedEvent, error)
	UpcomingMeetings(ctx context.Context) ([]types.Meeting, error)
	PastMeetings(ctx context.Context) ([]types.Meeting, error)
}

// CalendarFactory builds a calendar client from the caller's access token.
type CalendarFactory func(ctx context.Context, accessToken string) (CalendarClient, error)

// MeetingsHandler handles meeting scheduling and calendar listings
type MeetingsHandler struct {
	newCalendar CalendarFactory
	bots        service.BotDispatcher
}

// NewMeetingsHandler creates a new meetings handler
func NewMeetingsHandler(newCalendar CalendarFactory, bots service.BotDispatcher) *MeetingsHandler {
	return &MeetingsHandler{newCalendar: newCalendar, bots: bots}
}

// Create schedules a meeting and dispatches a recording bot to it. Full
// success is 201 with both artifacts; a bot failure after a created event is
// 207 with the retained link plus the bot error; everything else is a single
// error payload.
func (h *MeetingsHandler) Create(c *fiber.Ctx) error {
	var req service.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	cal, err := h.newCalendar(c.UserContext(), AccessToken(c))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errCode(err),
		})
	}

	scheduler := service.NewScheduler(cal, h.bots)
	result, err := scheduler.ScheduleAndRecord(c.UserContext(), req)
	if err != nil {
		log.Printf("Schedule-and-record failed: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errCode(err),
		})
	}

	if result.Partial() {
		log.Printf("Meeting %s created but bot dispatch failed: %v", result.EventID, result.BotErr)
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
			"hangoutLink": result.HangoutLink,
			"eventId":     result.EventID,
			"botError":    result.BotErr.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"hangoutLink": result.HangoutLink,
		"eventId":     result.EventID,
		"bot":         newBotView(*result.Bot),
	})
}

// Upcoming lists the caller's next Meet-joinable calendar events.
func (h *MeetingsHandler) Upcoming(c *fiber.Ctx) error {
	return h.listMeetings(c, CalendarClient.UpcomingMeetings)
}

// Past lists the caller's recent Meet-joinable calendar events.
func (h *MeetingsHandler) Past(c *fiber.Ctx) error {
	return h.listMeetings(c, CalendarClient.PastMeetings)
}

func (h *MeetingsHandler) listMeetings(c *fiber.Ctx, list func(CalendarClient, context.Context) ([]types.Meeting, error)) error {
	cal, err := h.newCalendar(c.UserContext(), AccessToken(c))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error":    err.Error(),
			"code":     errCode(err),
			"meetings": []types.Meeting{},
		})
	}

	meetings, err := list(cal, c.UserContext())
	if err != nil {
		log.Printf("Failed to list meetings: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error":    err.Error(),
			"code":     errCode(err),
			"meetings": []types.Meeting{},
		})
	}
	return c.JSON(fiber.Map{"meetings": meetings})
}
