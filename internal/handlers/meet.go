package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/meetrec/internal/meet"
)

// MeetBrowser is the per-request Meet surface the handlers need.
// *meet.Client satisfies it.
type MeetBrowser interface {
	ConferenceRecords(ctx context.Context) ([]meet.ConferenceRecord, error)
	Recordings(ctx context.Context, record string) ([]meet.Recording, error)
	Transcripts(ctx context.Context, record string) ([]meet.Transcript, error)
	TranscriptEntries(ctx context.Context, record, transcript string) ([]meet.TranscriptEntry, error)
}

// MeetFactory builds a Meet client from the caller's access token.
type MeetFactory func(ctx context.Context, accessToken string) (MeetBrowser, error)

// MeetHandler serves read-only Google Meet conference record browsing
type MeetHandler struct {
	newMeet MeetFactory
}

// NewMeetHandler creates a new Meet handler
func NewMeetHandler(newMeet MeetFactory) *MeetHandler {
	return &MeetHandler{newMeet: newMeet}
}

// Conferences lists the caller's recent conference records.
func (h *MeetHandler) Conferences(c *fiber.Ctx) error {
	client, err := h.newMeet(c.UserContext(), AccessToken(c))
	if err != nil {
		return meetError(c, err)
	}
	records, err := client.ConferenceRecords(c.UserContext())
	if err != nil {
		return meetError(c, err)
	}
	return c.JSON(fiber.Map{"conferenceRecords": records})
}

// Recordings lists the recordings of one conference record.
func (h *MeetHandler) Recordings(c *fiber.Ctx) error {
	client, err := h.newMeet(c.UserContext(), AccessToken(c))
	if err != nil {
		return meetError(c, err)
	}
	recordings, err := client.Recordings(c.UserContext(), c.Params("record"))
	if err != nil {
		return meetError(c, err)
	}
	return c.JSON(fiber.Map{"recordings": recordings})
}

// Transcripts lists the transcripts of one conference record.
func (h *MeetHandler) Transcripts(c *fiber.Ctx) error {
	client, err := h.newMeet(c.UserContext(), AccessToken(c))
	if err != nil {
		return meetError(c, err)
	}
	transcripts, err := client.Transcripts(c.UserContext(), c.Params("record"))
	if err != nil {
		return meetError(c, err)
	}
	return c.JSON(fiber.Map{"transcripts": transcripts})
}

// Entries lists the utterances of one Meet-native transcript.
func (h *MeetHandler) Entries(c *fiber.Ctx) error {
	client, err := h.newMeet(c.UserContext(), AccessToken(c))
	if err != nil {
		return meetError(c, err)
	}
	entries, err := client.TranscriptEntries(c.UserContext(), c.Params("record"), c.Params("transcript"))
	if err != nil {
		return meetError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func meetError(c *fiber.Ctx, err error) error {
	log.Printf("Meet API call failed: %v", err)
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  errCode(err),
	})
}
