package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/meetrec/internal/normalize"
	"github.com/codebuildervaibhav/meetrec/internal/recall"
	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// TranscriptsHandler serves normalized bot transcripts
type TranscriptsHandler struct {
	recall *recall.Client
}

// NewTranscriptsHandler creates a new transcripts handler
func NewTranscriptsHandler(client *recall.Client) *TranscriptsHandler {
	return &TranscriptsHandler{recall: client}
}

// Get returns the normalized transcript entries for one bot. A bot or
// transcript the provider does not know about yields an empty list, not an
// error; the transcript may simply not exist yet.
func (h *TranscriptsHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	bot, err := h.recall.GetBot(ctx, id)
	if err != nil {
		if types.IsNotFound(err) {
			return c.JSON(fiber.Map{"entries": []types.TranscriptEntry{}})
		}
		log.Printf("Failed to fetch bot %s for transcript: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error":   err.Error(),
			"code":    errCode(err),
			"entries": []types.TranscriptEntry{},
		})
	}

	raw, err := h.recall.FetchTranscriptEntries(ctx, bot)
	if err != nil {
		if types.IsNotFound(err) {
			return c.JSON(fiber.Map{"entries": []types.TranscriptEntry{}})
		}
		log.Printf("Failed to fetch transcript for bot %s: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error":   err.Error(),
			"code":    errCode(err),
			"entries": []types.TranscriptEntry{},
		})
	}

	return c.JSON(fiber.Map{"entries": normalize.TranscriptEntries(raw)})
}
