package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/meetrec/internal/normalize"
	"github.com/codebuildervaibhav/meetrec/internal/recall"
	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// BotsHandler handles the recording-bot collection
type BotsHandler struct {
	recall *recall.Client
}

// NewBotsHandler creates a new bots handler
func NewBotsHandler(client *recall.Client) *BotsHandler {
	return &BotsHandler{recall: client}
}

// botView augments a provider bot with the derived presentation fields so
// the frontend never re-inspects raw provider shapes.
type botView struct {
	types.Bot
	ResolvedMeetingURL string               `json:"resolved_meeting_url"`
	Status             string               `json:"status"`
	StatusMeta         normalize.StatusMeta `json:"status_meta"`
	Playback           *playbackView        `json:"playback,omitempty"`
}

// playbackView points at the newest playable capture of a bot, when any
// exists yet.
type playbackView struct {
	VideoURL        string `json:"video_url,omitempty"`
	AudioURL        string `json:"audio_url,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}

func newBotView(bot types.Bot) botView {
	view := botView{
		Bot:                bot,
		ResolvedMeetingURL: normalize.MeetingURL(bot.MeetingURL),
		Status:             normalize.CurrentStatus(&bot),
	}
	view.StatusMeta = normalize.StatusPresentation(view.Status)

	if rec := normalize.LatestRecording(bot.Recordings, normalize.MediaVideoMixed, normalize.MediaAudioMixed); rec != nil {
		playback := &playbackView{
			VideoURL: normalize.ShortcutURL(*rec, normalize.MediaVideoMixed),
			AudioURL: normalize.ShortcutURL(*rec, normalize.MediaAudioMixed),
		}
		if seconds, ok := normalize.RecordingDuration(rec); ok {
			playback.DurationSeconds = &seconds
		}
		view.Playback = playback
	}
	return view
}

// List returns the first provider page of bots. Failures still carry an
// empty list so the frontend never deals with a null collection.
func (h *BotsHandler) List(c *fiber.Ctx) error {
	bots, err := h.recall.ListBots(c.UserContext())
	if err != nil {
		log.Printf("Failed to list bots: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errCode(err),
			"bots":  []botView{},
		})
	}

	views := make([]botView, 0, len(bots))
	for _, bot := range bots {
		views = append(views, newBotView(bot))
	}
	return c.JSON(fiber.Map{"bots": views})
}

// CreateBotRequest represents the request body for dispatching a bot
type CreateBotRequest struct {
	MeetingURL string `json:"meeting_url"`
	BotName    string `json:"bot_name"`
	JoinAt     string `json:"join_at"`
}

// Create dispatches a new recording bot against a raw meeting URL.
func (h *BotsHandler) Create(c *fiber.Ctx) error {
	var req CreateBotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}
	if req.MeetingURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "meeting_url is required",
			"code":  "ERR_NO_URL",
		})
	}

	bot, err := h.recall.CreateBot(c.UserContext(), recall.CreateBotParams{
		MeetingURL: req.MeetingURL,
		BotName:    req.BotName,
		JoinAt:     req.JoinAt,
	})
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errCode(err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bot": newBotView(*bot)})
}

// Get returns one bot's details.
func (h *BotsHandler) Get(c *fiber.Ctx) error {
	bot, err := h.recall.GetBot(c.UserContext(), c.Params("id"))
	if err != nil {
		log.Printf("Failed to fetch bot %s: %v", c.Params("id"), err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errCode(err),
		})
	}
	return c.JSON(fiber.Map{"bot": newBotView(*bot)})
}

// Delete removes a scheduled bot.
func (h *BotsHandler) Delete(c *fiber.Ctx) error {
	if err := h.recall.DeleteBot(c.UserContext(), c.Params("id")); err != nil {
		log.Printf("Failed to delete bot %s: %v", c.Params("id"), err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errCode(err),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
