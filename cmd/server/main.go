package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/meetrec/internal/calendar"
	"github.com/codebuildervaibhav/meetrec/internal/handlers"
	"github.com/codebuildervaibhav/meetrec/internal/meet"
	"github.com/codebuildervaibhav/meetrec/internal/recall"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Recall struct {
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		BotName      string `yaml:"bot_name"`
		LanguageCode string `yaml:"language_code"`
	} `yaml:"recall"`

	Calendar struct {
		CalendarID string `yaml:"calendar_id"`
		TimeZone   string `yaml:"time_zone"`
	} `yaml:"calendar"`
}

func main() {
	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	// Recording provider client. A missing API key is allowed here on
	// purpose: requests surface 401s instead of the process refusing to
	// start.
	if config.Recall.APIKey == "" {
		log.Println("WARNING: recall API key is not set - provider requests will fail with 401")
	}
	recallClient := recall.NewClient(recall.Config{
		BaseURL:      config.Recall.BaseURL,
		APIKey:       config.Recall.APIKey,
		BotName:      config.Recall.BotName,
		LanguageCode: config.Recall.LanguageCode,
	}, nil)

	// Google clients are built per request from the caller's access token
	calendarFactory := func(ctx context.Context, accessToken string) (handlers.CalendarClient, error) {
		return calendar.NewClient(ctx, accessToken, config.Calendar.CalendarID, config.Calendar.TimeZone)
	}
	meetFactory := func(ctx context.Context, accessToken string) (handlers.MeetBrowser, error) {
		return meet.NewClient(ctx, accessToken)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "meetrec",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Initialize handlers
	botsHandler := handlers.NewBotsHandler(recallClient)
	transcriptsHandler := handlers.NewTranscriptsHandler(recallClient)
	meetingsHandler := handlers.NewMeetingsHandler(calendarFactory, recallClient)
	meetHandler := handlers.NewMeetHandler(meetFactory)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	api := app.Group("/api", handlers.RequireSession())

	api.Get("/bots", botsHandler.List)
	api.Post("/bots", botsHandler.Create)
	api.Get("/bots/:id", botsHandler.Get)
	api.Delete("/bots/:id", botsHandler.Delete)
	api.Get("/bots/:id/transcript", transcriptsHandler.Get)

	api.Post("/meetings", meetingsHandler.Create)
	api.Get("/meetings/upcoming", meetingsHandler.Upcoming)
	api.Get("/meetings/past", meetingsHandler.Past)

	api.Get("/meet/conferences", meetHandler.Conferences)
	api.Get("/meet/conferences/:record/recordings", meetHandler.Recordings)
	api.Get("/meet/conferences/:record/transcripts", meetHandler.Transcripts)
	api.Get("/meet/conferences/:record/transcripts/:transcript/entries", meetHandler.Entries)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   GET    /api/bots                    - List recording bots")
	log.Println("   POST   /api/bots                    - Dispatch a recording bot")
	log.Println("   GET    /api/bots/:id                - Get bot details")
	log.Println("   DELETE /api/bots/:id                - Remove a scheduled bot")
	log.Println("   GET    /api/bots/:id/transcript     - Get normalized transcript")
	log.Println("   POST   /api/meetings                - Schedule meeting + bot")
	log.Println("   GET    /api/meetings/upcoming       - Upcoming Meet events")
	log.Println("   GET    /api/meetings/past           - Past Meet events")
	log.Println("   GET    /api/meet/conferences        - Meet conference records")
	log.Println("   GET    /logs                        - View server logs")
	log.Println("   GET    /health                      - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Append new line
	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Return copy of slice
	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from a YAML file, with environment
// overrides for the provider endpoint and credential.
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	if v := os.Getenv("RECALLAI_BASE_URL"); v != "" {
		config.Recall.BaseURL = v
	}
	if v := os.Getenv("RECALLAI_API_KEY"); v != "" {
		config.Recall.APIKey = v
	}

	return &config, nil
}
