package main

import (
	"log"
	"os"

	"github.com/brainstorm-app/brainstorm-golang/internal/ai"
	"github.com/brainstorm-app/brainstorm-golang/internal/database"
	"github.com/brainstorm-app/brainstorm-golang/internal/handlers"
	"github.com/brainstorm-app/brainstorm-golang/internal/routes"
	"github.com/brainstorm-app/brainstorm-golang/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	// 2. --- AI Service (Optional) ---
	// The assistant is a convenience, not a dependency: missing key or
	// read-only DSN just means the chat endpoint reports itself
	// unavailable.
	var aiService *ai.AIService
	geminiKey := os.Getenv("GEMINI_API_KEY")
	readOnlyDSN := os.Getenv("DB_DSN_READONLY")
	switch {
	case geminiKey == "":
		log.Println("GEMINI_API_KEY not set; AI assistant disabled.")
	case readOnlyDSN == "":
		log.Println("DB_DSN_READONLY not set; AI assistant disabled.")
	default:
		dbReadOnly, err := database.OpenDBWithDSN(readOnlyDSN)
		if err != nil {
			log.Fatalf("Failed to connect to AI read-only database: %v", err)
		}
		defer dbReadOnly.Close()

		aiService, err = ai.NewAIService(geminiKey, dbReadOnly)
		if err != nil {
			log.Fatalf("Failed to initialize AI Service: %v", err)
		}
		defer aiService.Client.Close()
	}

	// 3. --- In-Memory Idea Store ---
	ideas := store.NewIdeaStore()

	app := &handlers.Handlers{
		DB:        db,
		Ideas:     ideas,
		AIService: aiService,
	}

	// 4. --- Store Change Logging ---
	// Subscribers get the full snapshot after every committed change; this
	// one just keeps an audit trail in the server log.
	go func() {
		for snapshot := range ideas.Subscribe() {
			log.Printf("Idea store updated: %d ideas cached", len(snapshot))
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting Brainstorm API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
