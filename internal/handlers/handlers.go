package handlers

import (
	"database/sql"

	"github.com/brainstorm-app/brainstorm-golang/internal/ai"
	"github.com/brainstorm-app/brainstorm-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB        *sql.DB          // Primary Read/Write connection
	Ideas     *store.IdeaStore // Latest known idea list, republished to subscribers
	AIService *ai.AIService    // Optional Gemini assistant (nil when no API key is set)
}
