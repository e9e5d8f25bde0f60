package routes

import (
	"net/http"

	"github.com/brainstorm-app/brainstorm-golang/internal/handlers"
	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware tells the browser the Angular dev server may talk to us.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:4200")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight OPTIONS gets an empty 204 before any auth middleware runs.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouter wires every endpoint. Route paths are case-sensitive and
// mirror the client exactly, including the /api/Categorie spelling.
func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	api := router.Group("/api")
	{
		// --- Ping Route (Public) ---
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		api.POST("/Auth/register", h.Register)
		api.POST("/Auth/login", h.Login)

		// --- Category Reads (Public) ---
		api.GET("/Categorie/categories", h.GetAllCategories)

		// --- Protected Routes (Login Required) ---
		auth := api.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			// --- Profile ---
			auth.GET("/users/me", h.GetMyProfile)

			// --- Idea Routes ---
			auth.GET("/Idea/all", h.GetAllIdeas)
			auth.GET("/Idea/my-ideas", h.GetMyIdeas)
			auth.POST("/Idea/submit", h.SubmitIdea)
			auth.DELETE("/Idea/:id", h.DeleteIdea)

			// --- Comment Routes ---
			auth.GET("/comment/:ideaId", h.GetCommentsForIdea)
			auth.POST("/comment/:ideaId", h.AddComment)
			auth.PUT("/comment/:id", h.UpdateComment)
			auth.DELETE("/comment/:id", h.DeleteComment)

			// --- Vote Routes ---
			auth.POST("/vote/:ideaId/upvote", h.Upvote)
			auth.POST("/vote/:ideaId/downvote", h.Downvote)
			auth.GET("/vote/:ideaId", h.GetVotesForIdea)
			auth.DELETE("/vote/:ideaId", h.RemoveVote)

			// --- Review Reads (any logged-in user) ---
			auth.GET("/review/idea/:id", h.GetReviewsForIdea)

			// --- Notification Routes ---
			auth.GET("/Notification", h.GetMyNotifications)
			auth.PUT("/Notification/read-all", h.MarkAllNotificationsAsRead)
			auth.PUT("/Notification/:id/read", h.MarkNotificationAsRead)
			auth.GET("/Notification/unread-count", h.GetUnreadCount)

			// --- Report Routes ---
			reports := auth.Group("/reports")
			{
				reports.GET("/ideas/status-distribution", h.GetStatusDistribution)
				reports.GET("/categories", h.GetCategoryReports)
				reports.GET("/category/:categoryId", h.GetCategoryReport)
				reports.GET("/ideas/by-date", h.GetIdeasByDate)
				reports.GET("/top-categories", h.GetTopCategories)
				reports.GET("/approval-trends", h.GetApprovalTrends)
				reports.GET("/employee-contributions", h.GetEmployeeContributions)
				reports.GET("/users/activity", h.GetUserActivity)
			}

			// --- Manager Routes (Review Pipeline) ---
			manager := auth.Group("/review")
			manager.Use(middleware.ManagerMiddleware())
			{
				manager.POST("/submit", h.SubmitReview)
				manager.GET("/ideas", h.GetIdeasForReview)
				manager.GET("/ideas/status/:status", h.GetIdeasByStatus)
				manager.GET("/ideas/:id", h.GetIdeaWithDetails)
				manager.PUT("/ideas/:id/status", h.ChangeIdeaStatus)
				manager.POST("/ideas/:id/feedback", h.SubmitFeedback)
				manager.GET("/manager/my-reviews", h.GetMyReviews)
			}

			// --- AI Assistant (Manager or Admin) ---
			ai := auth.Group("/ai")
			ai.Use(middleware.ManagerOrAdminMiddleware())
			{
				ai.POST("/chat", h.ChatAI)
			}

			// --- Admin Routes ---
			admin := auth.Group("/")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.POST("/Categorie/categories", h.CreateCategory)
				admin.PUT("/Categorie/categories/:id", h.UpdateCategory)
				admin.DELETE("/Categorie/categories/:id", h.DeleteCategory)

				admin.GET("/users", h.ListUsers)
				admin.PATCH("/users/:id/status", h.SetUserStatus)

				admin.GET("/reports/system-overview", h.GetSystemOverview)
			}
		}
	}

	return router
}
