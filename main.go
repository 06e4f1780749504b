package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/CrowderSoup/kanban-app/database"
	"github.com/CrowderSoup/kanban-app/handlers"
	"github.com/CrowderSoup/kanban-app/services"
	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables from .env file (optional in production)
	if err := services.LoadEnv(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize database
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./kanban.db"
	}
	db, err := database.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize services
	authService := services.NewAuthService()
	boardService := database.NewBoardService(db)
	positionService := database.NewPositionService(db)
	workflowService := database.NewWorkflowService(db)

	// Initialize WebSocket hub for board invalidation events
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(boardService, positionService, hub)
	cardHandler := handlers.NewCardHandler(boardService, positionService, workflowService, hub)
	checklistHandler := handlers.NewChecklistHandler(boardService, workflowService, hub)
	wsHandler := handlers.NewWebSocketHandler(hub)
	authMiddleware := handlers.NewAuthMiddleware(authService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Auth)

	handlers.RegisterRoutes(api, boardHandler, cardHandler, checklistHandler, wsHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, change to your domain
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(server.ListenAndServe())
}
