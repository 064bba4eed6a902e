package main

import (
	"context"
	"log"
	"strconv"

	"debatehub/config"
	"debatehub/db"
	"debatehub/internal/notify"
	"debatehub/middlewares"
	"debatehub/routes"
	"debatehub/services"
	"debatehub/utils"
	"debatehub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := db.Connect(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close(context.Background())
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub()

	// With Redis configured, change events flow through a stream so every
	// instance fans them out to its own websocket clients. Without it the
	// hub is fed directly.
	var publisher notify.Publisher = hub
	if cfg.Redis.Addr != "" {
		rdb, err := notify.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		publisher = notify.NewRedisPublisher(rdb)
		go notify.NewStreamConsumer(rdb, hub).Run(ctx)
		log.Println("Connected to Redis")
	}

	judge, err := services.NewJudge(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize judge: %v", err)
	}

	sessions := services.NewSessionManager(store, publisher, cfg.Debate.TurnSeconds, cfg.Debate.TotalSeconds)
	go sessions.Run(ctx)

	evaluator := services.NewEvaluator(store, judge, publisher, sessions, cfg.Debate.MinArguments)

	utils.SeedDebateData(store)

	router := setupRouter(cfg, store, sessions, evaluator, hub)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config, store db.Store, sessions *services.SessionManager, evaluator *services.Evaluator, hub *websocket.Hub) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	h := &routes.Handler{
		Cfg:       cfg,
		Store:     store,
		Sessions:  sessions,
		Evaluator: evaluator,
	}

	// Public routes for authentication
	router.POST("/signup", h.SignUp)
	router.POST("/login", h.Login)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware(cfg, store))
	{
		auth.POST("/verifyToken", h.VerifyToken)

		auth.POST("/debates", h.CreateDebate)
		auth.GET("/debates", h.ListDebates)
		auth.GET("/debates/:id", h.GetDebate)
		auth.POST("/debates/:id/join", h.JoinDebate)
		auth.POST("/debates/:id/start", h.StartDebate)
		auth.POST("/debates/:id/arguments", h.SubmitArgument)
		auth.POST("/debates/:id/end", h.EndDebate)

		// Evaluation fans out to a paid judging backend, so it is rate limited
		evaluate := auth.Group("/")
		evaluate.Use(middlewares.RateLimitMiddleware(rate.Limit(0.2), 2))
		{
			evaluate.POST("/debates/:id/evaluate", h.EvaluateDebate)
			evaluate.POST("/evaluate", h.EvaluateDebateByBody)
		}
	}

	// WebSocket change feed, one debate per connection
	router.GET("/ws", hub.Handler)

	return router
}
