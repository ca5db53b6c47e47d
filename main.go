package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"awaam-raaj-backend/handlers"
	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/models"
	"awaam-raaj-backend/services"
	"awaam-raaj-backend/utils"
	"awaam-raaj-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // 32MB — campaign photos, not game builds
	})

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.District{},
		&models.Member{},
		&models.Referral{},
		&models.CampaignSession{},
		&models.CampaignGpsPoint{},
		&models.CampaignPhoto{},
		&models.PartyTask{},
		&models.TaskAssignment{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Announcement{},
		&models.BridgeCommand{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	scoringService := services.NewScoringService(db)
	rankingService := services.NewRankingService(db)
	leaderboardService := services.NewLeaderboardService(db, scoringService)
	memberService := services.NewMemberService(db)
	campaignService := services.NewCampaignService(db)
	taskService := services.NewTaskService(db)
	feedService := services.NewFeedService(db)
	announcementService := services.NewAnnouncementService(db)
	bridgeService := services.NewBridgeService(db)

	// Bridge routes register before the gateway guard: the DroidClaw agent
	// calls in directly with its own token, it never passes the gateway.
	handlers.SetupBridgeRoutes(app, bridgeService)

	// 🔐❗ GLOBAL: Only Gateway requests allowed past this point
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := services.NewWhatsAppNotifierFromEnv()
	announcementWorker := workers.NewAnnouncementWorker(db, notifier)
	announcementWorker.Start(ctx)

	rankingService.StartRankRebuildScheduler()

	handlers.SetupMemberRoutes(app, memberService, scoringService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, rankingService)
	handlers.SetupCampaignRoutes(app, campaignService)
	handlers.SetupTaskRoutes(app, taskService)
	handlers.SetupFeedRoutes(app, feedService)
	handlers.SetupAnnouncementRoutes(app, announcementService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Println("✅ GatewayAuthMiddleware enforced — all member/admin requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
