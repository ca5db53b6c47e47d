// handlers/leaderboard_routes.go
package handlers

import (
	"strconv"

	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, rankingService *services.RankingService) {
	// Leaderboards are public reads.
	app.Get("/leaderboard/national", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		entries, err := leaderboardService.NationalLeaderboard(limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"scope": "national", "entries": entries})
	})

	app.Get("/leaderboard/district/:id", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		entries, err := leaderboardService.DistrictLeaderboard(c.Params("id"), limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"scope": "district", "district_id": c.Params("id"), "entries": entries})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/rankings/recompute", func(c *fiber.Ctx) error {
		if districtID := c.Query("district_id"); districtID != "" {
			if err := rankingService.ComputeDistrictRankings(districtID); err != nil {
				return respondServiceError(c, err)
			}
			return c.JSON(fiber.Map{"message": "district ranks recomputed", "district_id": districtID})
		}
		if err := rankingService.ComputeAllDistrictRankings(); err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "all district ranks recomputed"})
	})
}
