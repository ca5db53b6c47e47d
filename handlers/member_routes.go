// handlers/member_routes.go
package handlers

import (
	"strconv"

	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMemberRoutes(app *fiber.App, memberService *services.MemberService, scoringService *services.ScoringService) {
	// Public: registration happens before the member has gateway credentials.
	app.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			FullName     string  `json:"full_name" validate:"required"`
			Phone        string  `json:"phone" validate:"required"`
			Email        *string `json:"email"`
			CNIC         *string `json:"cnic"`
			DistrictID   *string `json:"district_id"`
			Constituency string  `json:"constituency"`
			ReferralCode string  `json:"referral_code"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		member, err := memberService.Register(services.RegisterInput{
			FullName:     req.FullName,
			Phone:        req.Phone,
			Email:        req.Email,
			CNIC:         req.CNIC,
			DistrictID:   req.DistrictID,
			Constituency: req.Constituency,
			ReferralCode: req.ReferralCode,
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(member)
	})

	app.Get("/districts", func(c *fiber.Ctx) error {
		districts, err := memberService.ListDistricts()
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(districts)
	})

	// 🔐 Secured routes — require user context (userID, roles)
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/me", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)
		member, err := memberService.GetMember(memberID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(member)
	})

	securedGroup.Get("/me/score", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)
		member, err := memberService.GetMember(memberID)
		if err != nil {
			return respondServiceError(c, err)
		}
		stats, err := scoringService.CalculateMemberScore(memberID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"member_id": member.ID,
			"score":     member.Score,
			"rank":      member.Rank,
			"stats":     stats,
		})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Get("/members", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		members, err := memberService.SearchMembers(c.Query("q"), limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(members)
	})

	adminGroup.Get("/members/:id", func(c *fiber.Ctx) error {
		member, err := memberService.GetMember(c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		stats, err := scoringService.CalculateMemberScore(member.ID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"member": member, "stats": stats})
	})

	adminGroup.Post("/members/:id/activate", func(c *fiber.Ctx) error {
		member, err := memberService.Activate(c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(member)
	})

	adminGroup.Post("/members/:id/suspend", func(c *fiber.Ctx) error {
		member, err := memberService.Suspend(c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(member)
	})

	adminGroup.Post("/districts", func(c *fiber.Ctx) error {
		var req struct {
			Name     string `json:"name" validate:"required"`
			Province string `json:"province" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		district, err := memberService.CreateDistrict(req.Name, req.Province)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(district)
	})
}
