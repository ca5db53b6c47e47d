// services/feed.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"awaam-raaj-backend/models"
	"awaam-raaj-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

// CreatePost publishes a feed post for the authenticated member. Accepts
// multipart with an optional "photo" part.
func (s *FeedService) CreatePost(c *fiber.Ctx) error {
	memberID := c.Locals("user_id").(string)

	body := c.FormValue("body")
	if body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	var member models.Member
	if err := s.DB.First(&member, "id = ?", memberID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Member not found"})
	}

	post := &models.Post{
		MemberID:   memberID,
		DistrictID: member.DistrictID,
		Body:       body,
		AuthorName: member.FullName,
	}

	if fileHeader, err := c.FormFile("photo"); err == nil && fileHeader != nil {
		key := fmt.Sprintf("feed/%s%s", uuid.NewString(), utils.SafeExt(fileHeader.Filename))
		url, err := utils.StoreUpload(fileHeader, key)
		if err != nil {
			log.Printf("Upload error for feed photo: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
		}
		post.PhotoURL = &url
	}

	if err := s.DB.Create(post).Error; err != nil {
		log.Printf("DB Error creating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create post"})
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed returns posts, newest first. ?district_id scopes to one district;
// otherwise the national feed (all posts) is returned.
func (s *FeedService) GetFeed(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	limit = clampLimit(limit)
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	query := s.DB.Model(&models.Post{}).Order("created_at DESC").Limit(limit).Offset((page - 1) * limit)
	if districtID := c.Query("district_id"); districtID != "" {
		query = query.Where("district_id = ?", districtID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		log.Printf("DB Error fetching feed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch feed"})
	}
	return c.JSON(posts)
}

// LikePost records a like, once per member per post.
func (s *FeedService) LikePost(c *fiber.Ctx) error {
	memberID := c.Locals("user_id").(string)
	postID := c.Params("id")
	if _, err := uuid.Parse(postID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.PostLike{}).
			Where("post_id = ? AND member_id = ?", postID, memberID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return &ConflictError{Message: "already liked"}
		}

		if err := tx.Create(&models.PostLike{PostID: postID, MemberID: memberID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflict.Message})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		log.Printf("DB Error liking post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to like post"})
	}
	return c.JSON(fiber.Map{"message": "OK"})
}

// CommentOnPost appends a comment and bumps the denormalized counter.
func (s *FeedService) CommentOnPost(c *fiber.Ctx) error {
	memberID := c.Locals("user_id").(string)
	postID := c.Params("id")
	if _, err := uuid.Parse(postID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	var req struct {
		Body string `json:"body" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	var member models.Member
	if err := s.DB.First(&member, "id = ?", memberID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Member not found"})
	}

	comment := &models.PostComment{
		PostID:     postID,
		MemberID:   memberID,
		Body:       req.Body,
		AuthorName: member.FullName,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		log.Printf("DB Error commenting: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to comment"})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists comments for a post, oldest first.
func (s *FeedService) GetComments(c *fiber.Ctx) error {
	postID := c.Params("id")
	if _, err := uuid.Parse(postID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	var comments []models.PostComment
	if err := s.DB.Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		log.Printf("DB Error fetching comments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}
	return c.JSON(comments)
}

// DeletePost removes the member's own post (soft delete); admins may delete any.
func (s *FeedService) DeletePost(c *fiber.Ctx) error {
	memberID := c.Locals("user_id").(string)
	roles, _ := c.Locals("user_roles").([]string)
	postID := c.Params("id")

	var post models.Post
	if err := s.DB.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if post.MemberID != memberID && !hasRole(roles, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your post"})
	}

	if err := s.DB.Delete(&post).Error; err != nil {
		log.Printf("DB Error deleting post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete post"})
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
