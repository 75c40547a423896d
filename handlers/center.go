package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ganindu/arana-care-api/models"
)

type centerRequest struct {
	BranchName  string `json:"branchName" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required"`
}

// AddCenter stores a branch of the care center. The image is the stored
// path/URL of an already-uploaded file; upload handling lives elsewhere.
func (h *Handler) AddCenter(c *fiber.Ctx) error {
	var req centerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields including image and description are required"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	center := models.CenterInfo{
		BranchName:  req.BranchName,
		Address:     req.Address,
		Email:       req.Email,
		Description: req.Description,
		Image:       req.Image,
		CreatedAt:   time.Now(),
	}
	if _, err := h.collection("centerinfos").InsertOne(ctx, center); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving center information"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Center added successfully"})
}

func (h *Handler) GetCenters(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := h.collection("centerinfos").Find(ctx, bson.M{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching center information"})
	}
	defer cursor.Close(ctx)

	var centers []models.CenterInfo
	if err := cursor.All(ctx, &centers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching center information"})
	}
	return c.JSON(centers)
}
