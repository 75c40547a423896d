package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ganindu/arana-care-api/models"
)

func (h *Handler) GetAllFeedback(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.collection("feedbacks").Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch feedback"})
	}
	defer cursor.Close(ctx)

	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode feedback"})
	}
	return c.JSON(feedback)
}

func (h *Handler) GetHomePageFeedback(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.collection("feedbacks").Find(ctx, bson.M{"displayOnHome": true}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch feedback"})
	}
	defer cursor.Close(ctx)

	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode feedback"})
	}
	return c.JSON(feedback)
}

type feedbackRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

func (h *Handler) CreateFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide name, email, and message."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	feedback := models.Feedback{
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	result, err := h.collection("feedbacks").InsertOne(ctx, feedback)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot submit feedback"})
	}
	feedback.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Feedback submitted successfully!",
		"feedback": feedback,
	})
}

type homeDisplayRequest struct {
	FeedbackIDsToDisplay []string `json:"feedbackIdsToDisplay"`
}

// UpdateHomeDisplayStatus replaces the set of feedback entries shown on the
// home page: clear every flag, then set the selected ones. The two writes
// are not atomic; a concurrent reader can observe the cleared state.
func (h *Handler) UpdateHomeDisplayStatus(c *fiber.Ctx) error {
	var req homeDisplayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.FeedbackIDsToDisplay == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "feedbackIdsToDisplay must be an array of feedback IDs."})
	}

	ids := make([]primitive.ObjectID, 0, len(req.FeedbackIDsToDisplay))
	for _, raw := range req.FeedbackIDsToDisplay {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid feedback ID"})
		}
		ids = append(ids, id)
	}

	ctx, cancel := dbCtx()
	defer cancel()

	feedbacks := h.collection("feedbacks")
	if _, err := feedbacks.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"displayOnHome": false}}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update display status"})
	}
	if len(ids) > 0 {
		if _, err := feedbacks.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ids}},
			bson.M{"$set": bson.M{"displayOnHome": true}}); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update display status"})
		}
	}

	return c.JSON(fiber.Map{"message": "Home page display status updated successfully."})
}

func (h *Handler) DeleteFeedback(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid feedback ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	result, err := h.collection("feedbacks").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete feedback"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found."})
	}
	return c.JSON(fiber.Map{"message": "Feedback deleted successfully."})
}
