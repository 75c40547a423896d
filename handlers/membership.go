package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ganindu/arana-care-api/models"
)

// IsValidPlan reports whether p is a plan a user may switch to. "none" is
// the initial state only; nobody changes back to it.
func IsValidPlan(p string) bool {
	switch p {
	case models.PlanBasic, models.PlanEnhanced, models.PlanPremium:
		return true
	}
	return false
}

// GetMembership returns the authenticated user's current plan.
func (h *Handler) GetMembership(c *fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err = h.collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{"planId": user.Membership.PlanID})
}

type updateMembershipRequest struct {
	NewPlanID string `json:"newPlanId"`
}

// UpdateMembership changes the authenticated user's plan. Payment status
// is deliberately untouched: changing plans does not settle or void a
// payment.
func (h *Handler) UpdateMembership(c *fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized"})
	}

	var req updateMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if !IsValidPlan(req.NewPlanID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan ID provided."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.User
	err = h.collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"membership.planId":      req.NewPlanID,
			"membership.lastUpdated": time.Now(),
			"updatedAt":              time.Now(),
		}},
		optionsAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update membership"})
	}

	return c.JSON(fiber.Map{
		"message": "Membership updated successfully!",
		"planId":  updated.Membership.PlanID,
	})
}
