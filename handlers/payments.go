package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ganindu/arana-care-api/models"
)

type paymentRequest struct {
	PlanID   string  `json:"planId" validate:"required,oneof=basic enhanced premium"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required"`
}

// ProcessMembershipPayment records a simulated membership payment: the
// membership moves to the given plan with status Paid, and an immutable
// ledger record is written. The confirmation email is dispatched after the
// state change has committed; a delivery failure never fails the payment.
func (h *Handler) ProcessMembershipPayment(c *fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized"})
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Plan, amount, and currency are required."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err = h.collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"membership.planId":        req.PlanID,
			"membership.paymentStatus": models.PaymentPaid,
			"membership.lastUpdated":   time.Now(),
			"updatedAt":                time.Now(),
		}},
		optionsAfter(),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update membership"})
	}

	payment := models.Payment{
		UserID:        user.ID,
		PlanID:        req.PlanID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		TransactionID: "sim_" + uuid.NewString(),
		PaymentDate:   time.Now(),
	}
	if _, err := h.collection("payments").InsertOne(ctx, payment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot record payment"})
	}

	h.sendMailAsync(user.Email, "Your Membership Payment was Successful!",
		paymentConfirmationHTML(user.FullName, payment))

	return c.JSON(fiber.Map{
		"message": "Payment successful and membership updated!",
		"planId":  user.Membership.PlanID,
	})
}

func paymentConfirmationHTML(fullName string, p models.Payment) string {
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
            <h2 style="color: #28a745;">Payment Confirmation</h2>
            <p>Dear %s,</p>
            <p>Thank you for your payment. Your membership plan has been successfully updated to the <strong>%s</strong> plan.</p>
            <hr>
            <h3 style="color: #0056b3;">Payment Details:</h3>
            <ul>
                <li><strong>Plan:</strong> %s</li>
                <li><strong>Amount Paid:</strong> %.2f %s</li>
                <li><strong>Transaction ID:</strong> %s</li>
                <li><strong>Date:</strong> %s</li>
            </ul>
            <hr>
            <p>You now have access to all the features included in your new plan.</p>
            <br>
            <p>Thank you,</p>
            <p><strong>The Ayu Arana Care Team</strong></p>
        </div>`,
		fullName, p.PlanID, titleCase(p.PlanID), p.Amount, p.Currency,
		p.TransactionID, p.PaymentDate.Format("02/01/2006, 15:04:05"))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
