package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/ganindu/arana-care-api/models"
	"github.com/ganindu/arana-care-api/token"
)

// Admin accounts were observed hashing at a lower cost than users. Kept as
// is; the verify path is cost-independent either way.
const adminBcryptCost = 10

type adminRegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminRegister creates an admin account. Used for initial setup; it does
// not log the new admin in.
func (h *Handler) AdminRegister(c *fiber.Ctx) error {
	var req adminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please add all fields"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := dbCtx()
	defer cancel()

	admins := h.collection("admins")
	if err := admins.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Admin with that email already exists"})
	} else if err != mongo.ErrNoDocuments {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), adminBcryptCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot hash password"})
	}

	now := time.Now()
	admin := models.Admin{
		FullName:  req.FullName,
		Email:     email,
		Password:  string(hashed),
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := admins.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Admin with that email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert admin"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"_id":      result.InsertedID.(primitive.ObjectID).Hex(),
		"fullName": admin.FullName,
		"email":    admin.Email,
		"message":  "Admin registered successfully.",
	})
}

// AdminLogin authenticates an admin and issues a short-lived admin token.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide both email and password."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var admin models.Admin
	err := h.collection("admins").FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).Decode(&admin)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	t, err := token.Issue(h.jwtSecret, admin.ID.Hex(), models.RoleAdmin, token.AdminTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Admin login successful!",
		"token":   t,
		"admin": fiber.Map{
			"id":       admin.ID.Hex(),
			"fullName": admin.FullName,
			"email":    admin.Email,
		},
	})
}

// GetAllMemberships lists every user with their membership and the linked
// parent's name for the admin panel, newest registrations first.
func (h *Handler) GetAllMemberships(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.collection("users").Find(ctx, bson.M{"role": models.RoleUser}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch users"})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode users"})
	}

	parents := h.collection("parents")
	rows := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		row := fiber.Map{
			"_id":        u.ID.Hex(),
			"fullName":   u.FullName,
			"email":      u.Email,
			"membership": u.Membership,
		}
		if u.Parent != nil {
			var parent models.Parent
			if err := parents.FindOne(ctx, bson.M{"_id": *u.Parent}).Decode(&parent); err == nil {
				row["parent"] = fiber.Map{"fullName": parent.FullName}
			}
		}
		rows = append(rows, row)
	}

	return c.JSON(rows)
}

// SendPaymentReminder emails an unpaid user about their pending membership
// payment. A user who has already paid never receives one.
func (h *Handler) SendPaymentReminder(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err = h.collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil || user.Membership.PaymentStatus != models.PaymentUnpaid {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found or payment is already made."})
	}

	if err := h.mail.Send(user.Email,
		"Payment Reminder for Your Ayu Arana Care Membership",
		paymentReminderHTML(user.FullName, user.Membership.PlanID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send reminder email."})
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Reminder sent successfully to %s", user.FullName)})
}

func paymentReminderHTML(fullName, planID string) string {
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6;">
            <h2>Payment Reminder</h2>
            <p>Dear %s,</p>
            <p>This is a friendly reminder that your payment for the <strong>%s</strong> membership plan is due.</p>
            <p>Please log in to your account to complete the payment.</p>
            <br>
            <p>Thank you,</p>
            <p><strong>The Ayu Arana Care Team</strong></p>
        </div>`, fullName, planID)
}
