package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/ganindu/arana-care-api/models"
	"github.com/ganindu/arana-care-api/token"
)

const userBcryptCost = 12

type registerRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Phone       string `json:"phone"`
	NIC         string `json:"nic"`
	ParentID    int    `json:"parentId" validate:"required"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Register creates a user account linked to an existing parent record and
// sends a welcome email. The response carries a fresh token so the client
// can proceed straight to an authenticated state.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Full name, email, password, and Parent Registration ID are required."})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := dbCtx()
	defer cancel()

	users := h.collection("users")
	if err := users.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A user with this email already exists."})
	} else if err != mongo.ErrNoDocuments {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	var parent models.Parent
	err := h.collection("parents").FindOne(ctx, bson.M{"parentId": req.ParentID}).Decode(&parent)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("Parent with Registration ID #%d not found. Please check the ID and try again.", req.ParentID),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), userBcryptCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot hash password"})
	}

	now := time.Now()
	user := models.User{
		FullName: req.FullName,
		Email:    email,
		Password: string(hashed),
		Phone:    req.Phone,
		NIC:      req.NIC,
		Parent:   &parent.ID,
		Role:     models.RoleUser,
		Membership: models.Membership{
			PlanID:        models.PlanNone,
			PaymentStatus: models.PaymentUnpaid,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date of birth"})
		}
		user.DateOfBirth = &dob
	}

	result, err := users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A user with this email already exists."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert user"})
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	h.sendMailAsync(user.Email, "Successful Registration with Ayu Arana Care",
		registrationEmailHTML(user, parent))

	// Registration-issued tokens get the long TTL so a fresh registrant is
	// not logged out mid-onboarding.
	t, err := token.Issue(h.jwtSecret, user.ID.Hex(), models.RoleUser, token.UserRegisterTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful! A confirmation email has been sent.",
		"user": fiber.Map{
			"id":       user.ID.Hex(),
			"fullName": user.FullName,
			"email":    user.Email,
		},
		"token": t,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user by email and password. Unknown email and
// wrong password surface as the same generic error on purpose.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide both email and password."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := h.collection("users").FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).Decode(&user)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	t, err := token.Issue(h.jwtSecret, user.ID.Hex(), models.RoleUser, token.UserLoginTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful!",
		"user": fiber.Map{
			"id":       user.ID.Hex(),
			"fullName": user.FullName,
			"email":    user.Email,
			"role":     user.Role,
		},
		"token": t,
	})
}

func registrationEmailHTML(user models.User, parent models.Parent) string {
	orNotProvided := func(s string) string {
		if s == "" {
			return "Not provided"
		}
		return s
	}
	dob := "Not provided"
	if user.DateOfBirth != nil {
		dob = user.DateOfBirth.Format("02/01/2006")
	}
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
            <h1 style="color: #800000;">Welcome to Ayu Arana Care!</h1>
            <p>Dear %s,</p>
            <p>Thank you for registering. Your account has been created successfully and linked to your parent/resident.</p>
            <h3 style="color: #800000;">Your Registration Details:</h3>
            <ul>
                <li><strong>Full Name:</strong> %s</li>
                <li><strong>NIC:</strong> %s</li>
                <li><strong>Phone:</strong> %s</li>
                <li><strong>Date of Birth:</strong> %s</li>
            </ul>
            <h3 style="color: #800000;">Linked Parent Information:</h3>
            <ul>
                <li><strong>Parent Registration ID:</strong> %d</li>
                <li><strong>Parent Name:</strong> %s</li>
            </ul>
            <p>If any of the above information is incorrect, please contact our administrators immediately.</p>
            <br>
            <p>Thank you,<br>The Ayu Arana Care Team</p>
        </div>`,
		user.FullName, user.FullName, orNotProvided(user.NIC), orNotProvided(user.Phone), dob,
		parent.ParentID, parent.FullName)
}
