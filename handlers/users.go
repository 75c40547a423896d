package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/ganindu/arana-care-api/models"
)

// GetProfile returns the authenticated user's profile with the linked
// parent summary embedded.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
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

	resp := fiber.Map{
		"_id":         user.ID.Hex(),
		"fullName":    user.FullName,
		"email":       user.Email,
		"phone":       user.Phone,
		"nic":         user.NIC,
		"dateOfBirth": user.DateOfBirth,
		"membership":  user.Membership,
	}
	if user.Parent != nil {
		var parent models.Parent
		if err := h.collection("parents").FindOne(ctx, bson.M{"_id": *user.Parent}).Decode(&parent); err == nil {
			resp["parent"] = fiber.Map{
				"parentId": parent.ParentID,
				"fullName": parent.FullName,
				"address":  parent.Address,
				"phone":    parent.Phone,
				"nic":      parent.NIC,
			}
		}
	}

	return c.JSON(resp)
}

type updateProfileRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	NIC         string `json:"nic"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
}

// UpdateProfile applies the provided fields to the authenticated user's
// record; empty fields are left untouched. A new password is re-hashed
// before it is stored.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		set["fullName"] = req.FullName
	}
	if req.Email != "" {
		set["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.NIC != "" {
		set["nic"] = req.NIC
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date of birth"})
		}
		set["dateOfBirth"] = dob
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), userBcryptCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot hash password"})
		}
		set["password"] = string(hashed)
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.User
	err = h.collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		optionsAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A user with this email already exists."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update user"})
	}

	return c.JSON(fiber.Map{
		"_id":         updated.ID.Hex(),
		"fullName":    updated.FullName,
		"email":       updated.Email,
		"phone":       updated.Phone,
		"nic":         updated.NIC,
		"dateOfBirth": updated.DateOfBirth,
		"membership":  updated.Membership,
	})
}
