package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ganindu/arana-care-api/models"
)

type emergencyContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

type registerParentRequest struct {
	FullName         string                  `json:"fullName" validate:"required"`
	Address          string                  `json:"address" validate:"required"`
	Phone            string                  `json:"phone" validate:"required"`
	NIC              string                  `json:"nic" validate:"required"`
	Email            string                  `json:"email" validate:"omitempty,email"`
	DateOfBirth      string                  `json:"dateOfBirth" validate:"required"`
	EmergencyContact emergencyContactRequest `json:"emergencyContact" validate:"required"`
}

// nextParentID hands out the human-facing sequential registration number.
// The counter lives in its own document and is advanced with an atomic
// $inc, so concurrent registrations cannot mint the same ID.
func (h *Handler) nextParentID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := h.collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": "parentId"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// SeedParentCounter raises the counter to the highest parentId already on
// record, so data that predates the counter cannot collide with the next
// minted ID. $max keeps it idempotent and safe to run on every start.
func (h *Handler) SeedParentCounter(ctx context.Context) error {
	var top models.Parent
	findOpts := options.FindOne().SetSort(bson.D{{Key: "parentId", Value: -1}})
	err := h.collection("parents").FindOne(ctx, bson.M{}, findOpts).Decode(&top)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = h.collection("counters").UpdateOne(ctx,
		bson.M{"_id": "parentId"},
		bson.M{"$max": bson.M{"seq": top.ParentID}},
		options.Update().SetUpsert(true))
	return err
}

// RegisterParent creates a guarantor/resident-family record and assigns it
// the next sequential registration ID.
// TODO: mount behind the admin gate once the admin console attaches its
// token to this call.
func (h *Handler) RegisterParent(c *fiber.Ctx) error {
	var req registerParentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please fill out all required fields, including emergency contact details."})
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date of birth"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	parents := h.collection("parents")
	if err := parents.FindOne(ctx, bson.M{"nic": req.NIC}).Err(); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A parent with this NIC already exists."})
	} else if err != mongo.ErrNoDocuments {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	parentID, err := h.nextParentID(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot assign parent ID"})
	}

	now := time.Now()
	parent := models.Parent{
		ParentID:    parentID,
		FullName:    req.FullName,
		Address:     req.Address,
		Phone:       req.Phone,
		NIC:         req.NIC,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		DateOfBirth: dob,
		EmergencyContact: models.EmergencyContact{
			Name:         req.EmergencyContact.Name,
			Phone:        req.EmergencyContact.Phone,
			Relationship: req.EmergencyContact.Relationship,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := parents.InsertOne(ctx, parent)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A parent with this NIC already exists."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert parent"})
	}
	parent.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(parent)
}

// GetParents lists every registered parent in registration-ID order.
func (h *Handler) GetParents(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "parentId", Value: 1}})
	cursor, err := h.collection("parents").Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch parents"})
	}
	defer cursor.Close(ctx)

	var parents []models.Parent
	if err := cursor.All(ctx, &parents); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode parents"})
	}

	return c.JSON(parents)
}
