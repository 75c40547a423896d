package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ganindu/arana-care-api/models"
)

const (
	roleOpen   = "Open"
	roleClosed = "Closed"
)

// GetOpenCareers returns the public careers page data: every branch that
// has at least one open role, with closed roles stripped out.
func (h *Handler) GetOpenCareers(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := h.collection("careers").Find(ctx, bson.M{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch careers"})
	}
	defer cursor.Close(ctx)

	var branches []models.CareerBranch
	if err := cursor.All(ctx, &branches); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode careers"})
	}

	open := make([]fiber.Map, 0, len(branches))
	for _, b := range branches {
		var roles []models.CareerRole
		for _, r := range b.Roles {
			if r.Status == roleOpen {
				roles = append(roles, r)
			}
		}
		if len(roles) > 0 {
			open = append(open, fiber.Map{
				"_id":   b.ID.Hex(),
				"name":  b.Name,
				"roles": roles,
			})
		}
	}

	return c.JSON(open)
}

// GetAllCareers returns every branch with every role for the admin panel.
func (h *Handler) GetAllCareers(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := h.collection("careers").Find(ctx, bson.M{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch careers"})
	}
	defer cursor.Close(ctx)

	var branches []models.CareerBranch
	if err := cursor.All(ctx, &branches); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode careers"})
	}

	return c.JSON(branches)
}

func (h *Handler) AddCareerBranch(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Branch name is required"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	careers := h.collection("careers")
	if err := careers.FindOne(ctx, bson.M{"name": req.Name}).Err(); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Branch with that name already exists"})
	} else if err != mongo.ErrNoDocuments {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	now := time.Now()
	branch := models.CareerBranch{
		Name:      req.Name,
		Roles:     []models.CareerRole{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := careers.InsertOne(ctx, branch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Branch with that name already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert branch"})
	}
	branch.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(branch)
}

type careerRoleRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements"`
	Status       string   `json:"status" validate:"omitempty,oneof=Open Closed"`
}

func (h *Handler) AddRoleToBranch(c *fiber.Ctx) error {
	branchID, err := primitive.ObjectIDFromHex(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	var req careerRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role title and description are required"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	careers := h.collection("careers")
	var branch models.CareerBranch
	err = careers.FindOne(ctx, bson.M{"_id": branchID}).Decode(&branch)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Career branch not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	for _, r := range branch.Roles {
		if r.Title == req.Title {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role with this title already exists in this branch"})
		}
	}

	role := models.CareerRole{
		ID:           primitive.NewObjectID(),
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Status:       req.Status,
	}
	if role.Requirements == nil {
		role.Requirements = []string{}
	}
	if role.Status == "" {
		role.Status = roleOpen
	}

	err = careers.FindOneAndUpdate(ctx,
		bson.M{"_id": branchID},
		bson.M{"$push": bson.M{"roles": role}, "$set": bson.M{"updatedAt": time.Now()}},
		optionsAfter(),
	).Decode(&branch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot add role"})
	}

	return c.Status(fiber.StatusCreated).JSON(branch)
}

func (h *Handler) UpdateRoleInBranch(c *fiber.Ctx) error {
	branchID, err := primitive.ObjectIDFromHex(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	roleID, err := primitive.ObjectIDFromHex(c.Params("roleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role ID"})
	}

	var req struct {
		Title        *string   `json:"title"`
		Description  *string   `json:"description"`
		Requirements *[]string `json:"requirements"`
		Status       *string   `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		set["roles.$.title"] = *req.Title
	}
	if req.Description != nil {
		set["roles.$.description"] = *req.Description
	}
	if req.Requirements != nil {
		set["roles.$.requirements"] = *req.Requirements
	}
	if req.Status != nil {
		if *req.Status != roleOpen && *req.Status != roleClosed {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role status"})
		}
		set["roles.$.status"] = *req.Status
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var branch models.CareerBranch
	err = h.collection("careers").FindOneAndUpdate(ctx,
		bson.M{"_id": branchID, "roles._id": roleID},
		bson.M{"$set": set},
		optionsAfter(),
	).Decode(&branch)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found in this branch"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update role"})
	}

	return c.JSON(branch)
}

func (h *Handler) DeleteRoleFromBranch(c *fiber.Ctx) error {
	branchID, err := primitive.ObjectIDFromHex(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	roleID, err := primitive.ObjectIDFromHex(c.Params("roleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var branch models.CareerBranch
	err = h.collection("careers").FindOneAndUpdate(ctx,
		bson.M{"_id": branchID},
		bson.M{"$pull": bson.M{"roles": bson.M{"_id": roleID}}, "$set": bson.M{"updatedAt": time.Now()}},
		optionsAfter(),
	).Decode(&branch)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Career branch not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot remove role"})
	}

	return c.JSON(fiber.Map{"message": "Role removed successfully", "branch": branch})
}

func (h *Handler) DeleteCareerBranch(c *fiber.Ctx) error {
	branchID, err := primitive.ObjectIDFromHex(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	result, err := h.collection("careers").DeleteOne(ctx, bson.M{"_id": branchID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete branch"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Career branch not found"})
	}

	return c.JSON(fiber.Map{"message": "Career branch deleted successfully"})
}
