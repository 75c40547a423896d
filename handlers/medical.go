package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ganindu/arana-care-api/models"
)

// --- Checkup types ---

func (h *Handler) GetCheckupTypes(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.collection("checkuptypes").Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch checkup types"})
	}
	defer cursor.Close(ctx)

	var types []models.CheckupType
	if err := cursor.All(ctx, &types); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode checkup types"})
	}
	return c.JSON(types)
}

type checkupTypeRequest struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
}

func (h *Handler) CreateCheckupType(c *fiber.Ctx) error {
	var req checkupTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and price are required."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	ct := models.CheckupType{Name: req.Name, Price: *req.Price, CreatedAt: time.Now()}
	result, err := h.collection("checkuptypes").InsertOne(ctx, ct)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A checkup type with this name already exists."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert checkup type"})
	}
	ct.ID = result.InsertedID.(primitive.ObjectID)
	return c.Status(fiber.StatusCreated).JSON(ct)
}

func (h *Handler) UpdateCheckupType(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid checkup type ID"})
	}

	var req struct {
		Name  string   `json:"name"`
		Price *float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}

	ctx, cancel := dbCtx()
	defer cancel()

	// Nothing to change: return the document as it stands. Mongo rejects
	// an empty $set outright.
	if len(set) == 0 {
		var current models.CheckupType
		err = h.collection("checkuptypes").FindOne(ctx, bson.M{"_id": id}).Decode(&current)
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Checkup Type not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update checkup type"})
		}
		return c.JSON(current)
	}

	var updated models.CheckupType
	err = h.collection("checkuptypes").FindOneAndUpdate(ctx,
		bson.M{"_id": id}, bson.M{"$set": set}, optionsAfter()).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Checkup Type not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update checkup type"})
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteCheckupType(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid checkup type ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	result, err := h.collection("checkuptypes").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete checkup type"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Checkup Type not found"})
	}
	return c.JSON(fiber.Map{"message": "Checkup Type removed"})
}

// --- Checkup requests ---

// requestView assembles a checkup request with its referenced documents
// expanded, the shape the admin panel and the user's page both render.
func (h *Handler) requestView(ctx context.Context, r models.MedicalRequest) fiber.Map {
	view := fiber.Map{
		"_id":           r.ID.Hex(),
		"notes":         r.Notes,
		"status":        r.Status,
		"paymentStatus": r.PaymentStatus,
		"reportFile":    r.ReportFile,
		"requestedAt":   r.RequestedAt,
		"updatedAt":     r.UpdatedAt,
	}

	var resident models.User
	if err := h.collection("users").FindOne(ctx, bson.M{"_id": r.Resident}).Decode(&resident); err == nil {
		res := fiber.Map{"_id": resident.ID.Hex(), "fullName": resident.FullName}
		if resident.Parent != nil {
			var parent models.Parent
			if err := h.collection("parents").FindOne(ctx, bson.M{"_id": *resident.Parent}).Decode(&parent); err == nil {
				res["parent"] = fiber.Map{"parentId": parent.ParentID}
			}
		}
		view["resident"] = res
	}

	var requester models.User
	if err := h.collection("users").FindOne(ctx, bson.M{"_id": r.RequestedBy}).Decode(&requester); err == nil {
		view["requestedBy"] = fiber.Map{
			"_id":      requester.ID.Hex(),
			"fullName": requester.FullName,
			"email":    requester.Email,
		}
	}

	var ct models.CheckupType
	if err := h.collection("checkuptypes").FindOne(ctx, bson.M{"_id": r.CheckupType}).Decode(&ct); err == nil {
		view["checkupType"] = fiber.Map{"_id": ct.ID.Hex(), "name": ct.Name, "price": ct.Price}
	}

	return view
}

func (h *Handler) GetAllMedicalRequests(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := h.collection("medicalrequests").Find(ctx, bson.M{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch medical requests"})
	}
	defer cursor.Close(ctx)

	var requests []models.MedicalRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode medical requests"})
	}

	views := make([]fiber.Map, 0, len(requests))
	for _, r := range requests {
		views = append(views, h.requestView(ctx, r))
	}
	return c.JSON(views)
}

func (h *Handler) GetMedicalRequestsByResident(c *fiber.Ctx) error {
	residentID, err := primitive.ObjectIDFromHex(c.Params("residentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resident ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "requestedAt", Value: -1}})
	cursor, err := h.collection("medicalrequests").Find(ctx, bson.M{"resident": residentID}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch medical requests"})
	}
	defer cursor.Close(ctx)

	var requests []models.MedicalRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode medical requests"})
	}

	views := make([]fiber.Map, 0, len(requests))
	for _, r := range requests {
		views = append(views, h.requestView(ctx, r))
	}
	return c.JSON(views)
}

type createMedicalRequestRequest struct {
	ResidentID    string `json:"residentId" validate:"required"`
	RequestedByID string `json:"requestedById" validate:"required"`
	CheckupTypeID string `json:"checkupTypeId" validate:"required"`
	Notes         string `json:"notes"`
}

func (h *Handler) CreateMedicalRequest(c *fiber.Ctx) error {
	var req createMedicalRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Resident, requester, and checkup type are required."})
	}

	residentID, err1 := primitive.ObjectIDFromHex(req.ResidentID)
	requesterID, err2 := primitive.ObjectIDFromHex(req.RequestedByID)
	checkupTypeID, err3 := primitive.ObjectIDFromHex(req.CheckupTypeID)
	if err1 != nil || err2 != nil || err3 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resident, requester, or checkup type ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	// All three references must exist before a request is accepted.
	if h.collection("users").FindOne(ctx, bson.M{"_id": residentID}).Err() != nil ||
		h.collection("users").FindOne(ctx, bson.M{"_id": requesterID}).Err() != nil ||
		h.collection("checkuptypes").FindOne(ctx, bson.M{"_id": checkupTypeID}).Err() != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resident, requester, or checkup type not found."})
	}

	now := time.Now()
	request := models.MedicalRequest{
		Resident:      residentID,
		RequestedBy:   requesterID,
		CheckupType:   checkupTypeID,
		Notes:         req.Notes,
		Status:        models.RequestPending,
		PaymentStatus: models.PaymentUnpaid,
		RequestedAt:   now,
		UpdatedAt:     now,
	}

	result, err := h.collection("medicalrequests").InsertOne(ctx, request)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert medical request"})
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(request)
}

type updateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Completed Rejected"`
}

// UpdateMedicalRequestStatus moves a request through its workflow. The
// requester is emailed on the Processing and Rejected transitions; the
// email is best-effort and the status change stands either way.
func (h *Handler) UpdateMedicalRequestStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req updateRequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.MedicalRequest
	err = h.collection("medicalrequests").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		optionsAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Medical request not found."})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update medical request"})
	}

	if req.Status == models.RequestProcessing || req.Status == models.RequestRejected {
		h.notifyRequestStatus(ctx, updated, req.Status)
	}

	return c.JSON(h.requestView(ctx, updated))
}

func (h *Handler) notifyRequestStatus(ctx context.Context, r models.MedicalRequest, status string) {
	var requester models.User
	var resident models.User
	var ct models.CheckupType
	if h.collection("users").FindOne(ctx, bson.M{"_id": r.RequestedBy}).Decode(&requester) != nil ||
		h.collection("users").FindOne(ctx, bson.M{"_id": r.Resident}).Decode(&resident) != nil ||
		h.collection("checkuptypes").FindOne(ctx, bson.M{"_id": r.CheckupType}).Decode(&ct) != nil {
		return
	}

	var body string
	if status == models.RequestProcessing {
		body = fmt.Sprintf(`<p>Dear %s,</p><p>Your request for the "<strong>%s</strong>" checkup for <strong>%s</strong> has been <strong>approved</strong> and is now being processed.</p>`,
			requester.FullName, ct.Name, resident.FullName)
	} else {
		body = fmt.Sprintf(`<p>Dear %s,</p><p>Your request for the "<strong>%s</strong>" checkup for <strong>%s</strong> has been <strong>rejected</strong>.</p><p>Please contact administration for more details.</p>`,
			requester.FullName, ct.Name, resident.FullName)
	}

	h.sendMailAsync(requester.Email,
		fmt.Sprintf("Update on Your Medical Request: %s", ct.Name),
		fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">%s<br><p>Thank you,<br>The Ayu Arana Care Team</p></div>`, body))
}

func (h *Handler) UpdateMedicalRequestPaymentStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req struct {
		PaymentStatus string `json:"paymentStatus" validate:"required,oneof=Paid Unpaid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment status"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.MedicalRequest
	err = h.collection("medicalrequests").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"paymentStatus": req.PaymentStatus, "updatedAt": time.Now()}},
		optionsAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update request"})
	}

	return c.JSON(updated)
}

// AttachMedicalReport stores the report location and forces the request to
// Completed; a report only exists for finished checkups.
func (h *Handler) AttachMedicalReport(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req struct {
		ReportFileURL string `json:"reportFileUrl" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Report file URL is required."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.MedicalRequest
	err = h.collection("medicalrequests").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"reportFile": req.ReportFileURL,
			"status":     models.RequestCompleted,
			"updatedAt":  time.Now(),
		}},
		optionsAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Medical request not found."})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update medical request"})
	}

	var requester models.User
	var resident models.User
	var ct models.CheckupType
	if h.collection("users").FindOne(ctx, bson.M{"_id": updated.RequestedBy}).Decode(&requester) == nil &&
		h.collection("users").FindOne(ctx, bson.M{"_id": updated.Resident}).Decode(&resident) == nil &&
		h.collection("checkuptypes").FindOne(ctx, bson.M{"_id": updated.CheckupType}).Decode(&ct) == nil {
		h.sendMailAsync(requester.Email,
			fmt.Sprintf("Your Medical Report for %q is Ready", ct.Name),
			fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;"><p>Dear %s,</p><p>The medical report for the "<strong>%s</strong>" checkup for <strong>%s</strong> is now available. You can view it here: <a href="%s">View Report</a></p><br><p>Thank you,<br>The Ayu Arana Care Team</p></div>`,
				requester.FullName, ct.Name, resident.FullName, req.ReportFileURL))
	}

	return c.JSON(h.requestView(ctx, updated))
}

// SendMedicalPaymentReminder emails the requester about an unpaid checkup.
// Unlike the fire-and-forget confirmations, the dispatch IS the operation
// here, so a send failure is reported to the caller.
func (h *Handler) SendMedicalPaymentReminder(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var request models.MedicalRequest
	err = h.collection("medicalrequests").FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil || request.PaymentStatus != models.PaymentUnpaid {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found or already paid."})
	}

	var requester models.User
	var ct models.CheckupType
	if h.collection("users").FindOne(ctx, bson.M{"_id": request.RequestedBy}).Decode(&requester) != nil ||
		h.collection("checkuptypes").FindOne(ctx, bson.M{"_id": request.CheckupType}).Decode(&ct) != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found or already paid."})
	}

	if err := h.mail.Send(requester.Email,
		fmt.Sprintf("Payment Reminder for %s", ct.Name),
		fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;"><p>Dear %s,</p><p>This is a reminder that the payment of <strong>%.2f LKR</strong> for the "<strong>%s</strong>" checkup is pending. Please make the payment at your earliest convenience.</p><br><p>Thank you,<br>The Ayu Arana Care Team</p></div>`,
			requester.FullName, ct.Price, ct.Name)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send email."})
	}

	return c.JSON(fiber.Map{"message": "Reminder sent successfully."})
}

// --- Resident medical statuses ---

func (h *Handler) GetAllResidentStatuses(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := h.collection("medicalstatuses").Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch medical statuses"})
	}
	defer cursor.Close(ctx)

	var statuses []models.MedicalStatus
	if err := cursor.All(ctx, &statuses); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode medical statuses"})
	}

	views := make([]fiber.Map, 0, len(statuses))
	for _, s := range statuses {
		view := fiber.Map{
			"_id":         s.ID.Hex(),
			"subject":     s.Subject,
			"notes":       s.Notes,
			"statusLevel": s.StatusLevel,
			"createdAt":   s.CreatedAt,
			"updatedAt":   s.UpdatedAt,
		}
		var resident models.User
		if err := h.collection("users").FindOne(ctx, bson.M{"_id": s.Resident}).Decode(&resident); err == nil {
			view["resident"] = fiber.Map{
				"_id":      resident.ID.Hex(),
				"fullName": resident.FullName,
				"email":    resident.Email,
			}
		}
		views = append(views, view)
	}

	// The admin page also needs the resident list to populate its
	// new-status dropdown, so the response carries both.
	userCursor, err := h.collection("users").Find(ctx, bson.M{"role": models.RoleUser})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch residents"})
	}
	defer userCursor.Close(ctx)

	var residents []models.User
	if err := userCursor.All(ctx, &residents); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode residents"})
	}

	userViews := make([]fiber.Map, 0, len(residents))
	for _, u := range residents {
		uv := fiber.Map{
			"_id":      u.ID.Hex(),
			"fullName": u.FullName,
			"email":    u.Email,
		}
		if u.Parent != nil {
			var parent models.Parent
			if err := h.collection("parents").FindOne(ctx, bson.M{"_id": *u.Parent}).Decode(&parent); err == nil {
				uv["parent"] = fiber.Map{"parentId": parent.ParentID}
			}
		}
		userViews = append(userViews, uv)
	}

	return c.JSON(fiber.Map{
		"users":            userViews,
		"existingStatuses": views,
	})
}

func (h *Handler) GetResidentStatuses(c *fiber.Ctx) error {
	residentID, err := primitive.ObjectIDFromHex(c.Params("residentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resident ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.collection("medicalstatuses").Find(ctx, bson.M{"resident": residentID}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch medical statuses"})
	}
	defer cursor.Close(ctx)

	var statuses []models.MedicalStatus
	if err := cursor.All(ctx, &statuses); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode medical statuses"})
	}

	return c.JSON(statuses)
}

type residentStatusRequest struct {
	ResidentID  string `json:"residentId" validate:"required"`
	Subject     string `json:"subject" validate:"required,min=3"`
	Notes       string `json:"notes" validate:"required,min=10"`
	StatusLevel string `json:"statusLevel" validate:"required,oneof=Good Stable 'Needs Attention' Critical"`
}

func (h *Handler) CreateResidentStatus(c *fiber.Ctx) error {
	var req residentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Resident ID, subject, notes, and status level are required."})
	}

	residentID, err := primitive.ObjectIDFromHex(req.ResidentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resident ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	if h.collection("users").FindOne(ctx, bson.M{"_id": residentID}).Err() != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resident not found."})
	}

	now := time.Now()
	status := models.MedicalStatus{
		Resident:    residentID,
		Subject:     req.Subject,
		Notes:       req.Notes,
		StatusLevel: req.StatusLevel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := h.collection("medicalstatuses").InsertOne(ctx, status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert medical status"})
	}
	status.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(status)
}

func (h *Handler) UpdateResidentStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid medical status ID"})
	}

	var req struct {
		Subject     string `json:"subject"`
		Notes       string `json:"notes"`
		StatusLevel string `json:"statusLevel"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Subject != "" {
		set["subject"] = req.Subject
	}
	if req.Notes != "" {
		set["notes"] = req.Notes
	}
	if req.StatusLevel != "" {
		set["statusLevel"] = req.StatusLevel
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.MedicalStatus
	err = h.collection("medicalstatuses").FindOneAndUpdate(ctx,
		bson.M{"_id": id}, bson.M{"$set": set}, optionsAfter()).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Medical status/record not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update medical status"})
	}

	return c.JSON(updated)
}

func (h *Handler) DeleteResidentStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid medical status ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	result, err := h.collection("medicalstatuses").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete medical status"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Medical status/record not found"})
	}
	return c.JSON(fiber.Map{"message": "Medical status/record removed"})
}

// --- General announcements ---

func (h *Handler) GetAnnouncements(c *fiber.Ctx) error {
	ctx, cancel := dbCtx()
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.collection("medicalstatusupdates").Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch announcements"})
	}
	defer cursor.Close(ctx)

	var updates []models.MedicalStatusUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot decode announcements"})
	}

	return c.JSON(updates)
}

type announcementRequest struct {
	Subject string `json:"subject" validate:"required,min=3"`
	Notes   string `json:"notes" validate:"required,min=10"`
}

func (h *Handler) CreateAnnouncement(c *fiber.Ctx) error {
	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Subject and notes are required for the medical announcement."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	now := time.Now()
	announcement := models.MedicalStatusUpdate{
		Subject:   req.Subject,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := h.collection("medicalstatusupdates").InsertOne(ctx, announcement)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create medical announcement due to an internal server error."})
	}
	announcement.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Medical announcement posted successfully!",
		"announcement": announcement,
	})
}

func (h *Handler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Subject and notes are required for updating the medical announcement."})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.MedicalStatusUpdate
	err = h.collection("medicalstatusupdates").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"subject": req.Subject, "notes": req.Notes, "updatedAt": time.Now()}},
		optionsAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Medical announcement not found."})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update medical announcement due to an internal server error."})
	}

	return c.JSON(fiber.Map{
		"message":      "Medical announcement updated successfully!",
		"announcement": updated,
	})
}

func (h *Handler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	ctx, cancel := dbCtx()
	defer cancel()

	result, err := h.collection("medicalstatusupdates").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete announcement"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Medical announcement not found."})
	}
	return c.JSON(fiber.Map{"message": "Medical announcement deleted successfully!"})
}
