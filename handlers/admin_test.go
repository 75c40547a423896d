package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ganindu/arana-care-api/models"
)

func TestSendPaymentReminderRejectsPaidUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("paid user yields 404 and no email", func(mt *mtest.T) {
		mail := &fakeMailer{}
		h := NewHandler(mt.Client, "testdb", "secret", mail)

		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: userID},
			{Key: "fullName", Value: "Kasun Perera"},
			{Key: "email", Value: "kasun@example.com"},
			{Key: "membership", Value: bson.D{
				{Key: "planId", Value: models.PlanBasic},
				{Key: "paymentStatus", Value: models.PaymentPaid},
			}},
		}))

		app := fiber.New()
		app.Post("/api/admin/reminders/:userId", h.SendPaymentReminder)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/reminders/"+userID.Hex(), nil)
		resp, err := app.Test(req)
		require.NoError(mt, err)

		assert.Equal(mt, fiber.StatusNotFound, resp.StatusCode)
		assert.Zero(mt, mail.sentCount(), "a paid user must never get a reminder")
	})

	mt.Run("unknown user yields 404 and no email", func(mt *mtest.T) {
		mail := &fakeMailer{}
		h := NewHandler(mt.Client, "testdb", "secret", mail)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch))

		app := fiber.New()
		app.Post("/api/admin/reminders/:userId", h.SendPaymentReminder)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/reminders/"+primitive.NewObjectID().Hex(), nil)
		resp, err := app.Test(req)
		require.NoError(mt, err)

		assert.Equal(mt, fiber.StatusNotFound, resp.StatusCode)
		assert.Zero(mt, mail.sentCount())
	})
}
