package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ganindu/arana-care-api/middleware"
	"github.com/ganindu/arana-care-api/models"
)

func TestProcessMembershipPaymentSurvivesMailFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("send failure after commit still succeeds", func(mt *mtest.T) {
		mail := &fakeMailer{err: errors.New("smtp down")}
		h := NewHandler(mt.Client, "testdb", "secret", mail)

		userID := primitive.NewObjectID()
		userDoc := bson.D{
			{Key: "_id", Value: userID},
			{Key: "fullName", Value: "Kasun Perera"},
			{Key: "email", Value: "kasun@example.com"},
			{Key: "membership", Value: bson.D{
				{Key: "planId", Value: models.PlanPremium},
				{Key: "paymentStatus", Value: models.PaymentPaid},
			}},
		}
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: userDoc}},
			mtest.CreateSuccessResponse(),
		)

		app := fiber.New()
		app.Post("/api/payments/membership", func(c *fiber.Ctx) error {
			c.Locals(middleware.LocalsPrincipalID, userID.Hex())
			return c.Next()
		}, h.ProcessMembershipPayment)

		body := bytes.NewBufferString(`{"planId":"premium","amount":99.99,"currency":"LKR"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/membership", body)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(mt, err)

		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)
		var payload struct {
			Message string `json:"message"`
			PlanID  string `json:"planId"`
		}
		require.NoError(mt, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(mt, "Payment successful and membership updated!", payload.Message)
		assert.Equal(mt, models.PlanPremium, payload.PlanID)

		// The confirmation is fire-and-forget: delivery was attempted and
		// failed without touching the response.
		assert.Eventually(mt, func() bool { return mail.sentCount() == 1 },
			time.Second, 10*time.Millisecond)
	})
}
