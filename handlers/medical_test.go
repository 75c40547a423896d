package handlers

import (
	"bytes"
	"encoding/json"
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

func TestGetAllResidentStatusesIncludesResidentList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("response carries users alongside statuses", func(mt *mtest.T) {
		h := NewHandler(mt.Client, "testdb", "secret", &fakeMailer{})

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "testdb.medicalstatuses", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "fullName", Value: "Nimal Silva"},
				{Key: "email", Value: "nimal@example.com"},
				{Key: "role", Value: models.RoleUser},
			}),
		)

		app := fiber.New()
		app.Get("/api/medical/resident-statuses/all", h.GetAllResidentStatuses)

		req := httptest.NewRequest(http.MethodGet, "/api/medical/resident-statuses/all", nil)
		resp, err := app.Test(req)
		require.NoError(mt, err)
		require.Equal(mt, fiber.StatusOK, resp.StatusCode)

		var payload struct {
			Users            []map[string]interface{} `json:"users"`
			ExistingStatuses []map[string]interface{} `json:"existingStatuses"`
		}
		require.NoError(mt, json.NewDecoder(resp.Body).Decode(&payload))
		require.Len(mt, payload.Users, 1)
		assert.Equal(mt, "Nimal Silva", payload.Users[0]["fullName"])
		assert.NotNil(mt, payload.ExistingStatuses, "statuses key must be present even when empty")
		assert.Empty(mt, payload.ExistingStatuses)
	})
}

func TestUpdateCheckupTypeEmptyBodyKeepsDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no fields returns the stored document unchanged", func(mt *mtest.T) {
		h := NewHandler(mt.Client, "testdb", "secret", &fakeMailer{})

		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.checkuptypes", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Full Blood Count"},
			{Key: "price", Value: 1500.0},
		}))

		app := fiber.New()
		app.Put("/api/medical/types/:id", h.UpdateCheckupType)

		req := httptest.NewRequest(http.MethodPut, "/api/medical/types/"+id.Hex(), bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(mt, err)
		require.Equal(mt, fiber.StatusOK, resp.StatusCode)

		var ct struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		require.NoError(mt, json.NewDecoder(resp.Body).Decode(&ct))
		assert.Equal(mt, "Full Blood Count", ct.Name)
		assert.Equal(mt, 1500.0, ct.Price)
	})
}
