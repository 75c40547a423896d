package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ganindu/arana-care-api/mailer"
	"github.com/ganindu/arana-care-api/middleware"
)

// Handler carries the shared dependencies for every route: the Mongo
// client, the signing secret for issuing tokens, and the injected mail
// service (one instance for the whole process, never built per route).
type Handler struct {
	client    *mongo.Client
	dbName    string
	jwtSecret string
	mail      mailer.Mailer
	validate  *validator.Validate
}

func NewHandler(client *mongo.Client, dbName, jwtSecret string, mail mailer.Mailer) *Handler {
	return &Handler{
		client:    client,
		dbName:    dbName,
		jwtSecret: jwtSecret,
		mail:      mail,
		validate:  validator.New(),
	}
}

func (h *Handler) collection(name string) *mongo.Collection {
	return h.client.Database(h.dbName).Collection(name)
}

func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// sendMailAsync dispatches a notification on a detached goroutine. The
// triggering operation has already committed, so a delivery failure is
// logged and never surfaced to the client.
func (h *Handler) sendMailAsync(to, subject, html string) {
	go func() {
		if err := h.mail.Send(to, subject, html); err != nil {
			log.Printf("Error sending %q email to %s: %v", subject, to, err)
		}
	}()
}

// principalID reads the authenticated principal set by the role gate.
func principalID(c *fiber.Ctx) (primitive.ObjectID, error) {
	id, _ := c.Locals(middleware.LocalsPrincipalID).(string)
	return primitive.ObjectIDFromHex(id)
}

// optionsAfter makes FindOneAndUpdate return the document as written.
func optionsAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// parseDate accepts both the bare date the registration forms submit and
// full RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
