package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ganindu/arana-care-api/models"
	"github.com/ganindu/arana-care-api/token"
)

// Keys under which the gate stores the resolved principal on the request.
const (
	LocalsPrincipalID = "principalId"
	LocalsRole        = "role"
)

// RequireRole returns a gate that lets a request through only when it
// carries a valid, non-expired bearer token for exactly the given role.
// Admin tokens are additionally checked against the admins collection, so
// a deleted admin loses access immediately; user tokens are not re-resolved
// here and handlers look the user up themselves.
func RequireRole(client *mongo.Client, dbName, secret, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized, no token"})
		}

		claims, err := token.Verify(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			// The token value itself is deliberately never logged.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized, token failed"})
		}

		if claims.Role != role {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized"})
		}

		if role == models.RoleAdmin {
			adminID, err := primitive.ObjectIDFromHex(claims.ID)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized as an admin"})
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var admin models.Admin
			err = client.Database(dbName).Collection("admins").FindOne(ctx, bson.M{"_id": adminID}).Decode(&admin)
			if err == mongo.ErrNoDocuments {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized as an admin"})
			}
			if err != nil {
				log.Printf("admin lookup failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
			}
		}

		c.Locals(LocalsPrincipalID, claims.ID)
		c.Locals(LocalsRole, claims.Role)
		return c.Next()
	}
}
