package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ganindu/arana-care-api/config"
	"github.com/ganindu/arana-care-api/handlers"
	"github.com/ganindu/arana-care-api/mailer"
	"github.com/ganindu/arana-care-api/middleware"
	"github.com/ganindu/arana-care-api/models"
)

func main() {
	cfg := config.Load()

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}
	log.Println("MongoDB connected successfully.")

	if err := ensureIndexes(ctx, client.Database(cfg.DatabaseName)); err != nil {
		log.Fatal(err)
	}

	mailPort, err := strconv.Atoi(cfg.MailPort)
	if err != nil {
		log.Fatalf("Invalid MAIL_PORT: %v", err)
	}
	mail := mailer.NewSMTPMailer(cfg.MailHost, mailPort, cfg.MailUser, cfg.MailPass)

	h := handlers.NewHandler(client, cfg.DatabaseName, cfg.JWTSecret, mail)
	if err := h.SeedParentCounter(ctx); err != nil {
		log.Fatal(err)
	}

	userGate := middleware.RequireRole(client, cfg.DatabaseName, cfg.JWTSecret, models.RoleUser)
	adminGate := middleware.RequireRole(client, cfg.DatabaseName, cfg.JWTSecret, models.RoleAdmin)

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Ayu Arana Care backend server is alive and running!")
	})

	api := app.Group("/api")

	// User auth
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	// Admin auth + admin panel
	admin := api.Group("/admin")
	admin.Post("/register", h.AdminRegister)
	admin.Post("/login", h.AdminLogin)
	admin.Get("/memberships", adminGate, h.GetAllMemberships)
	admin.Post("/reminders/:userId", adminGate, h.SendPaymentReminder)

	// Profile, membership, payments
	api.Get("/users/profile", userGate, h.GetProfile)
	api.Put("/users/profile", userGate, h.UpdateProfile)
	api.Get("/membership", userGate, h.GetMembership)
	api.Put("/membership", userGate, h.UpdateMembership)
	api.Post("/payments/membership", userGate, h.ProcessMembershipPayment)

	// Parents
	api.Post("/parents", h.RegisterParent)
	api.Get("/parents", h.GetParents)

	// Medical: checkup types, requests, resident statuses, announcements
	medical := api.Group("/medical")
	medical.Get("/types", h.GetCheckupTypes)
	medical.Post("/types", h.CreateCheckupType)
	medical.Put("/types/:id", h.UpdateCheckupType)
	medical.Delete("/types/:id", h.DeleteCheckupType)

	medical.Get("/request/all", h.GetAllMedicalRequests)
	medical.Get("/request/my/:residentId", h.GetMedicalRequestsByResident)
	medical.Post("/request", h.CreateMedicalRequest)
	medical.Put("/request/:id/status", h.UpdateMedicalRequestStatus)
	medical.Put("/request/:id/paymentStatus", h.UpdateMedicalRequestPaymentStatus)
	medical.Put("/request/:id/upload-report", h.AttachMedicalReport)
	medical.Post("/request/:id/remind", h.SendMedicalPaymentReminder)

	medical.Get("/resident-statuses/all", h.GetAllResidentStatuses)
	medical.Get("/resident-statuses/:residentId", h.GetResidentStatuses)
	medical.Post("/resident-statuses", h.CreateResidentStatus)
	medical.Put("/resident-statuses/:id", h.UpdateResidentStatus)
	medical.Delete("/resident-statuses/:id", h.DeleteResidentStatus)

	medical.Get("/status-updates", h.GetAnnouncements)
	medical.Post("/status-updates", h.CreateAnnouncement)
	medical.Put("/status-updates/:id", h.UpdateAnnouncement)
	medical.Delete("/status-updates/:id", h.DeleteAnnouncement)

	// Careers
	careers := api.Group("/careers")
	careers.Get("/", h.GetOpenCareers)
	careers.Get("/admin", adminGate, h.GetAllCareers)
	careers.Post("/admin/branch", adminGate, h.AddCareerBranch)
	careers.Delete("/admin/branch/:branchId", adminGate, h.DeleteCareerBranch)
	careers.Post("/admin/:branchId/role", adminGate, h.AddRoleToBranch)
	careers.Put("/admin/:branchId/role/:roleId", adminGate, h.UpdateRoleInBranch)
	careers.Delete("/admin/:branchId/role/:roleId", adminGate, h.DeleteRoleFromBranch)

	// Feedback
	feedback := api.Group("/feedback")
	feedback.Get("/all", h.GetAllFeedback)
	feedback.Get("/home", h.GetHomePageFeedback)
	feedback.Post("/", h.CreateFeedback)
	feedback.Put("/update-home-display", h.UpdateHomeDisplayStatus)
	feedback.Delete("/:id", h.DeleteFeedback)

	// Center info + contact messages
	api.Get("/center", h.GetCenters)
	api.Post("/center", adminGate, h.AddCenter)
	api.Post("/contact", h.CreateContactMessage)
	api.Get("/contact", adminGate, h.GetContactMessages)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// ensureIndexes enforces identity uniqueness at the store level so that a
// race between two duplicate registrations cannot leave two records with
// the same email or NIC.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := mongooptions.Index().SetUnique(true)
	uniqueSparse := mongooptions.Index().SetUnique(true).SetSparse(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"admins": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"parents": {
			{Keys: bson.D{{Key: "parentId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "nic", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueSparse},
		},
		"checkuptypes": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		"careers": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
