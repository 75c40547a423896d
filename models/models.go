package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership plans and payment states. planId and paymentStatus move
// independently; a lapsed subscription is a paid plan with status Unpaid.
const (
	PlanNone     = "none"
	PlanBasic    = "basic"
	PlanEnhanced = "enhanced"
	PlanPremium  = "premium"

	PaymentPaid   = "Paid"
	PaymentUnpaid = "Unpaid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Membership struct {
	PlanID        string    `json:"planId" bson:"planId"`
	PaymentStatus string    `json:"paymentStatus" bson:"paymentStatus"`
	LastUpdated   time.Time `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
}

type User struct {
	ID          primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	FullName    string              `json:"fullName" bson:"fullName"`
	Email       string              `json:"email" bson:"email"`
	Password    string              `json:"-" bson:"password"`
	Phone       string              `json:"phone,omitempty" bson:"phone,omitempty"`
	NIC         string              `json:"nic,omitempty" bson:"nic,omitempty"`
	Parent      *primitive.ObjectID `json:"parent,omitempty" bson:"parent,omitempty"`
	DateOfBirth *time.Time          `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Role        string              `json:"role" bson:"role"`
	Membership  Membership          `json:"membership" bson:"membership"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type Admin struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	Relationship string `json:"relationship" bson:"relationship"`
}

// Parent is the guarantor/resident-family record. ParentID is the
// human-facing sequential registration number, not the Mongo _id.
type Parent struct {
	ID               primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	ParentID         int                 `json:"parentId" bson:"parentId"`
	FullName         string              `json:"fullName" bson:"fullName"`
	Address          string              `json:"address" bson:"address"`
	Phone            string              `json:"phone" bson:"phone"`
	NIC              string              `json:"nic" bson:"nic"`
	Email            string              `json:"email,omitempty" bson:"email,omitempty"`
	DateOfBirth      time.Time           `json:"dateOfBirth" bson:"dateOfBirth"`
	EmergencyContact EmergencyContact    `json:"emergencyContact" bson:"emergencyContact"`
	RegisteredBy     *primitive.ObjectID `json:"registeredBy,omitempty" bson:"registeredBy,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Payment is an immutable ledger record, written once per successful
// simulated payment and never updated.
type Payment struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	PlanID        string             `json:"planId" bson:"planId"`
	Amount        float64            `json:"amount" bson:"amount"`
	Currency      string             `json:"currency" bson:"currency"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	PaymentDate   time.Time          `json:"paymentDate" bson:"paymentDate"`
}

// Medical checkup request states.
const (
	RequestPending    = "Pending"
	RequestProcessing = "Processing"
	RequestCompleted  = "Completed"
	RequestRejected   = "Rejected"
)

type CheckupType struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type MedicalRequest struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Resident      primitive.ObjectID `json:"resident" bson:"resident"`
	RequestedBy   primitive.ObjectID `json:"requestedBy" bson:"requestedBy"`
	CheckupType   primitive.ObjectID `json:"checkupType" bson:"checkupType"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Status        string             `json:"status" bson:"status"`
	PaymentStatus string             `json:"paymentStatus" bson:"paymentStatus"`
	ReportFile    string             `json:"reportFile,omitempty" bson:"reportFile,omitempty"`
	RequestedAt   time.Time          `json:"requestedAt" bson:"requestedAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type MedicalStatus struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Resident    primitive.ObjectID `json:"resident" bson:"resident"`
	Subject     string             `json:"subject" bson:"subject"`
	Notes       string             `json:"notes" bson:"notes"`
	StatusLevel string             `json:"statusLevel" bson:"statusLevel"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// MedicalStatusUpdate is a general announcement, not tied to a resident.
type MedicalStatusUpdate struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Subject   string             `json:"subject" bson:"subject"`
	Notes     string             `json:"notes" bson:"notes"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CareerRole struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Requirements []string           `json:"requirements" bson:"requirements"`
	Status       string             `json:"status" bson:"status"`
}

type CareerBranch struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Roles     []CareerRole       `json:"roles" bson:"roles"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Feedback struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email" bson:"email"`
	Message       string             `json:"message" bson:"message"`
	DisplayOnHome bool               `json:"displayOnHome" bson:"displayOnHome"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

type CenterInfo struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	BranchName  string             `json:"branchName" bson:"branchName"`
	Address     string             `json:"address" bson:"address"`
	Email       string             `json:"email" bson:"email"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type ContactMessage struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
