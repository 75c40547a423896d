package handlers

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganindu/arana-care-api/models"
)

// fakeMailer records sends and fails with err when set. Safe for the
// fire-and-forget goroutine paths.
type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (f *fakeMailer) Send(to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return f.err
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestIsValidPlan(t *testing.T) {
	assert.True(t, IsValidPlan(models.PlanBasic))
	assert.True(t, IsValidPlan(models.PlanEnhanced))
	assert.True(t, IsValidPlan(models.PlanPremium))

	assert.False(t, IsValidPlan(models.PlanNone), "none is the initial state, not a selectable plan")
	assert.False(t, IsValidPlan(""))
	assert.False(t, IsValidPlan("Basic"), "plan IDs are lowercase")
	assert.False(t, IsValidPlan("gold"))
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("1952-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1952, 3, 14, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("1952-03-14T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1952, 3, 14, 10, 30, 0, 0, time.UTC), got)

	_, err = parseDate("14/03/1952")
	assert.Error(t, err)
	_, err = parseDate("")
	assert.Error(t, err)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Basic", titleCase("basic"))
	assert.Equal(t, "Premium", titleCase("premium"))
	assert.Equal(t, "", titleCase(""))
}

func TestRegistrationEmailHTML(t *testing.T) {
	dob := time.Date(1990, 12, 5, 0, 0, 0, 0, time.UTC)
	user := models.User{
		FullName:    "Nimal Silva",
		NIC:         "902345678V",
		DateOfBirth: &dob,
	}
	parent := models.Parent{ParentID: 42, FullName: "Somawathi Silva"}

	html := registrationEmailHTML(user, parent)
	assert.Contains(t, html, "Dear Nimal Silva,")
	assert.Contains(t, html, "902345678V")
	assert.Contains(t, html, "05/12/1990")
	assert.Contains(t, html, "Not provided", "missing phone renders as Not provided")
	assert.Contains(t, html, "<strong>Parent Registration ID:</strong> 42")
	assert.Contains(t, html, "Somawathi Silva")
}

func TestRegistrationEmailHTMLOmitsOptionalFields(t *testing.T) {
	html := registrationEmailHTML(models.User{FullName: "A"}, models.Parent{ParentID: 1})
	assert.NotContains(t, html, "<li><strong>NIC:</strong> </li>")
	assert.Contains(t, html, "<strong>NIC:</strong> Not provided")
	assert.Contains(t, html, "<strong>Date of Birth:</strong> Not provided")
}

func TestPaymentReminderHTML(t *testing.T) {
	html := paymentReminderHTML("Kasun Perera", models.PlanBasic)
	assert.Contains(t, html, "Dear Kasun Perera,")
	assert.Contains(t, html, "<strong>basic</strong>")
}

func TestPaymentConfirmationHTML(t *testing.T) {
	p := models.Payment{
		PlanID:        models.PlanEnhanced,
		Amount:        49.99,
		Currency:      "USD",
		TransactionID: "sim_abc123",
		PaymentDate:   time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC),
	}
	html := paymentConfirmationHTML("Kasun Perera", p)

	assert.Contains(t, html, "Dear Kasun Perera,")
	assert.Contains(t, html, "<strong>enhanced</strong>")
	assert.Contains(t, html, "Enhanced")
	assert.Contains(t, html, "49.99 USD")
	assert.Contains(t, html, "sim_abc123")
	assert.Contains(t, html, "01/06/2025, 09:15:00")
}
