package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID         uuid.UUID `db:"id"`
	FirstName  string    `db:"first_name"`
	SecondName string    `db:"second_name"`
	Email      string    `db:"email"`
	Role       string    `db:"role"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

type Session struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

type Plan struct {
	ID           uint64          `db:"id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	MonthlyPrice decimal.Decimal `db:"monthly_price"`
	SetupFee     decimal.Decimal `db:"setup_fee"`
	EditLimit    int             `db:"edit_limit"`
	IsCustom     bool            `db:"is_custom"`
	Status       string          `db:"status"`
	Features     string          `db:"features"`
}

type WebsiteRequest struct {
	ID                     uint64    `db:"id"`
	UserID                 uuid.UUID `db:"user_id"`
	PlanID                 uint64    `db:"plan_id"`
	Title                  string    `db:"title"`
	Description            string    `db:"description"`
	BusinessType           string    `db:"business_type"`
	TargetAudience         string    `db:"target_audience"`
	PrimaryGoal            string    `db:"primary_goal"`
	ColorScheme            string    `db:"color_scheme"`
	WebsiteStyle           string    `db:"website_style"`
	LayoutPreference       string    `db:"layout_preference"`
	RequiredPages          string    `db:"required_pages"`
	Features               string    `db:"features"`
	Integrations           string    `db:"integrations"`
	ContentReady           string    `db:"content_ready"`
	Timeline               string    `db:"timeline"`
	Budget                 string    `db:"budget"`
	AdditionalRequirements string    `db:"additional_requirements"`
	PreviewImageURL        string    `db:"preview_image_url"`
	Status                 string    `db:"status"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type PendingOrder struct {
	OrderID   string          `db:"order_id"`
	UserID    uuid.UUID       `db:"user_id"`
	PlanID    uint64          `db:"plan_id"`
	Amount    decimal.Decimal `db:"amount"`
	Currency  string          `db:"currency"`
	CustomID  string          `db:"custom_id"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

type Transaction struct {
	ID               uint64          `db:"id"`
	UserID           uuid.UUID       `db:"user_id"`
	WebsiteRequestID sql.NullInt64   `db:"website_request_id"`
	PlanID           uint64          `db:"plan_id"`
	Amount           decimal.Decimal `db:"amount"`
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	CaptureID        string          `db:"capture_id"`
	ReceiptURL       string          `db:"receipt_url"`
	CreatedAt        time.Time       `db:"created_at"`
}

type WebhookEvent struct {
	ID              uint64          `db:"id"`
	EventID         string          `db:"event_id"`
	EventType       string          `db:"event_type"`
	ResourceType    string          `db:"resource_type"`
	Payload         json.RawMessage `db:"payload"`
	SignatureValid  bool            `db:"signature_valid"`
	ProcessedAt     sql.NullTime    `db:"processed_at"`
	ProcessingError string          `db:"processing_error"`
	CreatedAt       time.Time       `db:"created_at"`
}

type SupportTicket struct {
	ID         uint64    `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Subject    string    `db:"subject"`
	Message    string    `db:"message"`
	Status     string    `db:"status"`
	AdminReply string    `db:"admin_reply"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Outbox struct {
	ID        uint64          `db:"id"`
	Event     string          `db:"event"`
	Status    int             `db:"status"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}

type Mail struct {
	MailType   string    `db:"type"`
	Recipients string    `db:"recipients"`
	Subject    string    `db:"subject"`
	Content    string    `db:"content"`
	SentAt     time.Time `db:"sent_at"`
}
