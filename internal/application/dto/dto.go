package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateSession struct {
	IdToken      string `json:"idToken"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SessionInfo struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

type SaveStepRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type DraftResponse struct {
	Draft json.RawMessage `json:"draft"`
}

type SubmitRequestResponse struct {
	RequestID uint64 `json:"requestId"`
	Warning   string `json:"warning,omitempty"`
}

type PlanResponse struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MonthlyPrice string   `json:"monthlyPrice"`
	SetupFee     string   `json:"setupFee"`
	EditLimit    int      `json:"editLimit"`
	IsCustom     bool     `json:"isCustom"`
	Features     []string `json:"features"`
}

type CreateOrderRequest struct {
	PlanID uint64 `json:"planId"`
}

type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

type CaptureOrderResponse struct {
	Status        string `json:"status"`
	TransactionID uint64 `json:"transactionId,omitempty"`
}

type WebsiteRequestResponse struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BusinessType    string    `json:"businessType"`
	RequiredPages   string    `json:"requiredPages"`
	Status          string    `json:"status"`
	PreviewImageURL string    `json:"previewImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

type TransactionResponse struct {
	ID         uint64    `json:"id"`
	Amount     string    `json:"amount"`
	Desc       string    `json:"description"`
	Status     string    `json:"status"`
	CaptureID  string    `json:"captureId"`
	ReceiptURL string    `json:"receiptUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type TicketResponse struct {
	ID         uint64    `json:"id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	AdminReply string    `json:"adminReply"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReplyTicketRequest struct {
	Reply  string `json:"reply"`
	Status string `json:"status"`
}
