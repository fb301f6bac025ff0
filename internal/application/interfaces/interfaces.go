package interfaces

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

type EventRepo interface {
	InsertEvent(ctx context.Context, event shared.Event) error
}

type PendingOrderRepo interface {
	InsertOrder(ctx context.Context, order db.PendingOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*db.PendingOrder, error)
	MarkCompleted(ctx context.Context, orderID string) error
}

type TransactionRepo interface {
	UpsertPaid(ctx context.Context, txn db.Transaction) (uint64, error)
	MarkPaidByCaptureID(ctx context.Context, captureID, receiptURL string) (int64, error)
}

type WebhookEventRepo interface {
	InsertEvent(ctx context.Context, event db.WebhookEvent) (uint64, error)
	MarkProcessed(ctx context.Context, id uint64, processingError string) error
}

// Uploader is the asset storage port. S3 in production, stubbed in tests.
type Uploader interface {
	Upload(ctx context.Context, key string, contentType *string, body io.Reader) (string, error)
}

type CaptureResult struct {
	OrderID    string
	Status     string
	CaptureID  string
	Amount     string
	Currency   string
	PayerEmail string
	ReceiptURL string
}

// PaymentGateway is the provider port. The PayPal REST client implements it.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, customID string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
	VerifyWebhookSignature(ctx context.Context, headers map[string]string, body []byte) (bool, error)
}
