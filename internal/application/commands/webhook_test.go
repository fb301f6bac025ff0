package commands_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/webcraft-studio/webcraft-backend/internal/application/commands"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/interfaces"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/testinfra"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

func captureCompletedBody(eventID, captureID, orderID, amount string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource_type": "capture",
		"resource": {
			"id": %q,
			"status": "COMPLETED",
			"amount": {"currency_code": "USD", "value": %q},
			"links": [{"rel": "self", "href": "https://paypal.example/captures/%s"}],
			"supplementary_data": {"related_ids": {"order_id": %q}}
		}
	}`, eventID, captureID, amount, captureID, orderID))
}

func TestWebhookBadSignatureAuditsAndStops(t *testing.T) {
	ctx := context.Background()
	gateway := &fakeGateway{verified: false}
	webhook := commands.NewWebhook(uowFactory, gateway)

	body := captureCompletedBody("WH-BAD-1", "CAP-BAD-1", "ORDER-BAD-1", "54.99")
	err := webhook.Execute(ctx, map[string]string{"paypal-transmission-sig": "forged"}, body)
	require.NoError(t, err, "unverified deliveries are still acknowledged")

	var audits int
	var valid bool
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*), bool_and(signature_valid) FROM agency.webhook_events WHERE event_id = 'WH-BAD-1'").Scan(&audits, &valid)
	require.NoError(t, err)
	require.Equal(t, 1, audits, "exactly one audit row")
	require.False(t, valid)

	var transactions int
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*) FROM agency.transactions WHERE capture_id = 'CAP-BAD-1'").Scan(&transactions)
	require.NoError(t, err)
	require.Zero(t, transactions, "no mutation past the audit write")
}

func TestWebhookReconcilesAfterCapture(t *testing.T) {
	userID := seedUser(t)
	planID := seedPlan(t, "Webhook After Capture", "49.99", "5.00")
	ctx := context.Background()
	identity := &auth.Identity{UserID: userID, Role: consts.RoleUser}

	gateway := &fakeGateway{orderID: "ORDER-WH-1", verified: true}
	orderID, err := commands.NewCreateOrder(uowFactory, gateway, "USD").Execute(ctx, identity, planID)
	require.NoError(t, err)

	gateway.captureResult = &interfaces.CaptureResult{
		OrderID: orderID, Status: "COMPLETED", CaptureID: "CAP-WH-1", Amount: "54.99",
	}
	_, err = commands.NewCaptureOrder(uowFactory, gateway).Execute(ctx, identity, orderID)
	require.NoError(t, err)

	webhook := commands.NewWebhook(uowFactory, gateway)
	body := captureCompletedBody("WH-OK-1", "CAP-WH-1", orderID, "54.99")
	require.NoError(t, webhook.Execute(ctx, map[string]string{"paypal-transmission-sig": "good"}, body))

	var transactions int
	var receipt string
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*), max(receipt_url) FROM agency.transactions WHERE capture_id = 'CAP-WH-1'").Scan(&transactions, &receipt)
	require.NoError(t, err)
	require.Equal(t, 1, transactions, "webhook converges on the capture row, no duplicate")
	require.Equal(t, "https://paypal.example/captures/CAP-WH-1", receipt)

	var processed int
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*) FROM agency.webhook_events WHERE event_id = 'WH-OK-1' AND processed_at IS NOT NULL AND processing_error = ''").Scan(&processed)
	require.NoError(t, err)
	require.Equal(t, 1, processed)
}

func TestWebhookBeforeCaptureInsertsTransaction(t *testing.T) {
	userID := seedUser(t)
	planID := seedPlan(t, "Webhook First", "49.99", "5.00")
	ctx := context.Background()
	identity := &auth.Identity{UserID: userID, Role: consts.RoleUser}

	gateway := &fakeGateway{orderID: "ORDER-WH-FIRST", verified: true}
	orderID, err := commands.NewCreateOrder(uowFactory, gateway, "USD").Execute(ctx, identity, planID)
	require.NoError(t, err)

	// a submitted request the paid plan should flip to live
	var requestID uint64
	err = testinfra.Pool.QueryRow(ctx,
		`INSERT INTO agency.website_requests(user_id, plan_id, title, status, created_at, updated_at)
		 VALUES ($1,$2,'Acme Cafe','pending',now(),now()) RETURNING id`, userID, planID).Scan(&requestID)
	require.NoError(t, err)

	webhook := commands.NewWebhook(uowFactory, gateway)
	body := captureCompletedBody("WH-FIRST-1", "CAP-FIRST-1", orderID, "54.99")
	require.NoError(t, webhook.Execute(ctx, map[string]string{"paypal-transmission-sig": "good"}, body))

	var txnUser, status, amount string
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT user_id::text, status, amount::text FROM agency.transactions WHERE capture_id = 'CAP-FIRST-1'").
		Scan(&txnUser, &status, &amount)
	require.NoError(t, err)
	require.Equal(t, userID.String(), txnUser)
	require.Equal(t, "paid", status)
	require.Equal(t, "54.99", amount)

	var orderStatus, requestStatus string
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT status FROM agency.pending_orders WHERE order_id = $1", orderID).Scan(&orderStatus)
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", orderStatus)

	err = testinfra.Pool.QueryRow(ctx,
		"SELECT status FROM agency.website_requests WHERE id = $1", requestID).Scan(&requestStatus)
	require.NoError(t, err)
	require.Equal(t, "live", requestStatus, "paid plan moves the pending request to live")
}

// commitRefusingTx rolls the real transaction back and reports a commit
// failure, standing in for a database that dies at commit time.
type commitRefusingTx struct {
	pgx.Tx
}

func (t commitRefusingTx) Commit(ctx context.Context) error {
	_ = t.Tx.Rollback(ctx)
	return fmt.Errorf("connection lost during commit")
}

type commitRefusingConn struct {
	pool *pgxpool.Pool
}

func (c commitRefusingConn) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	tx, err := c.pool.BeginTx(ctx, txOptions)
	if err != nil {
		return nil, err
	}
	return commitRefusingTx{Tx: tx}, nil
}

func TestWebhookAuditCommitFailureRefusesDelivery(t *testing.T) {
	ctx := context.Background()
	factory := dbs.NewUoWFactory(commitRefusingConn{pool: testinfra.Pool})
	webhook := commands.NewWebhook(factory, &fakeGateway{verified: false})

	body := captureCompletedBody("WH-COMMIT-1", "CAP-COMMIT-1", "ORDER-COMMIT-1", "54.99")
	err := webhook.Execute(ctx, map[string]string{"paypal-transmission-sig": "forged"}, body)
	require.Error(t, err, "an unlogged delivery must not be acknowledged")

	var audits int
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*) FROM agency.webhook_events WHERE event_id = 'WH-COMMIT-1'").Scan(&audits)
	require.NoError(t, err)
	require.Zero(t, audits, "nothing durable was written, the provider gets to retry")
}

func TestWebhookUnknownEventTypeIsAuditedOnly(t *testing.T) {
	ctx := context.Background()
	gateway := &fakeGateway{verified: true}
	webhook := commands.NewWebhook(uowFactory, gateway)

	body := []byte(`{"id":"WH-SUB-1","event_type":"BILLING.SUBSCRIPTION.CREATED","resource_type":"subscription","resource":{"id":"SUB-1"}}`)
	require.NoError(t, webhook.Execute(ctx, map[string]string{"paypal-transmission-sig": "good"}, body))

	var audits int
	err := testinfra.Pool.QueryRow(ctx,
		"SELECT count(*) FROM agency.webhook_events WHERE event_id = 'WH-SUB-1' AND processed_at IS NOT NULL").Scan(&audits)
	require.NoError(t, err)
	require.Equal(t, 1, audits)
}
