package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/application/interfaces"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db/repo"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

// CreateOrder opens a provider order for a plan purchase and remembers it in
// agency.pending_orders keyed by the provider's own order id, so capture and
// webhook can resolve the purchase without decoding the custom id.
type CreateOrder struct {
	uowFactory *dbs.UOWFactory
	gateway    interfaces.PaymentGateway
	currency   string
}

func NewCreateOrder(uowFactory *dbs.UOWFactory, gateway interfaces.PaymentGateway, currency string) *CreateOrder {
	return &CreateOrder{uowFactory: uowFactory, gateway: gateway, currency: currency}
}

func (c *CreateOrder) Execute(ctx context.Context, identity *auth.Identity, planID uint64) (string, error) {
	if identity == nil {
		return "", errs.PermissionsError{Err: fmt.Errorf("order creation requires an authenticated user")}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return "", err
	}

	var monthlyPrice, setupFee string
	err = tx.QueryRow(ctx,
		"SELECT monthly_price::text, setup_fee::text FROM agency.plans WHERE id = $1 AND status = $2",
		planID, consts.PlanStatusActive).Scan(&monthlyPrice, &setupFee)
	if err != nil {
		_ = uow.Rollback()
		return "", fmt.Errorf("error retrieving plan, %v", err)
	}
	if err = uow.Commit(); err != nil {
		return "", err
	}

	monthly, err := decimal.NewFromString(monthlyPrice)
	if err != nil {
		return "", fmt.Errorf("err parsing monthly price, %v", err)
	}
	setup, err := decimal.NewFromString(setupFee)
	if err != nil {
		return "", fmt.Errorf("err parsing setup fee, %v", err)
	}
	// first purchase is always one month plus the setup fee
	amount := monthly.Add(setup)

	customID := fmt.Sprintf("%s_%d", identity.UserID, planID)
	orderID, err := c.gateway.CreateOrder(ctx, amount, c.currency, customID)
	if err != nil {
		return "", fmt.Errorf("error creating provider order, %v", err)
	}

	uow = c.uowFactory.GetUoW()
	tx, err = uow.Begin()
	if err != nil {
		return "", err
	}
	defer uow.Finalize(&err)

	pendingOrders := repo.NewPendingOrderRepo(tx)
	err = pendingOrders.InsertOrder(ctx, db.PendingOrder{
		OrderID:   orderID,
		UserID:    identity.UserID,
		PlanID:    planID,
		Amount:    amount,
		Currency:  c.currency,
		CustomID:  customID,
		Status:    string(consts.OrderStatusCreated),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}

	slog.Info("created provider order", "order", orderID, "plan", planID, "amount", amount.StringFixed(2))
	return orderID, nil
}
