package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

// GetPlans lists active plans for the pricing step. Prices travel as strings
// to keep cents exact on the wire.
type GetPlans struct {
	uowFactory *dbs.UOWFactory
}

func NewGetPlans(uowFactory *dbs.UOWFactory) *GetPlans {
	return &GetPlans{uowFactory: uowFactory}
}

func (q *GetPlans) Query(ctx context.Context) ([]dto.PlanResponse, error) {
	uow := q.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	rows, err := tx.Query(ctx,
		`SELECT id, name, description, monthly_price::text, setup_fee::text, edit_limit, is_custom, features
		 FROM agency.plans WHERE status = $1 ORDER BY monthly_price`, consts.PlanStatusActive)
	if err != nil {
		return nil, fmt.Errorf("err listing plans, %v", err)
	}
	defer rows.Close()

	plans := make([]dto.PlanResponse, 0)
	for rows.Next() {
		var plan dto.PlanResponse
		var features string
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.MonthlyPrice,
			&plan.SetupFee, &plan.EditLimit, &plan.IsCustom, &features); err != nil {
			return nil, err
		}
		plan.Features = splitFeatures(features)
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func splitFeatures(features string) []string {
	parts := strings.Split(features, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
