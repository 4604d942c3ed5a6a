package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// statusMovedMsg is returned when the lead left FromStatus between the read
// that validated the transition and the write.
const statusMovedMsg = "lead status changed concurrently; reload and retry"

// ApplyTransition writes the status change, the association set it carries
// and the timeline row in a single transaction. The update only matches while
// the lead is still in params.FromStatus. Any failure leaves the lead exactly
// as it was.
func (r *Repo) ApplyTransition(ctx context.Context, params ApplyTransitionParams) (Lead, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Lead{}, fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	plan := params.Plan
	to := string(plan.To)

	var tag pgconn.CommandTag
	switch {
	case plan.Won != nil:
		won := plan.Won
		var parcelas []byte
		if len(won.Installments) > 0 {
			parcelas, err = json.Marshal(won.Installments)
			if err != nil {
				return Lead{}, fmt.Errorf("encode installments: %w", err)
			}
		}
		tag, err = tx.Exec(ctx, `
			UPDATE leads SET
				status = $2,
				valor_ganho_cents = $3,
				servico_realizado = $4,
				forma_pagamento = $5,
				data_pagamento = $6::date,
				qtd_parcelas = $7,
				parcelas_info = $8::jsonb,
				updated_at = now()
			WHERE id = $1 AND status = $9
		`, params.LeadID, to, won.TotalCents, params.WonLabel, string(won.PaymentMethod),
			won.PaymentDate.Format(domain.DateLayout), won.InstallmentCount, parcelas, params.FromStatus)
	case plan.To == domain.StatusInteresseOutros:
		tag, err = tx.Exec(ctx, `
			UPDATE leads SET status = $2, servico_interesse = $3, updated_at = now()
			WHERE id = $1 AND status = $4
		`, params.LeadID, to, params.InterestLabel, params.FromStatus)
	default:
		tag, err = tx.Exec(ctx, `
			UPDATE leads SET status = $2, updated_at = now()
			WHERE id = $1 AND status = $3
		`, params.LeadID, to, params.FromStatus)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, params.LeadID).Scan(&exists); err != nil {
			return Lead{}, fmt.Errorf("check lead: %w", err)
		}
		if !exists {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, apperr.Conflict(statusMovedMsg)
	}

	if plan.Won != nil {
		if err := replaceSoldTx(ctx, tx, params.LeadID, plan.Won.Entries); err != nil {
			return Lead{}, err
		}
	} else if plan.To == domain.StatusInteresseOutros {
		if err := replaceTagsTx(ctx, tx, params.LeadID, plan.InterestServiceIDs); err != nil {
			return Lead{}, err
		}
	}

	actorID := params.ActorID
	meta := map[string]any{"from": params.FromStatus, "to": to}
	if plan.Won != nil {
		meta["valorGanhoCents"] = plan.Won.TotalCents
		meta["formaPagamento"] = string(plan.Won.PaymentMethod)
	}
	if err := InsertActivity(ctx, tx, AddActivityParams{
		LeadID:    params.LeadID,
		ActorID:   &actorID,
		EventType: ActivityStatusChanged,
		Message:   fmt.Sprintf("status changed from %s to %s", params.FromStatus, to),
		Metadata:  meta,
	}); err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit transition: %w", err)
	}

	return r.GetByID(ctx, params.LeadID)
}
