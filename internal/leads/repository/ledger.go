package repository

import (
	"context"
	"fmt"
	"time"

	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const unknownServiceMsg = "unknown service"

// ServiceRef is the catalog view the ledger needs.
type ServiceRef struct {
	ID    uuid.UUID
	Nome  string
	Ativo bool
}

type TagRow struct {
	ServiceID uuid.UUID
	Nome      string
	Ativo     bool
	CreatedAt time.Time
}

type SoldServiceRow struct {
	ServiceID  uuid.UUID
	Nome       string
	Ativo      bool
	ValorCents int64
	CreatedAt  time.Time
}

func (r *Repo) GetServices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ServiceRef, error) {
	out := make(map[uuid.UUID]ServiceRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id, nome, ativo FROM services WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get services: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref ServiceRef
		if err := rows.Scan(&ref.ID, &ref.Nome, &ref.Ativo); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get services: %w", err)
	}
	return out, nil
}

func (r *Repo) ListTags(ctx context.Context, leadID uuid.UUID) ([]TagRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.service_id, s.nome, s.ativo, t.created_at
		FROM lead_service_tags t
		JOIN services s ON s.id = t.service_id
		WHERE t.lead_id = $1
		ORDER BY t.created_at, s.nome
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]TagRow, 0)
	for rows.Next() {
		var tag TagRow
		if err := rows.Scan(&tag.ServiceID, &tag.Nome, &tag.Ativo, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *Repo) ListSoldServices(ctx context.Context, leadID uuid.UUID) ([]SoldServiceRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.service_id, s.nome, s.ativo, v.valor_cents, v.created_at
		FROM lead_servicos_vendidos v
		JOIN services s ON s.id = v.service_id
		WHERE v.lead_id = $1
		ORDER BY v.created_at, s.nome
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list sold services: %w", err)
	}
	defer rows.Close()

	sold := make([]SoldServiceRow, 0)
	for rows.Next() {
		var row SoldServiceRow
		if err := rows.Scan(&row.ServiceID, &row.Nome, &row.Ativo, &row.ValorCents, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sold service: %w", err)
		}
		sold = append(sold, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sold services: %w", err)
	}
	return sold, nil
}

// ReplaceTags swaps the lead's tag set for serviceIDs in one transaction.
func (r *Repo) ReplaceTags(ctx context.Context, leadID uuid.UUID, serviceIDs []uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace tags: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := replaceTagsTx(ctx, tx, leadID, serviceIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace tags: %w", err)
	}
	return nil
}

// ReplaceSoldServices swaps the lead's sale ledger for entries in one transaction.
func (r *Repo) ReplaceSoldServices(ctx context.Context, leadID uuid.UUID, entries []domain.SoldEntry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace sold services: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := replaceSoldTx(ctx, tx, leadID, entries); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace sold services: %w", err)
	}
	return nil
}

func replaceTagsTx(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, serviceIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM lead_service_tags WHERE lead_id = $1`, leadID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}

	for _, serviceID := range serviceIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO lead_service_tags (lead_id, service_id)
			VALUES ($1, $2)
			ON CONFLICT (lead_id, service_id) DO NOTHING
		`, leadID, serviceID)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return apperr.Validation(unknownServiceMsg)
			}
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

func replaceSoldTx(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, entries []domain.SoldEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM lead_servicos_vendidos WHERE lead_id = $1`, leadID); err != nil {
		return fmt.Errorf("clear sold services: %w", err)
	}

	for _, entry := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO lead_servicos_vendidos (lead_id, service_id, valor_cents)
			VALUES ($1, $2, $3)
			ON CONFLICT (lead_id, service_id) DO UPDATE SET valor_cents = lead_servicos_vendidos.valor_cents + EXCLUDED.valor_cents
		`, leadID, entry.ServiceID, entry.ValorCents)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return apperr.Validation(unknownServiceMsg)
			}
			return fmt.Errorf("insert sold service: %w", err)
		}
	}
	return nil
}
