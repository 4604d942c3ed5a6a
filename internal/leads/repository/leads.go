package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leadNotFoundMsg = "lead not found"

const leadSelect = `
	SELECT l.id, l.nome_completo, l.telefone, l.email, l.cpf_cnpj, l.status, l.notas,
		l.vendedor_id, u.nome, l.closer_id, c.nome,
		l.servico_interesse, l.servico_realizado, l.valor_ganho_cents,
		l.forma_pagamento, l.data_pagamento, l.qtd_parcelas, l.parcelas_info,
		l.created_at, l.updated_at
	FROM leads l
	LEFT JOIN users u ON u.id = l.vendedor_id
	LEFT JOIN closers c ON c.id = l.closer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var parcelas []byte
	if err := row.Scan(
		&lead.ID, &lead.NomeCompleto, &lead.Telefone, &lead.Email, &lead.CpfCnpj, &lead.Status, &lead.Notas,
		&lead.VendedorID, &lead.VendedorNome, &lead.CloserID, &lead.CloserNome,
		&lead.ServicoInteresse, &lead.ServicoRealizado, &lead.ValorGanhoCents,
		&lead.FormaPagamento, &lead.DataPagamento, &lead.QtdParcelas, &parcelas,
		&lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return Lead{}, err
	}

	if len(parcelas) > 0 {
		if err := json.Unmarshal(parcelas, &lead.Parcelas); err != nil {
			return Lead{}, fmt.Errorf("decode parcelas_info: %w", err)
		}
	}
	return lead, nil
}

func (r *Repo) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	lead := Lead{
		NomeCompleto: params.NomeCompleto,
		Telefone:     params.Telefone,
		Email:        params.Email,
		CpfCnpj:      params.CpfCnpj,
		Notas:        params.Notas,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (nome_completo, telefone, email, cpf_cnpj, notas)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`, params.NomeCompleto, params.Telefone, params.Email, params.CpfCnpj, params.Notas,
	).Scan(&lead.ID, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, leadSelect+` WHERE l.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	where, args := buildListWhere(params)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads l WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY l.created_at DESC, l.id LIMIT $%d OFFSET $%d",
		leadSelect, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	return leads, total, nil
}

func buildListWhere(params ListParams) (string, []any) {
	clauses := []string{"TRUE"}
	args := make([]any, 0, 6)

	add := func(format string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if params.VendedorID != nil {
		add("l.vendedor_id = $%d", *params.VendedorID)
	}
	if params.Unassigned {
		clauses = append(clauses, "l.vendedor_id IS NULL")
	}
	if params.Status != nil {
		add("l.status = $%d", *params.Status)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(l.nome_completo ILIKE $%d OR l.email ILIKE $%d OR l.telefone ILIKE $%d OR l.cpf_cnpj ILIKE $%d)",
			n, n, n, n,
		))
	}
	if params.CreatedFrom != nil {
		add("l.created_at >= $%d", *params.CreatedFrom)
	}
	if params.CreatedTo != nil {
		add("l.created_at < $%d", *params.CreatedTo)
	}

	return strings.Join(clauses, " AND "), args
}

func (r *Repo) Stats(ctx context.Context, vendedorID *uuid.UUID) (Stats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(valor_ganho_cents) FILTER (WHERE status = 'ganho'), 0)
		FROM leads
		WHERE $1::uuid IS NULL OR vendedor_id = $1
		GROUP BY status
	`, vendedorID)
	if err != nil {
		return Stats{}, fmt.Errorf("lead stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var count int
		var wonCents int64
		if err := rows.Scan(&status, &count, &wonCents); err != nil {
			return Stats{}, fmt.Errorf("scan lead stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		if status == "ganho" {
			stats.WonCount = count
			stats.WonTotalCents = wonCents
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("lead stats: %w", err)
	}

	return stats, nil
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			nome_completo = COALESCE($2, nome_completo),
			telefone = COALESCE($3, telefone),
			email = COALESCE($4, email),
			notas = COALESCE($5, notas),
			closer_id = CASE WHEN $6::boolean THEN $7::uuid ELSE closer_id END,
			updated_at = now()
		WHERE id = $1
	`, id, params.NomeCompleto, params.Telefone, params.Email, params.Notas, params.CloserSet, params.CloserID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Lead{}, apperr.Validation("closer not found")
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Lead{}, apperr.NotFound(leadNotFoundMsg)
	}

	return r.GetByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ReferencedInUse("lead")
		}
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMsg)
	}
	return nil
}

// SetVendedor assigns or clears the lead's vendedor and records the change
// on the timeline in the same transaction.
func (r *Repo) SetVendedor(ctx context.Context, params AssignParams) (Lead, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Lead{}, fmt.Errorf("begin assign: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE leads SET vendedor_id = $2, updated_at = now() WHERE id = $1`,
		params.LeadID, params.VendedorID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Lead{}, apperr.Validation("vendedor not found")
		}
		return Lead{}, fmt.Errorf("assign lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Lead{}, apperr.NotFound(leadNotFoundMsg)
	}

	if err := InsertActivity(ctx, tx, AssignmentActivity(params.LeadID, params.ActorID, params.VendedorID, false)); err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit assign: %w", err)
	}

	return r.GetByID(ctx, params.LeadID)
}

func (r *Repo) IsVendedor(ctx context.Context, userID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = 'vendedor')
	`, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check vendedor role: %w", err)
	}
	return ok, nil
}

func (r *Repo) CloserOwner(ctx context.Context, closerID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT vendedor_id FROM closers WHERE id = $1`, closerID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperr.Validation("closer not found")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("get closer owner: %w", err)
	}
	return owner, nil
}
