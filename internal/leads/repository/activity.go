package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity event types.
const (
	ActivityCreated         = "created"
	ActivityStatusChanged   = "status_changed"
	ActivityAssigned        = "assigned"
	ActivityTagsReplaced    = "tags_replaced"
	ActivitySoldReplaced    = "sold_services_replaced"
	ActivitySLAWarning      = "sla_warning"
	ActivityDetailsModified = "details_updated"
)

type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	ActorID   *uuid.UUID
	EventType string
	Message   string
	Metadata  map[string]any
	CreatedAt time.Time
}

type AddActivityParams struct {
	LeadID    uuid.UUID
	ActorID   *uuid.UUID
	EventType string
	Message   string
	Metadata  map[string]any
}

// AssignmentActivity describes a vendedor change on the timeline.
func AssignmentActivity(leadID uuid.UUID, actorID, vendedorID *uuid.UUID, automatic bool) AddActivityParams {
	message := "lead unassigned"
	meta := map[string]any{"automatic": automatic}
	if vendedorID != nil {
		message = "lead assigned"
		meta["vendedorId"] = vendedorID.String()
	}
	if automatic {
		message = "lead assigned by round-robin"
	}
	return AddActivityParams{
		LeadID:    leadID,
		ActorID:   actorID,
		EventType: ActivityAssigned,
		Message:   message,
		Metadata:  meta,
	}
}

// InsertActivity appends a timeline row using q, which may be a transaction.
func InsertActivity(ctx context.Context, q Execer, params AddActivityParams) error {
	meta := params.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode activity metadata: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, actor_id, event_type, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`, params.LeadID, params.ActorID, params.EventType, params.Message, metaJSON)
	if err != nil {
		return fmt.Errorf("insert lead activity: %w", err)
	}
	return nil
}

func (r *Repo) AddActivity(ctx context.Context, params AddActivityParams) error {
	return InsertActivity(ctx, r.pool, params)
}

// AddSLAWarning appends the lead's sla_warning row unless one already exists.
// It reports whether a row was written.
func (r *Repo) AddSLAWarning(ctx context.Context, params AddActivityParams) (bool, error) {
	meta := params.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return false, fmt.Errorf("encode activity metadata: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, actor_id, event_type, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id) WHERE event_type = 'sla_warning' DO NOTHING
	`, params.LeadID, params.ActorID, ActivitySLAWarning, params.Message, metaJSON)
	if err != nil {
		return false, fmt.Errorf("insert sla warning: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repo) ListActivity(ctx context.Context, leadID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, actor_id, event_type, message, metadata, created_at
		FROM lead_activity
		WHERE lead_id = $1
		ORDER BY created_at DESC, id
		LIMIT 200
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead activity: %w", err)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var item Activity
		var metaJSON []byte
		if err := rows.Scan(&item.ID, &item.LeadID, &item.ActorID, &item.EventType, &item.Message, &metaJSON, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead activity: %w", err)
		}
		item.Metadata = map[string]any{}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &item.Metadata); err != nil {
				return nil, fmt.Errorf("decode activity metadata: %w", err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lead activity: %w", err)
	}

	return items, nil
}

// ListSLADue returns open leads created before createdBefore that have no
// sla_warning on their timeline yet, oldest first.
func (r *Repo) ListSLADue(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id
		FROM leads l
		WHERE l.status IN ('novo_lead', 'em_atendimento')
			AND l.created_at <= $1
			AND NOT EXISTS (
				SELECT 1 FROM lead_activity a
				WHERE a.lead_id = l.id AND a.event_type = $2
			)
		ORDER BY l.created_at
		LIMIT $3
	`, createdBefore, ActivitySLAWarning, limit)
	if err != nil {
		return nil, fmt.Errorf("list sla due leads: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sla due lead: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
