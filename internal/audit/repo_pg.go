package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts an audit event.
func (r *PGRepo) Create(ctx context.Context, event Event) error {
	const query = `
INSERT INTO audit_logs (actor, action, details)
VALUES ($1, $2, $3)`

	var details any
	if event.Details != nil {
		raw, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		details = raw
	}

	_, err := r.DB.ExecContext(ctx, query, event.Actor, string(event.Action), details)
	return err
}

// List returns a page of events plus the total count for the filter.
func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]Event, int, error) {
	where := []string{}
	args := []any{}

	if search := strings.TrimSpace(q.ActorSearch); search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("actor ILIKE $%d", len(args)))
	}
	if len(q.Actions) > 0 {
		placeholders := make([]string, 0, len(q.Actions))
		for _, a := range q.Actions {
			args = append(args, string(a))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, "action IN ("+strings.Join(placeholders, ", ")+")")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_logs" + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Sort columns are whitelisted; user input never reaches the SQL text.
	sortColumn := "created_at"
	switch q.SortBy {
	case "actor":
		sortColumn = "actor"
	case "action":
		sortColumn = "action"
	}
	sortOrder := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	args = append(args, pageSize)
	limitPos := len(args)
	args = append(args, (page-1)*pageSize)
	offsetPos := len(args)

	listQuery := fmt.Sprintf(
		"SELECT id, actor, action, details, created_at FROM audit_logs%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		whereClause, sortColumn, sortOrder, limitPos, offsetPos,
	)

	rows, err := r.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		var action string
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.Actor, &action, &details, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Action = Action(action)
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &e.Details); err != nil {
				return nil, 0, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
