package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/acadops/programme-finance/internal/models"
	"go.uber.org/zap"
)

// ErrEventNotFound signals a missing event; the HTTP layer maps it to 404.
var ErrEventNotFound = errors.New("event not found")

// EventRepository persists the event aggregate. The record is stored as one
// JSON document per row: the financial core works on the whole aggregate in
// memory, and a request either persists the fully reconciled record or
// nothing.
type EventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new event record
func (r *EventRepository) Create(event *models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	query := `
		INSERT INTO events (id, title, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, event.ID, event.Title, string(payload), event.CreatedAt, event.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create event", zap.String("event_id", event.ID), zap.Error(err))
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event aggregate by id
func (r *EventRepository) GetByID(id string) (*models.Event, error) {
	query := `SELECT payload FROM events WHERE id = ?`

	var payload string
	err := r.db.QueryRow(query, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get event", zap.String("event_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event %s: %w", id, err)
	}
	return &event, nil
}

// Update overwrites the stored aggregate with the reconciled record
func (r *EventRepository) Update(event *models.Event) error {
	event.UpdatedAt = time.Now()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	query := `UPDATE events SET title = ?, payload = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, event.Title, string(payload), event.UpdatedAt, event.ID)
	if err != nil {
		r.logger.Error("Failed to update event", zap.String("event_id", event.ID), zap.Error(err))
		return fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEventNotFound
	}
	return nil
}

// List returns event summaries, newest first
func (r *EventRepository) List(limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT payload FROM events ORDER BY updated_at DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Error("Failed to list events", zap.Error(err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		var event models.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
