package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/types"
)

const DefaultListLimit = 50

// Store records every generated entity so clients can page back through
// their history.
type Store interface {
	Save(ctx context.Context, clientID, kind, title string, data any) (*types.Event, error)
	List(ctx context.Context, clientID string, limit int) ([]types.Event, error)
	Get(ctx context.Context, clientID string, id uuid.UUID) (*types.Event, error)
	// RawQuery runs an arbitrary SQL statement and renders the outcome
	// as text. SELECTs return rows as JSON, everything else the
	// affected row count.
	RawQuery(ctx context.Context, query string) (string, error)
}

type store struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStore(log *logger.Logger, db *gorm.DB) Store {
	return &store{
		db:  db,
		log: log.With("service", "HistoryStore"),
	}
}

func (s *store) Save(ctx context.Context, clientID, kind, title string, data any) (*types.Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("history save: marshal %s: %w", kind, err)
	}
	event := &types.Event{
		ID:       uuid.New(),
		ClientID: clientID,
		Kind:     kind,
		Title:    title,
		Data:     payload,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		s.log.Error("history save failed", "kind", kind, "error", err)
		return nil, fmt.Errorf("history save: %w", err)
	}
	return event, nil
}

func (s *store) List(ctx context.Context, clientID string, limit int) ([]types.Event, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var events []types.Event
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	return events, nil
}

func (s *store) Get(ctx context.Context, clientID string, id uuid.UUID) (*types.Event, error) {
	var event types.Event
	q := s.db.WithContext(ctx).Where("id = ?", id)
	if clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if err := q.First(&event).Error; err != nil {
		return nil, fmt.Errorf("history get %s: %w", id, err)
	}
	return &event, nil
}

func (s *store) RawQuery(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("raw query is empty")
	}

	if strings.HasPrefix(strings.ToLower(query), "select") {
		var rows []map[string]any
		if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
			return "", fmt.Errorf("raw query: %w", err)
		}
		out, err := json.Marshal(rows)
		if err != nil {
			return "", fmt.Errorf("raw query: render: %w", err)
		}
		return string(out), nil
	}

	res := s.db.WithContext(ctx).Exec(query)
	if res.Error != nil {
		return "", fmt.Errorf("raw exec: %w", res.Error)
	}
	return fmt.Sprintf("OK, %d righe interessate", res.RowsAffected), nil
}
