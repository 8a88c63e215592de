package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
	"github.com/aulavia/aulavia-backend/internal/platform/envutil"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
)

// Store searches the pgvector-backed documents table written by the
// ingestion pipeline. The core only ever reads from it.
type Store struct {
	log  *logger.Logger
	pool *pgxpool.Pool
	ai   openai.Client
}

func NewStore(log *logger.Logger, pool *pgxpool.Pool, ai openai.Client) *Store {
	return &Store{
		log:  log.With("service", "RetrievalStore"),
		pool: pool,
		ai:   ai,
	}
}

// NewPool connects to the content database from the environment.
func NewPool(ctx context.Context, log *logger.Logger) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		envutil.String("DB_USER", "postgres"),
		envutil.String("DB_PASSWORD", ""),
		envutil.String("DB_HOST", "localhost"),
		envutil.String("DB_PORT", "5432"),
		envutil.String("DB_NAME", "aulavia"),
	)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("retrieval pool: %w", err)
	}
	log.Info("retrieval store connected", "db_host", envutil.String("DB_HOST", "localhost"))
	return pool, nil
}

func (s *Store) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = 3
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	vecs, err := s.ai.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", pkgerrors.ErrRetrievalUnavailable, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: embed returned %d vectors", pkgerrors.ErrRetrievalUnavailable, len(vecs))
	}

	rows, err := s.pool.Query(ctx,
		`SELECT source, page, chunk_text
		 FROM documents
		 ORDER BY embedding <=> $1::vector
		 LIMIT $2`,
		vectorLiteral(vecs[0]), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query documents: %v", pkgerrors.ErrRetrievalUnavailable, err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.Source, &p.Page, &p.Text); err != nil {
			return nil, fmt.Errorf("%w: scan document row: %v", pkgerrors.ErrRetrievalUnavailable, err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read document rows: %v", pkgerrors.ErrRetrievalUnavailable, err)
	}
	return passages, nil
}

// vectorLiteral renders the pgvector input syntax: [0.1,0.2,...].
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
