package resources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "embed"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// DBTX is the subset of *sql.DB and *sql.Tx the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// PostgresStore keeps resources in the resources table.
type PostgresStore struct {
	db DBTX
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to Postgres with lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the resources table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate resources: %w", err)
	}
	return nil
}

const resourceColumns = `id, title, description, url, category, resource_type, is_premium, prompt_text, image_url, created_at`

const listResources = `-- name: ListResources :many
SELECT ` + resourceColumns + ` FROM resources ORDER BY id
`

func (s *PostgresStore) List(ctx context.Context) ([]Resource, error) {
	return s.query(ctx, listResources)
}

const listPremiumResources = `-- name: ListPremiumResources :many
SELECT ` + resourceColumns + ` FROM resources WHERE is_premium = TRUE ORDER BY id
`

func (s *PostgresStore) ListPremium(ctx context.Context) ([]Resource, error) {
	return s.query(ctx, listPremiumResources)
}

const listResourcesByCategory = `-- name: ListResourcesByCategory :many
SELECT ` + resourceColumns + ` FROM resources WHERE category = $1 ORDER BY id
`

func (s *PostgresStore) ListByCategory(ctx context.Context, category string) ([]Resource, error) {
	return s.query(ctx, listResourcesByCategory, category)
}

const listResourcesByType = `-- name: ListResourcesByType :many
SELECT ` + resourceColumns + ` FROM resources WHERE resource_type = $1 ORDER BY id
`

func (s *PostgresStore) ListByType(ctx context.Context, resourceType Type) ([]Resource, error) {
	return s.query(ctx, listResourcesByType, string(resourceType))
}

const listResourcesByTypeAndCategory = `-- name: ListResourcesByTypeAndCategory :many
SELECT ` + resourceColumns + ` FROM resources WHERE resource_type = $1 AND category = $2 ORDER BY id
`

func (s *PostgresStore) ListByTypeAndCategory(ctx context.Context, resourceType Type, category string) ([]Resource, error) {
	return s.query(ctx, listResourcesByTypeAndCategory, string(resourceType), category)
}

const getResource = `-- name: GetResource :one
SELECT ` + resourceColumns + ` FROM resources WHERE id = $1
`

func (s *PostgresStore) Get(ctx context.Context, id int64) (Resource, error) {
	return scanOne(s.db.QueryRowContext(ctx, getResource, id))
}

const createResource = `-- name: CreateResource :one
INSERT INTO resources (title, description, url, category, resource_type, is_premium, prompt_text, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + resourceColumns + `
`

func (s *PostgresStore) Create(ctx context.Context, in CreateInput) (Resource, error) {
	if err := in.Validate(); err != nil {
		return Resource{}, err
	}

	row := s.db.QueryRowContext(ctx, createResource,
		in.Title,
		in.Description,
		in.URL,
		in.Category,
		string(in.ResourceType),
		in.IsPremium,
		nullString(in.PromptText),
		nullString(in.ImageURL),
	)
	return scanOne(row)
}

const updateResource = `-- name: UpdateResource :one
UPDATE resources SET
    title = COALESCE($2, title),
    description = COALESCE($3, description),
    url = COALESCE($4, url),
    category = COALESCE($5, category),
    resource_type = COALESCE($6, resource_type),
    is_premium = COALESCE($7, is_premium),
    prompt_text = COALESCE($8, prompt_text),
    image_url = COALESCE($9, image_url)
WHERE id = $1
RETURNING ` + resourceColumns + `
`

func (s *PostgresStore) Update(ctx context.Context, id int64, in UpdateInput) (Resource, error) {
	if err := in.Validate(); err != nil {
		return Resource{}, err
	}

	var resourceType sql.NullString
	if in.ResourceType != nil {
		resourceType = sql.NullString{String: string(*in.ResourceType), Valid: true}
	}
	var premium sql.NullBool
	if in.IsPremium != nil {
		premium = sql.NullBool{Bool: *in.IsPremium, Valid: true}
	}

	row := s.db.QueryRowContext(ctx, updateResource,
		id,
		nullString(in.Title),
		nullString(in.Description),
		nullString(in.URL),
		nullString(in.Category),
		resourceType,
		premium,
		nullString(in.PromptText),
		nullString(in.ImageURL),
	)
	return scanOne(row)
}

const deleteResource = `-- name: DeleteResource :execrows
DELETE FROM resources WHERE id = $1
`

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, deleteResource, id)
	if err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Resource, error) {
	var (
		i            Resource
		resourceType string
		promptText   sql.NullString
		imageURL     sql.NullString
	)
	if err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.URL,
		&i.Category,
		&resourceType,
		&i.IsPremium,
		&promptText,
		&imageURL,
		&i.CreatedAt,
	); err != nil {
		return Resource{}, err
	}
	i.ResourceType = Type(resourceType)
	i.PromptText = stringPtr(promptText)
	i.ImageURL = stringPtr(imageURL)
	return i, nil
}

func scanOne(row *sql.Row) (Resource, error) {
	r, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Resource{}, ErrNotFound
	}
	if err != nil {
		return Resource{}, fmt.Errorf("scan resource: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Resource, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	items := []Resource{}
	for rows.Next() {
		i, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
