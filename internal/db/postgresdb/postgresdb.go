// Package postgresdb provides a PostgreSQL-based implementation of the storage
// interface. Uniqueness of usernames, emails and tag slugs is enforced by
// unique indexes; violations surface as storage.ErrConflict.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/thoas/go-funk"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/models"
)

const uniqueViolationCode = "23505"

// PostgresDB is a PostgreSQL-backed implementation of the storage interface.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	return result, nil
}

// Ping checks database connectivity within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(pingCtx)
}

// Close closes the underlying connection pool.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return storage.ErrConflict
	}

	return err
}

// CreateUser inserts a new user record. A duplicate username or email hits
// the unique index and returns storage.ErrConflict.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *models.User) error {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	usr.CreatedAt = now
	usr.UpdatedAt = now

	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO users (id, username, email, password, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)
		`,
		usr.ID,
		usr.Username,
		usr.Email,
		usr.Password,
		usr.CreatedAt,
		usr.UpdatedAt,
	)
	if err != nil {
		return translateConflict(err)
	}

	return nil
}

func (db *PostgresDB) findUserBy(ctx context.Context, column, value string) (*models.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		fmt.Sprintf(
			`SELECT id, username, email, password, created_at, updated_at FROM users WHERE %s = $1`,
			column,
		),
		value,
	)

	var usr models.User
	err := row.Scan(&usr.ID, &usr.Username, &usr.Email, &usr.Password, &usr.CreatedAt, &usr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &usr, true, nil
}

// FindUserByID fetches a user by id.
func (db *PostgresDB) FindUserByID(ctx context.Context, id string) (*models.User, bool, error) {
	return db.findUserBy(ctx, "id", id)
}

// FindUserByUsername fetches a user by username.
func (db *PostgresDB) FindUserByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	return db.findUserBy(ctx, "username", username)
}

// FindUserByEmail fetches a user by email.
func (db *PostgresDB) FindUserByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return db.findUserBy(ctx, "email", email)
}

// CreateTag inserts a new tag record. A duplicate slug hits the unique index
// and returns storage.ErrConflict.
func (db *PostgresDB) CreateTag(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	tag.CreatedAt = now
	tag.UpdatedAt = now

	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO tags (id, name, slug, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5)
		`,
		tag.ID,
		tag.Name,
		tag.Slug,
		tag.CreatedAt,
		tag.UpdatedAt,
	)
	if err != nil {
		return translateConflict(err)
	}

	return nil
}

// FindOneTag returns the first tag matching the filter in insertion order.
// Filter fields narrow the match incrementally.
func (db *PostgresDB) FindOneTag(ctx context.Context, filter storage.TagFilter) (*models.Tag, bool, error) {
	conditions := []string{}
	params := []interface{}{}
	if filter.ID != "" {
		params = append(params, filter.ID)
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(params)))
	}
	if filter.Slug != "" {
		params = append(params, filter.Slug)
		conditions = append(conditions, fmt.Sprintf("slug = $%d", len(params)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	row := db.database.QueryRowContext(
		ctx,
		fmt.Sprintf(
			`SELECT id, name, slug, created_at, updated_at FROM tags %s ORDER BY seq LIMIT 1`,
			where,
		),
		params...,
	)

	var tag models.Tag
	err := row.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &tag, true, nil
}

// FindAllTags returns every tag in insertion order.
func (db *PostgresDB) FindAllTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, name, slug, created_at, updated_at FROM tags ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		err = rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, tag)
	}

	return result, rows.Err()
}

// FindTagsByIDs returns the tags for the given ids, keeping the ids' order
// and skipping dangling references.
func (db *PostgresDB) FindTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	uniqueIDs := funk.UniqString(ids)
	if len(uniqueIDs) == 0 {
		return []models.Tag{}, nil
	}

	placeholders := make([]string, len(uniqueIDs))
	params := make([]interface{}, len(uniqueIDs))
	for i, id := range uniqueIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		params[i] = id
	}

	rows, err := db.database.QueryContext(
		ctx,
		fmt.Sprintf(
			`SELECT id, name, slug, created_at, updated_at FROM tags WHERE id IN (%s)`,
			strings.Join(placeholders, ","),
		),
		params...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[string]models.Tag{}
	for rows.Next() {
		var tag models.Tag
		err = rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
		if err != nil {
			return nil, err
		}
		byID[tag.ID] = tag
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		if tag, ok := byID[id]; ok {
			result = append(result, tag)
		}
	}

	return result, nil
}

// UpdateTag persists the tag's name and slug. A duplicate slug returns
// storage.ErrConflict.
func (db *PostgresDB) UpdateTag(ctx context.Context, tag *models.Tag) error {
	tag.UpdatedAt = time.Now().UTC()

	_, err := db.database.ExecContext(
		ctx,
		`UPDATE tags SET name = $1, slug = $2, updated_at = $3 WHERE id = $4`,
		tag.Name,
		tag.Slug,
		tag.UpdatedAt,
		tag.ID,
	)
	if err != nil {
		return translateConflict(err)
	}

	return nil
}

// DeleteTag removes a tag. References from bookmarks are weak and stay in
// place; reads skip them when materializing.
func (db *PostgresDB) DeleteTag(ctx context.Context, id string) error {
	_, err := db.database.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)

	return err
}

// CreateBookmark inserts a bookmark and its ordered tag references.
func (db *PostgresDB) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.ID == "" {
		bookmark.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	bookmark.CreatedAt = now
	bookmark.UpdatedAt = now

	transaction, err := db.database.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	_, err = transaction.ExecContext(
		ctx,
		`
			INSERT INTO bookmarks (id, name, url, description, user_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
		bookmark.ID,
		bookmark.Name,
		bookmark.URL,
		bookmark.Description,
		bookmark.UserID,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)
	if err != nil {
		return translateConflict(err)
	}

	if err := saveBookmarkTags(ctx, transaction, bookmark.ID, bookmark.TagIDs); err != nil {
		return err
	}

	return transaction.Commit()
}

func saveBookmarkTags(ctx context.Context, transaction *sql.Tx, bookmarkID string, tagIDs []string) error {
	for position, tagID := range tagIDs {
		_, err := transaction.ExecContext(
			ctx,
			`INSERT INTO bookmark_tags (bookmark_id, tag_id, position) VALUES ($1, $2, $3)`,
			bookmarkID,
			tagID,
			position,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (db *PostgresDB) loadBookmarkTagIDs(ctx context.Context, bookmarkID string) ([]string, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT tag_id FROM bookmark_tags WHERE bookmark_id = $1 ORDER BY position`,
		bookmarkID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagIDs := []string{}
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tagID)
	}

	return tagIDs, rows.Err()
}

// FindOneBookmark returns the first bookmark matching the filter in insertion
// order. An empty filter matches the first stored document.
func (db *PostgresDB) FindOneBookmark(ctx context.Context, filter storage.BookmarkFilter) (*models.Bookmark, bool, error) {
	conditions := []string{}
	params := []interface{}{}
	if filter.ID != "" {
		params = append(params, filter.ID)
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(params)))
	}
	if filter.UserID != "" {
		params = append(params, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(params)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	row := db.database.QueryRowContext(
		ctx,
		fmt.Sprintf(
			`
				SELECT id, name, url, description, user_id, created_at, updated_at
					FROM bookmarks %s ORDER BY seq LIMIT 1
			`,
			where,
		),
		params...,
	)

	var bookmark models.Bookmark
	err := row.Scan(
		&bookmark.ID,
		&bookmark.Name,
		&bookmark.URL,
		&bookmark.Description,
		&bookmark.UserID,
		&bookmark.CreatedAt,
		&bookmark.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	bookmark.TagIDs, err = db.loadBookmarkTagIDs(ctx, bookmark.ID)
	if err != nil {
		return nil, false, err
	}

	return &bookmark, true, nil
}

// FindAllBookmarks returns a page of bookmarks in insertion order,
// optionally restricted to one owner.
func (db *PostgresDB) FindAllBookmarks(ctx context.Context, query storage.BookmarkQuery) ([]models.Bookmark, error) {
	conditions := ""
	params := []interface{}{}
	if query.UserID != "" {
		params = append(params, query.UserID)
		conditions = fmt.Sprintf("WHERE user_id = $%d", len(params))
	}

	pagination := ""
	if query.Start > 0 {
		params = append(params, query.Start)
		pagination += fmt.Sprintf(" OFFSET $%d", len(params))
	}
	if query.Limit > 0 {
		params = append(params, query.Limit)
		pagination += fmt.Sprintf(" LIMIT $%d", len(params))
	}

	rows, err := db.database.QueryContext(
		ctx,
		fmt.Sprintf(
			`
				SELECT id, name, url, description, user_id, created_at, updated_at
					FROM bookmarks %s ORDER BY seq%s
			`,
			conditions,
			pagination,
		),
		params...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Bookmark{}
	for rows.Next() {
		var bookmark models.Bookmark
		err = rows.Scan(
			&bookmark.ID,
			&bookmark.Name,
			&bookmark.URL,
			&bookmark.Description,
			&bookmark.UserID,
			&bookmark.CreatedAt,
			&bookmark.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		result[i].TagIDs, err = db.loadBookmarkTagIDs(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UpdateBookmark persists the bookmark fields and rewrites its ordered tag
// references within one transaction.
func (db *PostgresDB) UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	bookmark.UpdatedAt = time.Now().UTC()

	transaction, err := db.database.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	_, err = transaction.ExecContext(
		ctx,
		`
			UPDATE bookmarks
				SET name = $1, url = $2, description = $3, updated_at = $4
				WHERE id = $5
		`,
		bookmark.Name,
		bookmark.URL,
		bookmark.Description,
		bookmark.UpdatedAt,
		bookmark.ID,
	)
	if err != nil {
		return err
	}

	_, err = transaction.ExecContext(
		ctx,
		`DELETE FROM bookmark_tags WHERE bookmark_id = $1`,
		bookmark.ID,
	)
	if err != nil {
		return err
	}

	if err := saveBookmarkTags(ctx, transaction, bookmark.ID, bookmark.TagIDs); err != nil {
		return err
	}

	return transaction.Commit()
}

// DeleteBookmark removes a bookmark and its tag references.
func (db *PostgresDB) DeleteBookmark(ctx context.Context, id string) error {
	transaction, err := db.database.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	_, err = transaction.ExecContext(ctx, `DELETE FROM bookmark_tags WHERE bookmark_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = transaction.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return transaction.Commit()
}
