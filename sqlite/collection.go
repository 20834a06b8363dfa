package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Filter matches documents by exact field values. The "id" key matches the
// primary key. Identifier values are compared in their stored binary form.
type Filter map[string]any

// Codec converts between entities and stored documents.
type Codec[T any] interface {
	// Encode returns the identifier and document body of v. It returns an
	// error if v is invalid.
	Encode(v T) (uuid.UUID, map[string]any, error)

	// Decode builds an entity from a stored identifier and document body.
	// It returns EINTERNAL if a required identifier is missing or malformed.
	Decode(id uuid.UUID, doc map[string]any) (T, error)
}

// Collection is a typed view over one collection of documents.
// The underlying table and indexes are provisioned on first use.
type Collection[T any] struct {
	db    *DB
	spec  CollectionSpec
	codec Codec[T]

	mu      sync.Mutex
	ensured bool
}

// NewCollection returns a collection of entities encoded with codec.
func NewCollection[T any](db *DB, spec CollectionSpec, codec Codec[T]) *Collection[T] {
	return &Collection[T]{db: db, spec: spec, codec: codec}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.spec.Name
}

func (c *Collection[T]) ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ensured {
		return nil
	}
	if err := c.db.EnsureCollection(ctx, c.spec); err != nil {
		return err
	}
	c.ensured = true
	return nil
}

// Save inserts v. Returns ECONFLICT if a document with the same identifier
// or natural key exists and EPERSIST on any other write failure.
func (c *Collection[T]) Save(ctx context.Context, v T) error {
	if err := c.ensure(ctx); err != nil {
		return err
	}
	id, body, err := c.encode(v)
	if err != nil {
		return err
	}
	if _, err := c.db.db.ExecContext(ctx, c.insertSQL(), id[:], body); err != nil {
		return c.writeError(err)
	}
	return nil
}

// BulkSave inserts all values in one transaction. Either every document is
// stored or none is. An empty batch succeeds without touching the store.
func (c *Collection[T]) BulkSave(ctx context.Context, vs []T) error {
	if len(vs) == 0 {
		return nil
	}
	if err := c.ensure(ctx); err != nil {
		return err
	}

	type row struct {
		id   uuid.UUID
		body string
	}
	rows := make([]row, len(vs))
	for i, v := range vs {
		id, body, err := c.encode(v)
		if err != nil {
			return err
		}
		rows[i] = row{id, body}
	}

	tx, err := c.db.db.BeginTx(ctx, nil)
	if err != nil {
		return harvest.WrapError(harvest.EPERSIST, err, "beginning %s batch", c.spec.Name)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, c.insertSQL())
	if err != nil {
		return harvest.WrapError(harvest.EPERSIST, err, "preparing %s batch", c.spec.Name)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id[:], r.body); err != nil {
			return c.writeError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return harvest.WrapError(harvest.EPERSIST, err, "committing %s batch", c.spec.Name)
	}
	return nil
}

// Lookup returns the first document matching filter.
// Returns ENOTFOUND if nothing matches.
func (c *Collection[T]) Lookup(ctx context.Context, filter Filter) (T, error) {
	var zero T
	if err := c.ensure(ctx); err != nil {
		return zero, err
	}
	where, args, err := buildWhere(filter)
	if err != nil {
		return zero, err
	}

	var (
		idb  []byte
		body string
	)
	query := fmt.Sprintf("SELECT id, doc FROM %q%s LIMIT 1", c.spec.Name, where)
	err = c.db.db.QueryRowContext(ctx, query, args...).Scan(&idb, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, harvest.Errorf(harvest.ENOTFOUND, "%s not found", c.spec.Name)
	}
	if err != nil {
		return zero, harvest.WrapError(harvest.EINTERNAL, err, "querying %s", c.spec.Name)
	}
	return c.decode(idb, body)
}

// FindOne returns the first document matching filter. Lookup failures are
// logged and reported the same way as a missing document.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (T, bool) {
	v, err := c.Lookup(ctx, filter)
	if err != nil {
		if harvest.ErrorCode(err) != harvest.ENOTFOUND {
			c.db.Logger.Error("find failed", "collection", c.spec.Name, "error", err)
		}
		var zero T
		return zero, false
	}
	return v, true
}

// FindMany returns all documents matching filter in insertion order. Lookup
// failures are logged and reported as an empty result.
func (c *Collection[T]) FindMany(ctx context.Context, filter Filter) []T {
	vs, err := c.list(ctx, filter)
	if err != nil {
		c.db.Logger.Error("find failed", "collection", c.spec.Name, "error", err)
		return []T{}
	}
	return vs
}

func (c *Collection[T]) list(ctx context.Context, filter Filter) ([]T, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, doc FROM %q%s ORDER BY rowid", c.spec.Name, where)
	rows, err := c.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, harvest.WrapError(harvest.EINTERNAL, err, "querying %s", c.spec.Name)
	}
	defer rows.Close()

	vs := []T{}
	for rows.Next() {
		var (
			idb  []byte
			body string
		)
		if err := rows.Scan(&idb, &body); err != nil {
			return nil, harvest.WrapError(harvest.EINTERNAL, err, "scanning %s", c.spec.Name)
		}
		v, err := c.decode(idb, body)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, harvest.WrapError(harvest.EINTERNAL, err, "iterating %s", c.spec.Name)
	}
	return vs, nil
}

// Count returns the number of documents matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int, error) {
	if err := c.ensure(ctx); err != nil {
		return 0, err
	}
	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %q%s", c.spec.Name, where)
	if err := c.db.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, harvest.WrapError(harvest.EINTERNAL, err, "counting %s", c.spec.Name)
	}
	return n, nil
}

// GetOrCreate returns the document matching filter, creating one from the
// filter's fields if none exists. When a concurrent writer inserts the same
// natural key first, the stored document is returned instead.
func (c *Collection[T]) GetOrCreate(ctx context.Context, filter Filter) (T, error) {
	var zero T

	v, err := c.Lookup(ctx, filter)
	if err == nil {
		return v, nil
	}
	if harvest.ErrorCode(err) != harvest.ENOTFOUND {
		return zero, err
	}

	fields := maps.Clone(filter)
	delete(fields, "id")
	v, err = c.codec.Decode(uuid.New(), map[string]any(fields))
	if err != nil {
		return zero, err
	}

	if err := c.Save(ctx, v); err != nil {
		if harvest.ErrorCode(err) != harvest.ECONFLICT {
			return zero, err
		}
		return c.Lookup(ctx, filter)
	}
	return v, nil
}

func (c *Collection[T]) insertSQL() string {
	return fmt.Sprintf("INSERT INTO %q (id, doc) VALUES (?, ?)", c.spec.Name)
}

func (c *Collection[T]) encode(v T) (uuid.UUID, string, error) {
	id, doc, err := c.codec.Encode(v)
	if err != nil {
		return uuid.Nil, "", err
	}
	if id == uuid.Nil {
		return uuid.Nil, "", harvest.Errorf(harvest.EINVALID, "%s document identifier required", c.spec.Name)
	}
	body, err := marshalDoc(doc)
	if err != nil {
		return uuid.Nil, "", harvest.WrapError(harvest.EINVALID, err, "encoding %s document", c.spec.Name)
	}
	return id, body, nil
}

func (c *Collection[T]) decode(idb []byte, body string) (T, error) {
	var zero T
	id, err := idFromBytes(idb)
	if err != nil {
		return zero, err
	}
	doc, err := unmarshalDoc(body)
	if err != nil {
		return zero, harvest.WrapError(harvest.EINTERNAL, err, "decoding %s document", c.spec.Name)
	}
	return c.codec.Decode(id, doc)
}

func (c *Collection[T]) writeError(err error) error {
	if isUniqueViolation(err) {
		return harvest.WrapError(harvest.ECONFLICT, err, "%s already exists", c.spec.Name)
	}
	return harvest.WrapError(harvest.EPERSIST, err, "writing %s", c.spec.Name)
}

// buildWhere translates a filter into a WHERE clause. Keys are emitted in
// sorted order so equal filters produce equal statements.
func buildWhere(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	var (
		conds []string
		args  []any
	)
	for _, key := range slices.Sorted(maps.Keys(filter)) {
		value := filter[key]

		if key == "id" {
			id, ok := value.(uuid.UUID)
			if !ok {
				return "", nil, harvest.Errorf(harvest.EINVALID, "id filter must be an identifier")
			}
			conds = append(conds, "id = ?")
			args = append(args, id[:])
			continue
		}

		field := key
		switch v := value.(type) {
		case uuid.UUID:
			field = key + "." + binaryPayload
			value = base64.StdEncoding.EncodeToString(v[:])
		case bool:
			if v {
				value = 1
			} else {
				value = 0
			}
		case string, int, int64, float64, nil:
		default:
			return "", nil, harvest.Errorf(harvest.EINVALID, "unsupported filter value for %q: %T", key, value)
		}

		expr, err := fieldExpr(field)
		if err != nil {
			return "", nil, harvest.WrapError(harvest.EINVALID, err, "invalid filter")
		}
		if value == nil {
			conds = append(conds, expr+" IS NULL")
			continue
		}
		conds = append(conds, expr+" = ?")
		args = append(args, value)
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
