package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
	"go.uber.org/zap"
)

var (
	createSchemaTableSQL = fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s INT PRIMARY KEY, %s INT NOT NULL, %s LONGTEXT NOT NULL, %s DATETIME(6) NOT NULL)",
		constants.TableSchema, constants.ColumnID, constants.ColumnVersion, constants.ColumnDocument, constants.ColumnUpdatedAt)
	createHistoryTableSQL = fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s BIGINT AUTO_INCREMENT PRIMARY KEY, %s INT NOT NULL, %s LONGTEXT NOT NULL, %s DATETIME(6) NOT NULL)",
		constants.TableSchemaHistory, constants.ColumnID, constants.ColumnVersion, constants.ColumnDocument, constants.ColumnCreatedAt)

	selectCurrentSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		constants.ColumnDocument, constants.TableSchema, constants.ColumnID)
	upsertCurrentSQL = fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE %s = VALUES(%s), %s = VALUES(%s), %s = VALUES(%s)",
		constants.TableSchema, constants.ColumnID, constants.ColumnVersion, constants.ColumnDocument, constants.ColumnUpdatedAt,
		constants.ColumnVersion, constants.ColumnVersion, constants.ColumnDocument, constants.ColumnDocument,
		constants.ColumnUpdatedAt, constants.ColumnUpdatedAt)
	insertHistorySQL = fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)",
		constants.TableSchemaHistory, constants.ColumnVersion, constants.ColumnDocument, constants.ColumnCreatedAt)
	// MySQL refuses LIMIT inside IN subqueries, hence the derived table
	trimHistorySQL = fmt.Sprintf(
		"DELETE FROM %s WHERE %s NOT IN (SELECT %s FROM (SELECT %s FROM %s ORDER BY %s DESC LIMIT ?) AS keep_rows)",
		constants.TableSchemaHistory, constants.ColumnID, constants.ColumnID, constants.ColumnID,
		constants.TableSchemaHistory, constants.ColumnID)
	selectHistorySQL = fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s DESC LIMIT ?",
		constants.ColumnVersion, constants.ColumnDocument, constants.TableSchemaHistory, constants.ColumnID)
)

const saveRetries = 3

// MySQLRepository stores the current schema in a single row and its history
// in an append-only table trimmed to constants.HistoryLimit rows.
type MySQLRepository struct {
	db     *sql.DB
	txm    *TransactionManager
	seed   SeedFunc
	logger *zap.Logger
}

// NewMySQLRepository creates a repository over an open connection pool
func NewMySQLRepository(db *sql.DB, seed SeedFunc, logger *zap.Logger) *MySQLRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQLRepository{db: db, txm: NewTransactionManager(db), seed: seed, logger: logger}
}

// EnsureTables creates the schema tables when missing
func (r *MySQLRepository) EnsureTables(ctx context.Context) error {
	for _, stmt := range []string{createSchemaTableSQL, createHistoryTableSQL} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return appErrors.NewInternalError("create schema tables", err)
		}
	}
	return nil
}

func (r *MySQLRepository) Load(ctx context.Context) (*models.OrgSchema, error) {
	var document string
	err := r.db.QueryRowContext(ctx, selectCurrentSQL, constants.CurrentSchemaRowID).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return seedOrEmpty(r.seed, time.Now()), nil
	}
	if err != nil {
		return nil, appErrors.NewInternalError("load schema", err)
	}

	schema, err := decode([]byte(document))
	if err != nil {
		return nil, appErrors.NewInternalError("decode schema", err)
	}
	return schema, nil
}

func (r *MySQLRepository) Save(ctx context.Context, schema *models.OrgSchema) error {
	document, err := encode(schema)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = r.txm.WithRetry(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertCurrentSQL,
			constants.CurrentSchemaRowID, schema.Version, string(document), now); err != nil {
			return fmt.Errorf("upsert current schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertHistorySQL, schema.Version, string(document), now); err != nil {
			return fmt.Errorf("append schema history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, trimHistorySQL, constants.HistoryLimit); err != nil {
			return fmt.Errorf("trim schema history: %w", err)
		}
		return nil
	}, saveRetries)
	if err != nil {
		return appErrors.NewInternalError("save schema", err)
	}
	return nil
}

func (r *MySQLRepository) History(ctx context.Context) ([]*models.OrgSchema, error) {
	rows, err := r.db.QueryContext(ctx, selectHistorySQL, constants.HistoryLimit)
	if err != nil {
		return nil, appErrors.NewInternalError("query schema history", err)
	}
	defer rows.Close()

	history := make([]*models.OrgSchema, 0, constants.HistoryLimit)
	for rows.Next() {
		var version int
		var document string
		if err := rows.Scan(&version, &document); err != nil {
			return nil, appErrors.NewInternalError("scan schema history", err)
		}
		snap, err := decode([]byte(document))
		if err != nil {
			r.logger.Warn("Skipping unreadable schema snapshot", zap.Int("version", version), zap.Error(err))
			continue
		}
		history = append(history, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewInternalError("iterate schema history", err)
	}
	return history, nil
}

func (r *MySQLRepository) Rollback(ctx context.Context, version int, at time.Time) (*models.OrgSchema, error) {
	return rollback(ctx, r, version, at)
}
