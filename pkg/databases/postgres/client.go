package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/interfaces"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second

	driverName = "postgres"
	idColumn   = "id"
)

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
// Table and column names are checked against the configured allow lists
// before they are spliced into a statement.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	validTables     map[string]bool
	validFields     map[string]bool
}

// NewPostgresDatabaseClient creates an unconnected client; call Connect before use.
func NewPostgresDatabaseClient(cfg *config.PostgresConfig) interfaces.DBClient {
	p := &PostgresDatabaseClient{
		MaxOpenConns:    cfg.Options.MaxOpenConns,
		MaxIdleConns:    cfg.Options.MaxIdleConns,
		ConnMaxLifetime: cfg.Options.ConnMaxLifetime,
		validTables:     config.ListToMap(cfg.ValidTables),
		validFields:     config.ListToMap(cfg.ValidFields),
	}
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = DefaultMaxOpenConns
	}
	if p.MaxIdleConns <= 0 {
		p.MaxIdleConns = DefaultMaxIdleConns
	}
	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return p
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	var err error
	p.db, err = sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	return p.Ping(ctx)
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// InsertOne inserts a single row. 'document' is expected to be a
// map[string]interface{}; an "id" UUID is generated when absent.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	if err := p.checkConnected(); err != nil {
		return nil, err
	}
	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}

	row := make(map[string]interface{}, len(docMap)+1)
	for k, v := range docMap {
		row[k] = v
	}
	if _, exists := row[idColumn]; !exists {
		row[idColumn] = uuid.New().String()
	}

	query, values, err := p.buildInsert(tableName, row)
	if err != nil {
		return nil, err
	}

	var insertedID string
	if err := p.db.QueryRowContext(ctx, query, values...).Scan(&insertedID); err != nil {
		return nil, err
	}
	return insertedID, nil
}

// FindOne scans the first row matching filter into result, a pointer to a
// struct whose `db` tags name the columns. No match yields interfaces.ErrNoDocument.
func (p *PostgresDatabaseClient) FindOne(ctx context.Context, tableName string, filter interfaces.Document, result interfaces.Document) error {
	if err := p.checkConnected(); err != nil {
		return err
	}
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return fmt.Errorf("PostgreSQL FindOne requires a non-empty filter")
	}

	columns, fieldPointers, err := scanTargets(result)
	if err != nil {
		return err
	}
	for _, col := range columns {
		if !p.validFields[col] {
			return fmt.Errorf("PostgreSQL FindOne: invalid column name: %s", col)
		}
	}

	query, values, err := p.buildSelect(tableName, columns, filterMap)
	if err != nil {
		return err
	}

	err = p.db.QueryRowContext(ctx, query, values...).Scan(fieldPointers...)
	if errors.Is(err, sql.ErrNoRows) {
		return interfaces.ErrNoDocument
	}
	return err
}

// DeleteOne deletes the rows matching filter and returns how many were removed.
func (p *PostgresDatabaseClient) DeleteOne(ctx context.Context, tableName string, filter interfaces.Document) (int64, error) {
	if err := p.checkConnected(); err != nil {
		return 0, err
	}
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("PostgreSQL DeleteOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return 0, fmt.Errorf("PostgreSQL DeleteOne requires a non-empty filter")
	}

	query, values, err := p.buildDelete(tableName, filterMap)
	if err != nil {
		return 0, err
	}

	res, err := p.db.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if err := p.checkConnected(); err != nil {
		return err
	}
	return p.db.PingContext(ctx)
}

// EnsureSchema executes schema, which must be a CREATE TABLE statement string.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, schema interfaces.Document) error {
	if err := p.checkConnected(); err != nil {
		return err
	}
	if !p.validTables[tableName] {
		return fmt.Errorf("PostgreSQL EnsureSchema: invalid table name: %s", tableName)
	}
	createStmt, ok := schema.(string)
	if !ok || createStmt == "" {
		return fmt.Errorf("PostgreSQL EnsureSchema expects schema to be a CREATE TABLE statement string")
	}
	_, err := p.db.ExecContext(ctx, createStmt)
	return err
}

func (p *PostgresDatabaseClient) checkConnected() error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return nil
}

func (p *PostgresDatabaseClient) buildInsert(tableName string, row map[string]interface{}) (string, []interface{}, error) {
	if !p.validTables[tableName] {
		return "", nil, fmt.Errorf("invalid table name: %s", tableName)
	}
	columns := sortedKeys(row)
	placeholders := make([]string, len(columns))
	values := make([]interface{}, len(columns))
	for i, col := range columns {
		if !p.validFields[col] {
			return "", nil, fmt.Errorf("invalid column name: %s", col)
		}
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		values[i] = row[col]
	}

	// Table and column names were checked against the allow lists above.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		idColumn,
	) // #nosec G201
	return query, values, nil
}

func (p *PostgresDatabaseClient) buildSelect(tableName string, columns []string, filter map[string]interface{}) (string, []interface{}, error) {
	if !p.validTables[tableName] {
		return "", nil, fmt.Errorf("invalid table name: %s", tableName)
	}
	where, values, err := p.buildWhere(filter)
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(columns, ", "),
		tableName,
		where,
	) // #nosec G201
	return query, values, nil
}

func (p *PostgresDatabaseClient) buildDelete(tableName string, filter map[string]interface{}) (string, []interface{}, error) {
	if !p.validTables[tableName] {
		return "", nil, fmt.Errorf("invalid table name: %s", tableName)
	}
	where, values, err := p.buildWhere(filter)
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", tableName, where) // #nosec G201
	return query, values, nil
}

func (p *PostgresDatabaseClient) buildWhere(filter map[string]interface{}) (string, []interface{}, error) {
	columns := sortedKeys(filter)
	clauses := make([]string, len(columns))
	values := make([]interface{}, len(columns))
	for i, col := range columns {
		if !p.validFields[col] {
			return "", nil, fmt.Errorf("invalid column name: %s", col)
		}
		clauses[i] = fmt.Sprintf("%s = $%d", col, i+1)
		values[i] = filter[col]
	}
	return strings.Join(clauses, " AND "), values, nil
}

// scanTargets returns the column names (from `db` tags, falling back to the
// lower-cased field name) and field pointers of the struct behind result.
func scanTargets(result interfaces.Document) ([]string, []interface{}, error) {
	resultValue := reflect.ValueOf(result)
	if resultValue.Kind() != reflect.Ptr || resultValue.Elem().Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("result must be a pointer to a struct")
	}
	elem := resultValue.Elem()
	elemType := elem.Type()

	columns := make([]string, 0, elem.NumField())
	pointers := make([]interface{}, 0, elem.NumField())
	for i := 0; i < elem.NumField(); i++ {
		field := elemType.Field(i)
		if !field.IsExported() {
			continue
		}
		column := field.Tag.Get("db")
		if column == "-" {
			continue
		}
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		columns = append(columns, column)
		pointers = append(pointers, elem.Field(i).Addr().Interface())
	}
	return columns, pointers, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
