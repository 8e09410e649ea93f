package lsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"
)

const netPeerAddressKey = attribute.Key("net.peer.address")

func NewInstance(cfg *Config) (*Instance, error) {
	driver, err := cfg.DriverName()
	if err != nil {
		return nil, err
	}

	var db *sqlx.DB
	err = retry.Do(
		func() error {
			var connectErr error
			db, connectErr = sqlx.Connect(driver, cfg.FullAddress())
			return connectErr
		},
		retry.Attempts(maxUint(cfg.ConnectAttempts, 1)),
		retry.Delay(cfg.ConnectDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("failed to connect to %s database (attempt %d): %s", cfg.Engine, n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(cfg.MaxLifetime)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	tracer := otel.Tracer("lsql")

	return &Instance{
		cfg:    cfg,
		db:     db,
		tracer: tracer,
	}, nil
}

func maxUint(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}

type Instance struct {
	cfg    *Config
	db     *sqlx.DB
	tracer trace.Tracer
}

func (db *Instance) GetDatabaseEngine() string {
	return strings.ToLower(db.cfg.Engine)
}

func (db *Instance) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *Instance) Close() error {
	return db.db.Close()
}

func startSpan(ctx context.Context, db *Instance, spanName string, query string) (context.Context, trace.Span) {
	return db.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBStatementKey.String(query),
			semconv.DBSystemKey.String(db.GetDatabaseEngine()),
			netPeerAddressKey.String(db.cfg.Address),
			semconv.PeerServiceKey.String(fmt.Sprintf("%s[%s(%s)]", db.cfg.DatabaseName, db.GetDatabaseEngine(), db.cfg.Address)),
		))
}

// prepare expands IN (?) clauses and rebinds placeholders for the engine's driver.
func (db *Instance) prepare(query string, args []interface{}) (string, []interface{}, error) {
	if len(args) > 0 {
		var err error
		query, args, err = sqlx.In(query, args...)
		if err != nil {
			return "", nil, err
		}
	}
	return db.db.Rebind(query), args, nil
}

func (db *Instance) QueryRowContext(ctx context.Context, query string, args ...interface{}) *Row {
	ctx, span := startSpan(ctx, db, "QueryRowContext", query)
	defer span.End()

	if isTransaction(ctx) {
		return &Row{err: ErrTransactionContext}
	}

	finalQuery, args, err := db.prepare(query, args)
	if err != nil {
		return &Row{err: err}
	}
	return &Row{row: db.db.QueryRowxContext(ctx, finalQuery, args...)}
}

func (db *Instance) QueryContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	ctx, span := startSpan(ctx, db, "QueryContext", query)
	defer span.End()

	if isTransaction(ctx) {
		return nil, ErrTransactionContext
	}

	finalQuery, args, err := db.prepare(query, args)
	if err != nil {
		return nil, err
	}
	return db.db.QueryxContext(ctx, finalQuery, args...)
}

func (db *Instance) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, span := startSpan(ctx, db, "ExecContext", query)
	defer span.End()

	if isTransaction(ctx) {
		return nil, ErrTransactionContext
	}

	finalQuery, args, err := db.prepare(query, args)
	if err != nil {
		return nil, err
	}
	return db.db.ExecContext(ctx, finalQuery, args...)
}

func (db *Instance) InsertReturningId(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return InsertReturningId(ctx, db, query, args...)
}

// ctxQuerier propagates either a Tx or an Instance into InsertReturningId.
type ctxQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *Row
}

// InsertReturningId runs an INSERT and scans the generated id. The query must not carry its
// own RETURNING clause. sqlite (3.35+) and postgres both accept RETURNING, so no LastInsertId
// fallback is needed.
func InsertReturningId(ctx context.Context, q ctxQuerier, query string, args ...interface{}) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
	if err != nil {
		log.Printf("failed to save to database - %s", err)
		return 0, err
	}
	return id, nil
}
