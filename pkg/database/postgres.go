package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/config"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zapadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
	"time"
)

var ErrNotConfigured = errors.New("postgres pool is not configured")

const createTableSQL = `create table if not exists registration_rows (
	id              bigserial primary key,
	submission_id   text not null,
	submitted_at    text not null,
	team_size       text not null,
	position        text not null,
	role            text not null,
	full_name       text not null,
	age             text not null,
	gender          text not null,
	primary_phone   text not null,
	secondary_phone text not null,
	team_id         text not null,
	payment_status  text not null,
	created_at      timestamptz not null default now()
);`

const insertRowSQL = `insert into registration_rows (submission_id, submitted_at, team_size, position, role,
	full_name, age, gender, primary_phone, secondary_phone, team_id, payment_status)
	values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

// ROW_COLUMNS is the number of cells taken from a registration row.
const ROW_COLUMNS = 11

// Postgres is an append-only sink. Rows are never updated or deduplicated.
type Postgres struct {
	Pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{Pool: pool, logger: logger}
}

func PoolCreation(ctx context.Context, logger *zap.Logger, conf *config.Entity) (*pgxpool.Pool, error) {
	dbConf, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		conf.DB.User, conf.DB.Pass, conf.DB.Hostname, conf.DB.Port, conf.DB.Name))
	if err != nil {
		return nil, fmt.Errorf("poolCreation failed: %w", err)
	}
	dbConf.ConnConfig.Logger = zapadapter.NewLogger(logger)
	dbConf.ConnConfig.LogLevel = pgx.LogLevelError
	dbConf.MaxConnIdleTime = time.Second * 10
	if conf.DB.MaxConns > 0 {
		dbConf.MaxConns = conf.DB.MaxConns
	}
	if conf.DB.MinConns > 0 {
		dbConf.MinConns = conf.DB.MinConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, dbConf)
	if err != nil {
		return nil, fmt.Errorf("poolCreation failed: %w", err)
	}

	return pool, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("Migrate failed: %w", err)
	}
	return nil
}

func (p *Postgres) Ready() error {
	if p == nil || p.Pool == nil {
		return ErrNotConfigured
	}
	return nil
}

func (p *Postgres) Append(ctx context.Context, submissionID string, rows [][]interface{}) (int, error) {
	if err := p.Ready(); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertRowSQL, rowArgs(submissionID, row)...)
	}

	results := p.Pool.SendBatch(ctx, batch)
	defer results.Close()

	count := 0
	for range rows {
		if _, err := results.Exec(); err != nil {
			return count, fmt.Errorf("batch insert failed after %d rows: %w", count, err)
		}
		count++
	}

	p.logger.Info("rows inserted", zap.String("submission_id", submissionID), zap.Int("rows", count))
	return count, nil
}

// rowArgs stores every cell as text, the way a spreadsheet would display it.
func rowArgs(submissionID string, row []interface{}) []interface{} {
	args := make([]interface{}, 0, ROW_COLUMNS+1)
	args = append(args, submissionID)
	for i := 0; i < ROW_COLUMNS; i++ {
		if i < len(row) && row[i] != nil {
			args = append(args, fmt.Sprint(row[i]))
			continue
		}
		args = append(args, "")
	}
	return args
}
