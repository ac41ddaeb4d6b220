package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ohowland/digilab/internal/pkg/config"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/msg"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Handler writes every published grade report to a SQL gradebook.
type Handler struct {
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config.Gradebook
	logger *zap.Logger
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// PID is the handler's subscriber id.
func (h Handler) PID() uuid.UUID {
	return h.pid
}

// New subscribes a handler to the report topic of system.
func New(cfg config.Gradebook, system msg.Publisher, logger *zap.Logger) (*Handler, error) {
	if cfg.Driver != "mysql" && cfg.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported gradebook driver %q", cfg.Driver)
	}
	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	inbox, err := system.Subscribe(pid, msg.Report)
	if err != nil {
		return nil, err
	}
	return &Handler{
		inbox:  inbox,
		pid:    pid,
		config: cfg,
		logger: logger.Named("[Gradebook]"),
	}, nil
}

// DSN is the driver connection string.
func (h Handler) DSN() string {
	c := h.config
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=disable", c.Username, c.Password, c.Server, c.Port, c.Database)
	default:
		return fmt.Sprintf("%v:%v@tcp(%v:%v)/%v?parseTime=true", c.Username, c.Password, c.Server, c.Port, c.Database)
	}
}

// DB opens the gradebook database.
func (h Handler) DB() (*sql.DB, error) {
	return sql.Open(h.config.Driver, h.DSN())
}

// Process stores reports until the inbox closes.
func (h *Handler) Process() error {
	db, err := h.DB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = initDBTables(ctx, db)
	cancel()
	if err != nil {
		return err
	}

	h.logger.Info("process started", zap.String("driver", h.config.Driver), zap.String("database", h.config.Database))
	for m := range h.inbox {
		r, ok := m.Payload().(grade.Report)
		if !ok {
			h.logger.Warn("bad payload type", zap.String("type", fmt.Sprintf("%T", m.Payload())))
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		if err := storeReport(ctx, db, h.config.Driver, r); err != nil {
			h.logger.Error("insert report", zap.Stringer("report", r.ID), zap.Error(err))
		}
		cancel()
	}
	h.logger.Info("process shutdown")
	return nil
}

const createTable = `CREATE TABLE IF NOT EXISTS grade_reports(
	id VARCHAR(36) PRIMARY KEY,
	student VARCHAR(64),
	task VARCHAR(32),
	score INTEGER,
	max_score INTEGER,
	messages TEXT,
	error TEXT,
	graded_at TIMESTAMP
)`

func initDBTables(ctx context.Context, db execer) error {
	_, err := db.ExecContext(ctx, createTable)
	return err
}

const insertReport = `INSERT INTO grade_reports (id, student, task, score, max_score, messages, error, graded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func storeReport(ctx context.Context, db execer, driver string, r grade.Report) error {
	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}
	_, err := db.ExecContext(ctx, rebind(driver, insertReport),
		r.ID.String(), r.Student, r.Task, r.Score, r.Max,
		strings.Join(r.Messages, "\n"), errText, r.GradedAt)
	return err
}

// rebind rewrites ? placeholders as $n for postgres.
func rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
