package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ohowland/digilab/internal/pkg/config"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/msg"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const collection = "reports"

// Handler upserts every published grade report into MongoDB.
type Handler struct {
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config.Mongo
	logger *zap.Logger
}

// New subscribes a handler to the report topic of system.
func New(cfg config.Mongo, system msg.Publisher, logger *zap.Logger) (*Handler, error) {
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
		logger: logger.Named("[Mongo]"),
	}, nil
}

// PID is the handler's subscriber id.
func (h Handler) PID() uuid.UUID {
	return h.pid
}

// URI joins the configured address and port.
func (h Handler) URI() string {
	if h.config.Port == "" {
		return h.config.URI
	}
	return h.config.URI + ":" + h.config.Port
}

func reportFilter(r grade.Report) bson.D {
	return bson.D{{Key: "_id", Value: r.ID.String()}}
}

//TODO: ids are stored as strings; store them as binary subtype 0x04 once the
// gradebook queries can read both.
func reportToBSON(r grade.Report) bson.D {
	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}
	messages := r.Messages
	if messages == nil {
		messages = []string{}
	}
	return bson.D{
		{Key: "$set", Value: bson.M{
			"student":   r.Student,
			"task":      r.Task,
			"title":     r.Title,
			"score":     r.Score,
			"max":       r.Max,
			"messages":  messages,
			"error":     errText,
			"graded_at": r.GradedAt,
		}},
	}
}

// Process upserts reports until the inbox closes.
func (h *Handler) Process() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(h.URI()))
	cancel()
	if err != nil {
		return fmt.Errorf("connect %s: %w", h.URI(), err)
	}
	defer client.Disconnect(context.Background())

	reports := client.Database(h.config.Database).Collection(collection)
	h.logger.Info("process started", zap.String("database", h.config.Database))
	h.consume(reports)
	h.logger.Info("process shutdown")
	return nil
}

type upserter interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// consume upserts reports until the inbox closes.
func (h *Handler) consume(reports upserter) {
	for m := range h.inbox {
		r, ok := m.Payload().(grade.Report)
		if !ok {
			h.logger.Warn("bad payload type", zap.String("type", fmt.Sprintf("%T", m.Payload())))
			continue
		}
		if err := storeReport(reports, r); err != nil {
			h.logger.Error("upsert report", zap.Stringer("report", r.ID), zap.Error(err))
		}
	}
}

func storeReport(reports upserter, r grade.Report) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := reports.UpdateOne(ctx, reportFilter(r), reportToBSON(r), options.Update().SetUpsert(true))
	return err
}
