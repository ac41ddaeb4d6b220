package natshandler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ohowland/digilab/internal/pkg/config"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/msg"
	"go.uber.org/zap"

	nats "github.com/nats-io/nats.go"
)

// Handler forwards every published grade report to a NATS subject.
type Handler struct {
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config.NATS
	logger *zap.Logger
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// New subscribes a handler to the report topic of system.
func New(cfg config.NATS, system msg.Publisher, logger *zap.Logger) (*Handler, error) {
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
		logger: logger.Named("[NATS client]"),
	}, nil
}

// PID is the handler's subscriber id.
func (h Handler) PID() uuid.UUID {
	return h.pid
}

// Subject is where a report for task is published: the configured prefix
// followed by the task id with slashes turned into tokens.
func (h Handler) Subject(task string) string {
	token := strings.NewReplacer("/", ".", " ", "_").Replace(task)
	if token == "" {
		token = "unknown"
	}
	return h.config.Subject + "." + token
}

// Process publishes reports until the inbox closes.
func (h *Handler) Process() error {
	nc, err := nats.Connect(h.config.Server)
	if err != nil {
		return fmt.Errorf("connect %s: %w", h.config.Server, err)
	}
	defer nc.Close()

	h.logger.Info("process started", zap.String("server", h.config.Server))
	for m := range h.inbox {
		if err := h.forward(nc, m); err != nil {
			h.logger.Error("unable to publish to nats server", zap.Error(err))
		}
	}
	h.logger.Info("process shutdown")
	return nil
}

func (h Handler) forward(p publisher, m msg.Msg) error {
	r, ok := m.Payload().(grade.Report)
	if !ok {
		return fmt.Errorf("bad payload type %T", m.Payload())
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return p.Publish(h.Subject(r.Task), data)
}
