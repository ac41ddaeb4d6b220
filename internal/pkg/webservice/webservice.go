package webservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/ohowland/digilab/internal/pkg/msg"
	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/submission"
	"github.com/ohowland/digilab/internal/pkg/task"
	"go.uber.org/zap"
)

const (
	contentType   = "application/json; charset=UTF-8"
	maxUploadSize = 4 << 20
	writeWait     = 5 * time.Second
)

// App grades submissions over HTTP and publishes every report on System.
type App struct {
	System   *msg.PubSub
	Solver   network.Solver
	Logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New returns an App. solver may be nil, in which case tasks that need a
// power flow cannot run one.
func New(system *msg.PubSub, solver network.Solver, logger *zap.Logger) *App {
	return &App{
		System:   system,
		Solver:   solver,
		Logger:   logger.Named("[Webservice]"),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// Router wires the HTTP routes.
func (app *App) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", app.BaseHandler).Methods("GET")
	r.HandleFunc("/tasks", app.TasksHandler).Methods("GET")
	r.HandleFunc("/tasks/{task:.+}/submissions", app.SubmissionHandler).Methods("POST")
	r.HandleFunc("/ws", app.ScoreboardHandler)
	return r
}

// BaseHandler answers health checks.
func (app *App) BaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
}

// TasksHandler lists the gradable tasks.
func (app *App) TasksHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, task.List())
}

type errorBody struct {
	Error string `json:"error"`
}

// SubmissionHandler grades the submission in the request body.
func (app *App) SubmissionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["task"]
	if _, err := task.Lookup(id); err != nil {
		app.writeJSON(w, http.StatusNotFound, errorBody{err.Error()})
		return
	}

	sub, err := submission.Decode(http.MaxBytesReader(w, r.Body, maxUploadSize), submission.JSON)
	if err != nil {
		app.writeJSON(w, http.StatusBadRequest, errorBody{err.Error()})
		return
	}

	report, err := task.Run(id, sub, app.Solver)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, task.ErrUnknownTask) {
			status = http.StatusNotFound
		}
		app.writeJSON(w, status, errorBody{err.Error()})
		return
	}

	app.Logger.Info("graded",
		zap.String("task", report.Task),
		zap.String("student", report.Student),
		zap.Int("score", report.Score),
		zap.Int("max", report.Max))
	app.System.Publish(msg.Report, report)
	app.writeJSON(w, http.StatusOK, report)
}

// ScoreboardHandler streams every published report over a websocket.
func (app *App) ScoreboardHandler(w http.ResponseWriter, r *http.Request) {
	pid, err := uuid.NewUUID()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// subscribe before the handshake completes so no report is missed
	ch, err := app.System.Subscribe(pid, msg.Report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer app.System.Unsubscribe(pid)

	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m.Payload()); err != nil {
				app.Logger.Debug("scoreboard client gone", zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}

func (app *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		app.Logger.Error("malformed JSON", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		app.Logger.Debug("write response", zap.Error(err))
	}
}
