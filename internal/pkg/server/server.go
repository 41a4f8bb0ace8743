package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"place/internal/pkg/admission"
	"place/internal/pkg/board"
	"place/internal/pkg/log"
	"place/internal/pkg/metrics"
	"place/internal/pkg/protocol"
	"place/internal/pkg/session"
	"place/internal/pkg/stats"
	"place/internal/pkg/throttle"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultDim is the board dimension used when none is configured.
const DefaultDim = 10

const handshakeTimeout = 30 * time.Second

// Server is the broadcast core: it accepts connections, drives each
// session's handshake, applies validated changes to the board under the
// exclusion lock, and fans committed tiles out to every joined session.
type Server struct {
	port           uint16
	dim            int
	changeInterval time.Duration
	reportPath     string

	// mu is the one shared critical section: it covers "insert into
	// registry and snapshot the board" as one atomic unit during join,
	// and "apply to board and enqueue the fan-out" during a change, so
	// every queue sees changes in commit order. Network writes never
	// happen under it.
	mu       sync.Mutex
	board    *board.Board
	registry *session.Registry
	gate     *admission.Gate
	recorder *stats.Recorder
	metrics  *metrics.Metrics

	prom     *prometheus.Registry
	upgrader websocket.Upgrader
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithPort sets the listen port.
func WithPort(port uint16) Cfg {
	return func(s *Server) error {
		s.port = port
		return nil
	}
}

// WithDim sets the board dimension.
func WithDim(dim int) Cfg {
	return func(s *Server) error {
		if dim < 1 {
			return errors.New("dimension must be >= 1")
		}
		s.dim = dim
		return nil
	}
}

// WithAdmissionInterval sets the admission gate interval. Zero disables
// the gate.
func WithAdmissionInterval(interval time.Duration) Cfg {
	return func(s *Server) error {
		s.gate = admission.NewGate(interval)
		return nil
	}
}

// WithChangeInterval sets the per-session change throttle interval.
// Zero disables the throttle.
func WithChangeInterval(interval time.Duration) Cfg {
	return func(s *Server) error {
		s.changeInterval = interval
		return nil
	}
}

// WithReportPath sets where the statistics report is written on shutdown.
func WithReportPath(path string) Cfg {
	return func(s *Server) error {
		s.reportPath = path
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	server := &Server{
		dim:            DefaultDim,
		changeInterval: throttle.DefaultInterval,
		gate:           admission.NewGate(admission.DefaultInterval),
		reportPath:     stats.DefaultReportPath,
		registry:       session.NewRegistry(),
		prom:           prometheus.NewRegistry(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, cfg := range cfgs {
		if err := cfg(server); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	server.board = board.New(server.dim)
	server.recorder = stats.NewRecorder(server.board)
	server.metrics = metrics.New(server.prom)
	return server, nil
}

// Board returns the authoritative board. Tests compare replayed client
// state against it.
func (s *Server) Board() *board.Board {
	return s.board
}

// Recorder returns the statistics recorder.
func (s *Server) Recorder() *stats.Recorder {
	return s.recorder
}

// Handler returns the HTTP surface: the canvas protocol on /ws, liveness
// on /healthz, Prometheus metrics on /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.prom, promhttp.HandlerOpts{}))
	return r
}

// Run serves the canvas until ctx is cancelled, then drains every
// session and writes the statistics report. A bind failure is fatal and
// returned immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return errors.Wrapf(err, "listen on port %d failed", s.port)
	}
	httpServer := &http.Server{Handler: s.Handler()}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()
	logger.WithField("port", s.port).Info("waiting for connections")

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "serve failed")
	case <-ctx.Done():
	}

	logger.Info("server closing")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http shutdown failed")
	}
	for _, sess := range s.registry.Members() {
		sess.Close()
	}
	if err := s.recorder.WriteFile(s.reportPath, time.Now()); err != nil {
		return errors.Wrap(err, "write statistics report failed")
	}
	return nil
}

// handleWS admits, upgrades and serves one connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	origin := remoteHost(r.RemoteAddr)
	if !s.gate.Admit(origin, time.Now()) {
		s.metrics.ConnectionsDenied.Inc()
		logger.WithField("origin", origin).Info("connection denied by admission gate")
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Debug("websocket upgrade failed")
		return
	}
	s.metrics.ConnectionsTotal.Inc()
	logger.WithField("origin", origin).Info("incoming connection")
	sess := session.New(conn)
	go s.serve(sess)
}

// serve runs one connection's worker: handshake, then the change loop.
func (s *Server) serve(sess *session.Session) {
	defer sess.Close()

	name, err := s.handshake(sess)
	if err != nil {
		logger.WithError(err).Info("handshake failed")
		return
	}
	go sess.WriteLoop()
	logger.WithField("name", name).Info("user connected")

	limiter := throttle.NewLimiter(s.changeInterval)
	for {
		msg, err := sess.Receive()
		if err != nil {
			logger.WithField("name", name).WithError(err).Debug("receive failed")
			break
		}
		switch msg.Kind {
		case protocol.KindChangeTile:
			s.handleChange(sess, limiter, msg.ChangeTile)
		default:
			// anything but a change request is out of order once joined
			logger.WithFields(log.MessageToFields(msg)).Warn("unexpected message, closing session")
			return
		}
	}
	logger.WithField("name", name).Info("user disconnected")
}

// handshake reads the login request and either joins the session or
// rejects it. On success the session has been registered and its first
// queued message is the board snapshot.
func (s *Server) handshake(sess *session.Session) (string, error) {
	sess.SetReadDeadline(time.Now().Add(handshakeTimeout))
	msg, err := sess.Receive()
	if err != nil {
		return "", errors.Wrap(err, "receive login failed")
	}
	sess.SetState(session.Authenticating)
	if msg.Kind != protocol.KindLogin {
		return "", errors.Errorf("first message must be %s, got %s", protocol.KindLogin, msg.Kind)
	}
	name := msg.Login.Name
	if name == "" {
		sess.Send(protocol.NewError("Display name must not be empty!"))
		return "", errors.New("empty display name")
	}
	if err := s.joinAndSnapshot(name, sess); err != nil {
		s.metrics.LoginsRejected.Inc()
		sess.Send(protocol.NewError("Username already taken!"))
		return "", errors.Wrapf(err, "join %q failed", name)
	}
	sess.SetReadDeadline(time.Time{})
	return name, nil
}

// joinAndSnapshot registers the session and hands it a consistent board
// snapshot as one atomic step. Holding mu across both means every change
// applied after this point is broadcast to the new session, and every
// change applied before it is already in the snapshot: the client's view
// is exactly snapshot plus stream, with no gap and no duplication.
func (s *Server) joinAndSnapshot(name string, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registry.TryJoin(name, sess) {
		return session.ErrNameTaken
	}
	sess.Name = name
	sess.SetState(session.Joined)
	sess.OnClose(s.drop)
	sess.Enqueue(protocol.NewLoginSuccess(name))
	sess.Enqueue(protocol.NewBoard(s.board.Snapshot()))
	s.metrics.SessionsActive.Inc()
	return nil
}

// drop removes a closed session from the registry. Removal is
// synchronous with the close and idempotent.
func (s *Server) drop(sess *session.Session) {
	s.registry.Leave(sess.Name)
	s.metrics.SessionsActive.Dec()
}

// handleChange applies one validated, rate-limited change and broadcasts
// the committed tile.
func (s *Server) handleChange(sess *session.Session, limiter *throttle.Limiter, req *protocol.ChangeTile) {
	if !limiter.Allow(time.Now()) {
		s.metrics.ChangesThrottled.Inc()
		logger.WithField("name", sess.Name).Debug("change throttled")
		return
	}
	change := board.Change{
		Row:   req.Row,
		Col:   req.Col,
		Color: req.Color,
		Owner: sess.Name,
	}
	s.mu.Lock()
	if !s.board.Validate(change) {
		s.mu.Unlock()
		s.metrics.ChangesInvalid.Inc()
		logger.WithField("name", sess.Name).Debug("change out of range")
		return
	}
	tile := s.board.Apply(change)
	s.recorder.Record(tile)
	s.broadcast(protocol.NewTileChanged(tile))
	s.mu.Unlock()

	s.metrics.TileChangesTotal.Inc()
	logger.WithFields(log.TileToFields(tile)).Debug("tile changed")
}

// broadcast enqueues the message to every joined session, including the
// author. It runs under mu so changes reach every queue in commit
// order, but it only ever enqueues: the per-session queues drain to the
// network asynchronously, so a slow or broken peer only hurts itself. A
// session whose queue is full is closed.
func (s *Server) broadcast(msg protocol.Message) {
	for _, member := range s.registry.Members() {
		if !member.Enqueue(msg) {
			s.metrics.BroadcastQueueFull.Inc()
			member.Close()
			continue
		}
		s.metrics.BroadcastsTotal.Inc()
	}
}

// remoteHost strips the port from a remote address.
func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
