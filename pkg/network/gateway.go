package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/matchmaking"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/cbodonnell/pongd/pkg/metrics"
	"github.com/cbodonnell/pongd/pkg/users"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// MatchRegistry resolves the live matches by id.
type MatchRegistry interface {
	Get(id uint32) (*game.Match, bool)
}

// QueueReporter is told when players enter or leave the matchmaking queue.
// Implementations must not block.
type QueueReporter interface {
	PlayerInQueue(playerID string, inQueue bool)
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Gateway terminates the client websockets and routes their frames.
type Gateway struct {
	router   *mux.Router
	upgrader websocket.Upgrader
	flood    *FloodGuard
	handlers map[messages.Type]handlerFunc

	queue    *matchmaking.Queue
	matches  MatchRegistry
	users    users.Service
	reporter QueueReporter
	metrics  *metrics.Metrics

	partiesLock sync.RWMutex
	parties     map[string]*matchmaking.Party
}

type NewGatewayOptions struct {
	MaxConnectionsPerAddress int
	Queue                    *matchmaking.Queue
	Matches                  MatchRegistry
	Users                    users.Service
	Reporter                 QueueReporter
	Metrics                  *metrics.Metrics
}

func NewGateway(opts NewGatewayOptions) *Gateway {
	queue := opts.Queue
	if queue == nil {
		queue = matchmaking.NewQueue()
	}
	g := &Gateway{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		flood:    NewFloodGuard(opts.MaxConnectionsPerAddress),
		queue:    queue,
		matches:  opts.Matches,
		users:    opts.Users,
		reporter: opts.Reporter,
		metrics:  opts.Metrics,
		parties:  map[string]*matchmaking.Party{},
	}
	g.handlers = g.dispatchTable()
	g.router = g.routes()
	return g
}

func (g *Gateway) routes() *mux.Router {
	r := mux.NewRouter()
	if g.metrics != nil {
		r.Handle("/metrics", g.metrics.Handler()).Methods(http.MethodGet)
	}
	r.PathPrefix("/").
		MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
			return websocket.IsWebSocketUpgrade(r)
		}).
		HandlerFunc(g.serveWS)
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(notFound)
	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "not found\n")
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

func (g *Gateway) FloodGuard() *FloodGuard {
	return g.flood
}

func (g *Gateway) Queue() *matchmaking.Queue {
	return g.queue
}

// Start serves the gateway on port until ctx is done.
func (g *Gateway) Start(ctx context.Context, port int, tls *TLSConfig) error {
	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{Addr: addr, Handler: g}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			log.Warn("Gateway shutdown: %v", err)
		}
	}()

	var err error
	if tls != nil {
		log.Info("Gateway listening on %s with TLS", addr)
		err = server.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
	} else {
		log.Info("Gateway listening on %s", addr)
		err = server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		log.Info("Gateway closed")
		return nil
	}
	return err
}

func sourceAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
