package rpc

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weidex/core/events"
	"weidex/core/types"
	"weidex/native/crowdsale"
	"weidex/native/exchange"
	"weidex/native/fees"
	"weidex/native/orders"
)

// Backend is the query surface the server reads from. *core.Processor
// satisfies it.
type Backend interface {
	Height() (uint64, error)
	Balance(user, asset common.Address) (*big.Int, error)
	Referral(user common.Address) (common.Address, bool, error)
	Fill(hash common.Hash) (*big.Int, error)
	Cancelled(hash common.Hash) (bool, error)
	OrdersInfo(taker common.Address, list []*orders.Order) ([]exchange.OrderInfo, error)
	Crowdsale(asset common.Address) (*crowdsale.Crowdsale, error)
	Contribution(asset, user common.Address) (*big.Int, error)
	ContributionStatus(asset, user common.Address, amount *big.Int) (crowdsale.ContributionStatus, error)
	FeeRates() (fees.Schedule, error)
	Owner() (common.Address, error)
	MethodEnabled(method string) (bool, error)
	Events() []*types.Event
}

// EventArchive serves historical events beyond the in-memory log.
type EventArchive interface {
	Recent(ctx context.Context, eventType string, limit int) ([]*types.Event, error)
}

// Options configures optional server features.
type Options struct {
	Logger      *slog.Logger
	ServiceName string
	Hub         *events.Hub
	Archive     EventArchive
	RateLimit   RateLimit
	// MaxOrders caps the orders accepted by the status query. Zero means
	// DefaultMaxOrders.
	MaxOrders int
}

// DefaultMaxOrders bounds a single order status query.
const DefaultMaxOrders = 64

// Server exposes the exchange state over HTTP.
type Server struct {
	backend   Backend
	logger    *slog.Logger
	hub       *events.Hub
	archive   EventArchive
	limiter   *RateLimiter
	tracing   *Tracing
	maxOrders int
	router    chi.Router
}

// NewServer builds the router for backend.
func NewServer(backend Backend, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.ServiceName
	if name == "" {
		name = "weidexd"
	}
	maxOrders := opts.MaxOrders
	if maxOrders <= 0 {
		maxOrders = DefaultMaxOrders
	}
	s := &Server{
		backend:   backend,
		logger:    logger.With(slog.String("component", "rpc")),
		hub:       opts.Hub,
		archive:   opts.Archive,
		limiter:   NewRateLimiter(opts.RateLimit),
		tracing:   NewTracing(name),
		maxOrders: maxOrders,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(s.limiter.Middleware)
		v1.Use(s.tracing.Middleware)

		v1.Get("/height", s.handleHeight)
		v1.Get("/fees", s.handleFees)
		v1.Get("/methods/{method}", s.handleMethod)
		v1.Get("/balances/{user}/{asset}", s.handleBalance)
		v1.Get("/referrals/{user}", s.handleReferral)
		v1.Get("/orders/{hash}", s.handleOrder)
		v1.Post("/orders/status", s.handleOrdersStatus)
		v1.Get("/crowdsales/{asset}", s.handleCrowdsale)
		v1.Get("/crowdsales/{asset}/contributions/{user}", s.handleContribution)
		v1.Get("/events", s.handleEvents)
		v1.Get("/events/stream", s.handleEventStream)
	})
	return r
}
