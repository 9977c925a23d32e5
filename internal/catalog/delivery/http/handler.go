package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/normalize"
	"github.com/dropkit/storefront/internal/catalog/usecase/command"
	"github.com/dropkit/storefront/internal/catalog/usecase/query"
	"github.com/dropkit/storefront/pkg/logger"
)

// CatalogHandler handles HTTP requests for the storefront catalog using CQRS pattern
type CatalogHandler struct {
	// Command handlers
	createHandler     *command.CreateProductHandler
	updateHandler     *command.UpdateProductHandler
	deleteHandler     *command.DeleteProductHandler
	setBlockedHandler *command.SetBlockedHandler
	markSoldHandler   *command.MarkSoldHandler
	syncHandler       *command.SyncCatalogHandler

	// Query handlers
	getProductHandler   *query.GetProductHandler
	listCatalogHandler  *query.ListCatalogHandler
	listDropsHandler    *query.ListDropsHandler
	availabilityHandler *query.GetAvailabilityHandler
	statsHandler        *query.GetStatsHandler

	whatsAppNumber string

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
	soldProducts   prometheus.Gauge
	lockedProducts prometheus.Gauge
}

// NewCatalogHandler creates a new catalog handler with all dependencies.
// This is the constructor Wire builds.
func NewCatalogHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	setBlockedHandler *command.SetBlockedHandler,
	markSoldHandler *command.MarkSoldHandler,
	syncHandler *command.SyncCatalogHandler,
	getProductHandler *query.GetProductHandler,
	listCatalogHandler *query.ListCatalogHandler,
	listDropsHandler *query.ListDropsHandler,
	availabilityHandler *query.GetAvailabilityHandler,
	statsHandler *query.GetStatsHandler,
	whatsAppNumber WhatsAppNumber,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_requests_total",
			Help: "Total number of requests to the storefront service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_request_duration_seconds",
			Help:    "Duration of storefront requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "storefront_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_total_products",
			Help: "Total number of products in the catalog",
		},
	)
	soldProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_sold_out_products",
			Help: "Number of products currently sold out",
		},
	)
	lockedProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_locked_products",
			Help: "Number of products currently locked behind an unsold level",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(totalProducts)
	prometheus.MustRegister(soldProducts)
	prometheus.MustRegister(lockedProducts)

	return &CatalogHandler{
		createHandler:       createHandler,
		updateHandler:       updateHandler,
		deleteHandler:       deleteHandler,
		setBlockedHandler:   setBlockedHandler,
		markSoldHandler:     markSoldHandler,
		syncHandler:         syncHandler,
		getProductHandler:   getProductHandler,
		listCatalogHandler:  listCatalogHandler,
		listDropsHandler:    listDropsHandler,
		availabilityHandler: availabilityHandler,
		statsHandler:        statsHandler,
		whatsAppNumber:      string(whatsAppNumber),
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
		requestSummary:      requestSummary,
		totalProducts:       totalProducts,
		soldProducts:        soldProducts,
		lockedProducts:      lockedProducts,
	}
}

// WhatsAppNumber is the phone number purchase intents are routed to.
type WhatsAppNumber string

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	// Public routes (no auth required)
	router.HandleFunc("/api/auth/login", h.metricsMiddleware("/api/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/api/catalog", h.metricsMiddleware("/api/catalog", h.ListCatalog)).Methods("GET")
	router.HandleFunc("/api/catalog/drops", h.metricsMiddleware("/api/catalog/drops", h.ListDrops)).Methods("GET")
	router.HandleFunc("/api/catalog/availability", h.metricsMiddleware("/api/catalog/availability", h.GetAvailability)).Methods("GET")
	router.HandleFunc("/api/catalog/stats", h.metricsMiddleware("/api/catalog/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/catalog/products/{id}", h.metricsMiddleware("/api/catalog/products/{id}", h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/catalog/products/{id}/purchase-intent", h.metricsMiddleware("/api/catalog/products/{id}/purchase-intent", h.PurchaseIntent)).Methods("GET")

	// Admin routes (admin role required)
	router.HandleFunc("/api/catalog/sync", h.metricsMiddleware("/api/catalog/sync", AdminMiddleware(h.SyncCatalog))).Methods("POST")
	router.HandleFunc("/api/catalog/products", h.metricsMiddleware("/api/catalog/products", AdminMiddleware(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/catalog/products/{id}", h.metricsMiddleware("/api/catalog/products/{id}", AdminMiddleware(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/catalog/products/{id}", h.metricsMiddleware("/api/catalog/products/{id}", AdminMiddleware(h.DeleteProduct))).Methods("DELETE")
	router.HandleFunc("/api/catalog/products/{id}/blocked", h.metricsMiddleware("/api/catalog/products/{id}/blocked", AdminMiddleware(h.SetBlocked))).Methods("PATCH")
	router.HandleFunc("/api/catalog/products/{id}/sold", h.metricsMiddleware("/api/catalog/products/{id}/sold", AdminMiddleware(h.MarkSold))).Methods("POST")
}

// ListCatalog handles GET /api/catalog
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	view, err := h.listCatalogHandler.Handle(r.Context(), query.ListCatalogQuery{
		Params: r.URL.Query(),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load catalog")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load catalog",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// GetProduct handles GET /api/catalog/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to get product")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get product",
		})
		return
	}

	// A locked product is not an error: the client renders "not yet
	// available" with the level that unlocks it.
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// ListDrops handles GET /api/catalog/drops
func (h *CatalogHandler) ListDrops(w http.ResponseWriter, r *http.Request) {
	drops, err := h.listDropsHandler.Handle(query.ListDropsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list drops")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list drops",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"drops": drops},
	})
}

// GetAvailability handles GET /api/catalog/availability?drop=...
func (h *CatalogHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	dropID := r.URL.Query().Get("drop")
	if dropID == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Missing drop parameter",
		})
		return
	}

	states, err := h.availabilityHandler.Handle(r.Context(), query.GetAvailabilityQuery{DropID: dropID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("drop_id", dropID).Msg("Failed to compute availability")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to compute availability",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"drop_id": dropID,
			"states":  states,
		},
	})
}

// GetStats handles GET /api/catalog/stats
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get stats")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get statistics",
		})
		return
	}

	h.totalProducts.Set(float64(stats.Total))
	h.soldProducts.Set(float64(stats.SoldOut))
	h.lockedProducts.Set(float64(stats.Locked))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// PurchaseIntent handles GET /api/catalog/products/{id}/purchase-intent
func (h *CatalogHandler) PurchaseIntent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to build purchase intent")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build purchase intent",
		})
		return
	}

	if view.State != domain.StateAvailable {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   "Product is not available for purchase",
			Data:    view,
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"product_id": view.ID,
			"link":       WhatsAppLink(h.whatsAppNumber, view.Product),
		},
	})
}

// SyncCatalog handles POST /api/catalog/sync
func (h *CatalogHandler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	imported, err := h.syncHandler.Handle(r.Context(), command.SyncCatalogCommand{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Catalog sync failed")
		respondJSON(w, http.StatusBadGateway, Response{
			Success: false,
			Error:   "Could not load products from content source",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Catalog synchronized",
		Data:    map[string]interface{}{"imported": imported},
	})
}

// CreateProduct handles POST /api/catalog/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var record normalize.RawProduct
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.createHandler.Handle(command.CreateProductCommand{Record: record})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/catalog/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var record normalize.RawProduct
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.updateHandler.Handle(command.UpdateProductCommand{ID: id, Record: record})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to update product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/catalog/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.deleteHandler.Handle(command.DeleteProductCommand{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to delete product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// SetBlocked handles PATCH /api/catalog/products/{id}/blocked
func (h *CatalogHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	err := h.setBlockedHandler.Handle(command.SetBlockedCommand{ID: id, Blocked: req.Blocked})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to set blocked flag")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Blocked flag updated",
	})
}

// MarkSold handles POST /api/catalog/products/{id}/sold
func (h *CatalogHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.markSoldHandler.Handle(r.Context(), command.MarkSoldCommand{ProductID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to mark product sold")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product marked as sold",
	})
}

func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Storefront service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
