package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuthOps counts auth service outcomes by operation and result.
	AuthOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wishbase",
		Name:      "auth_operations_total",
		Help:      "Auth operations by operation and result.",
	}, []string{"operation", "result"})

	// WishlistOps counts wishlist mutations by operation and result.
	WishlistOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wishbase",
		Name:      "wishlist_operations_total",
		Help:      "Wishlist operations by operation and result.",
	}, []string{"operation", "result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wishbase",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
)

// ObserveAuth records one auth operation outcome.
func ObserveAuth(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AuthOps.WithLabelValues(operation, result).Inc()
}

// ObserveWishlist records one wishlist operation outcome.
func ObserveWishlist(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	WishlistOps.WithLabelValues(operation, result).Inc()
}

// RequestCounter is Echo middleware counting requests per route. The
// registered route path is used, not the raw URL, to keep cardinality
// bounded.
func RequestCounter() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			httpRequests.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).Inc()
			return err
		}
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
