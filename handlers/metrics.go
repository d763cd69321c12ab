package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pastesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "textbin_pastes_created_total",
		Help: "Number of pastes created.",
	})
	pasteViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "textbin_paste_views_total",
		Help: "Number of successful view-incrementing reads.",
	})
	expiredReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "textbin_paste_expired_reads_total",
		Help: "Number of reads denied because the paste expired.",
	}, []string{"reason"})
	cleanupDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "textbin_cleanup_deleted_total",
		Help: "Number of pastes removed by cleanup sweeps.",
	})
)

// Metrics serves the Prometheus endpoint via GET /metrics
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
