package stats

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/pkg/response"
	"github.com/sakila-tools/filmsearch/internal/querylog"
)

type topRow struct {
	Key       string `json:"key"`
	QueryType string `json:"query_type"`
	Param     string `json:"param"`
	Value     string `json:"value"`
	Count     int    `json:"count"`
}

// Handler exposes query-log statistics.
type Handler struct {
	agg *querylog.Aggregator
}

func NewHandler(agg *querylog.Aggregator) *Handler { return &Handler{agg: agg} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/stats")
	g.GET("/top", h.top)
	g.GET("/recent", h.recent)
	g.GET("/types/:type", h.byType)
	g.GET("/counts", h.counts)
}

func (h *Handler) top(c *gin.Context) {
	top, err := h.agg.TopCombinations(c.Request.Context(), intQuery(c, "limit", querylog.DefaultTopLimit))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	rows := make([]topRow, 0, len(top))
	for _, t := range top {
		qt, param, value, _ := t.Split()
		rows = append(rows, topRow{Key: t.Key, QueryType: qt, Param: param, Value: value, Count: t.Count})
	}
	response.OK(c, rows)
}

func (h *Handler) recent(c *gin.Context) {
	entries, err := h.agg.Recent(c.Request.Context(), intQuery(c, "limit", querylog.DefaultRecentLimit))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *Handler) byType(c *gin.Context) {
	qt, ok := models.ParseQueryType(c.Param("type"))
	if !ok {
		response.BadRequest(c, "unknown query type "+strconv.Quote(c.Param("type")))
		return
	}
	entries, err := h.agg.UniqueByType(c.Request.Context(), qt,
		intQuery(c, "limit", querylog.DefaultUniqueLimit),
		intQuery(c, "window", querylog.DefaultScanWindow))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *Handler) counts(c *gin.Context) {
	counts, err := h.agg.TypeCounts(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if c.Query("sort") == "count" {
		counts = querylog.SortTypeCounts(counts)
	}
	response.OK(c, counts)
}

const maxQueryValue = 1000

// intQuery parses a positive integer query param capped at maxQueryValue;
// anything else yields def.
func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	if v > maxQueryValue {
		return maxQueryValue
	}
	return v
}
