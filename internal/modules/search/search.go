package search

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sakila-tools/filmsearch/internal/catalog"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/pkg/pagination"
	"github.com/sakila-tools/filmsearch/internal/pkg/response"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"go.uber.org/zap"
)

type rangesResponse struct {
	Years   models.Range `json:"years"`
	Lengths models.Range `json:"lengths"`
}

// Handler serves catalog searches and records one query-log entry per page served.
type Handler struct {
	catalog catalog.Searcher
	queries *querylog.Logger
	log     *zap.Logger
}

func NewHandler(searcher catalog.Searcher, queries *querylog.Logger, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{catalog: searcher, queries: queries, log: log.Named("search")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/films")
	g.GET("/keyword", h.byKeyword)
	g.GET("/genre", h.byGenre)
	g.GET("/actor", h.byActor)
	g.GET("/length", h.byLength)
	g.GET("/genres", h.genres)
	g.GET("/ranges", h.ranges)
}

type fetchFunc func(ctx context.Context, offset, limit int) ([]models.Film, error)

func (h *Handler) serve(c *gin.Context, qt models.QueryType, params models.Params, fetch fetchFunc) {
	w := pagination.FromContext(c)
	films, err := fetch(c.Request.Context(), w.Offset, w.Limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.queries.Record(c.Request.Context(), qt, params); err != nil {
		if !querylog.IsWarning(err) {
			response.InternalError(c, err)
			return
		}
		h.log.Warn("query not recorded", zap.Error(err))
	}
	response.Paged(c, films, response.NewPagination(w.Offset, w.Limit, len(films)))
}

func (h *Handler) byKeyword(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	h.serve(c, models.QueryTypeKeyword, querylog.KeywordParams(q),
		func(ctx context.Context, offset, limit int) ([]models.Film, error) {
			return h.catalog.ByKeyword(ctx, q, offset, limit)
		})
}

func (h *Handler) byGenre(c *gin.Context) {
	genre := strings.TrimSpace(c.Query("genre"))
	if genre == "" {
		response.BadRequest(c, "genre is required")
		return
	}
	from, to, err := intRange(c, "year_from", "year_to")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.serve(c, models.QueryTypeGenreYear, querylog.GenreYearParams(genre, from, to),
		func(ctx context.Context, offset, limit int) ([]models.Film, error) {
			return h.catalog.ByGenreAndYears(ctx, genre, from, to, offset, limit)
		})
}

func (h *Handler) byActor(c *gin.Context) {
	first := strings.TrimSpace(c.Query("first_name"))
	last := strings.TrimSpace(c.Query("last_name"))
	fragment := strings.TrimSpace(first + " " + last)
	h.serve(c, models.QueryTypeActorName, querylog.ActorNameParams(first, last),
		func(ctx context.Context, offset, limit int) ([]models.Film, error) {
			return h.catalog.ByActorNameFragment(ctx, fragment, offset, limit)
		})
}

func (h *Handler) byLength(c *gin.Context) {
	minLength, maxLength, err := intRange(c, "min", "max")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.serve(c, models.QueryTypeLengthRange, querylog.LengthRangeParams(minLength, maxLength),
		func(ctx context.Context, offset, limit int) ([]models.Film, error) {
			return h.catalog.ByLengthRange(ctx, minLength, maxLength, offset, limit)
		})
}

func (h *Handler) genres(c *gin.Context) {
	genres, err := h.catalog.Genres(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, genres)
}

func (h *Handler) ranges(c *gin.Context) {
	years, err := h.catalog.YearRange(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	lengths, err := h.catalog.LengthRange(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, rangesResponse{Years: years, Lengths: lengths})
}

// intRange reads a required lower bound and an optional upper bound that
// defaults to it.
func intRange(c *gin.Context, lowKey, highKey string) (int, int, error) {
	rawLow := strings.TrimSpace(c.Query(lowKey))
	if rawLow == "" {
		return 0, 0, errors.New(lowKey + " is required")
	}
	low, err := strconv.Atoi(rawLow)
	if err != nil {
		return 0, 0, errors.New(lowKey + " must be an integer")
	}
	high := low
	if rawHigh := strings.TrimSpace(c.Query(highKey)); rawHigh != "" {
		high, err = strconv.Atoi(rawHigh)
		if err != nil {
			return 0, 0, errors.New(highKey + " must be an integer")
		}
	}
	if low > high {
		return 0, 0, errors.New(lowKey + " must not exceed " + highKey)
	}
	return low, high, nil
}
