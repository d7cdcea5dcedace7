package router

import (
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/DjordjeVuckovic/entity-search/internal/storage"
	"github.com/DjordjeVuckovic/entity-search/pkg/pagination"
	"github.com/labstack/echo/v4"
)

// AggregateResponse is the body of GET /entities/aggregate.
type AggregateResponse struct {
	Field  string           `json:"field"`
	Counts map[string]int64 `json:"counts"`
}

type SearchRouter struct {
	e        *echo.Echo
	searcher storage.EntitySearcher
}

func NewSearchRouter(e *echo.Echo, searcher storage.EntitySearcher) *SearchRouter {
	return &SearchRouter{
		e:        e,
		searcher: searcher,
	}
}

func (r *SearchRouter) Bind() {
	g := r.e.Group("/entities")
	g.POST("/search", r.searchHandler)
	g.POST("/scroll", r.scrollHandler)
	g.POST("/filter", r.filterHandler)
	g.GET("/aggregate", r.aggregateHandler)
}

// searchHandler godoc
// @Summary Search entities
// @Description Free text search over one or more entity types with offset paging, facets and highlights.
// @Tags search
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search request"
// @Success 200 {object} dto.SearchResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /entities/search [post]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	q, err := req.toQuery()
	if err != nil {
		return err
	}

	result, err := r.searcher.Search(c.Request().Context(), q, req.From, req.GetSize())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// scrollHandler godoc
// @Summary Scroll entities
// @Description Cursor paged search. Pass the returned scrollId to fetch the next page. No scrollId is returned after the last page.
// @Tags search
// @Accept json
// @Produce json
// @Param request body ScrollRequest true "Scroll request"
// @Success 200 {object} dto.ScrollResult
// @Failure 400 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /entities/scroll [post]
func (r *SearchRouter) scrollHandler(c echo.Context) error {
	var req ScrollRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	q, err := req.toQuery()
	if err != nil {
		return err
	}

	result, err := r.searcher.Scroll(c.Request().Context(), q, req.GetCursor(), req.GetKeepAlive(), req.GetSize())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// filterHandler godoc
// @Summary Filter entities
// @Description Lists entities matching a filter without a text query. Offset paged unless scrollId or keepAlive is set.
// @Tags search
// @Accept json
// @Produce json
// @Param request body FilterRequest true "Filter request"
// @Success 200 {object} dto.SearchResult
// @Failure 400 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /entities/filter [post]
func (r *SearchRouter) filterHandler(c echo.Context) error {
	var req FilterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := validateFilter(req.Filter); err != nil {
		return err
	}
	sort, err := req.Sort.toCriterion()
	if err != nil {
		return err
	}
	entities := normalizeEntities(req.Entities)
	ctx := c.Request().Context()

	if req.isScroll() {
		page := pagination.CursorRequest{Cursor: req.ScrollID, KeepAlive: req.KeepAlive, Size: req.Size}
		if err := page.Validate(); err != nil {
			return apperr.NewValidationWrap("invalid pagination", err)
		}
		result, err := r.searcher.ScrollFilter(ctx, entities, req.Filter, sort, page.GetCursor(), page.GetKeepAlive(), page.GetSize())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, result)
	}

	page := pagination.OffsetRequest{From: req.From, Size: req.Size}
	if err := page.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	result, err := r.searcher.Filter(ctx, entities, req.Filter, sort, page.From, page.GetSize())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// aggregateHandler godoc
// @Summary Aggregate a field
// @Description Counts entities per value of one field, optionally under a JSON encoded filter.
// @Tags search
// @Produce json
// @Param entity query []string false "Entity types" collectionFormat(multi)
// @Param field query string true "Field to aggregate"
// @Param limit query int false "Maximum number of values"
// @Param filter query string false "JSON encoded filter"
// @Success 200 {object} AggregateResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /entities/aggregate [get]
func (r *SearchRouter) aggregateHandler(c echo.Context) error {
	field := c.QueryParam("field")
	if field == "" {
		return apperr.NewValidation("field query parameter is required")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return apperr.NewValidation("limit must be a non-negative integer")
		}
	}

	f, err := parseFilterParam(c.QueryParam("filter"))
	if err != nil {
		return err
	}

	entities := normalizeEntities(c.QueryParams()["entity"])
	counts, err := r.searcher.Aggregate(c.Request().Context(), entities, field, f, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AggregateResponse{Field: field, Counts: counts})
}
