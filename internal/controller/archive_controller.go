package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logvault/internal/index"
	"logvault/internal/model"
	"logvault/internal/parser"
	"logvault/internal/service"
)

type ArchiveController struct {
	queryService       service.QueryService
	aggregationService service.AggregationService
}

func NewArchiveController(queryService service.QueryService, aggregationService service.AggregationService) *ArchiveController {
	return &ArchiveController{
		queryService:       queryService,
		aggregationService: aggregationService,
	}
}

func RegisterArchiveRoutes(router *gin.Engine, controller *ArchiveController) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/logs/range", controller.GetLogRange)
		v1.POST("/aggregate", controller.TriggerAggregation)
		v1.GET("/runs", controller.GetRuns)
		v1.GET("/status", controller.GetStatus)
		v1.GET("/health", controller.GetHealth)
	}
}

// GetLogRange godoc
// @Summary      Stream a time range of archived logs
// @Description  Resolves the inclusive [after, before] window through the per-second index and streams the archive's byte range verbatim. Compose with external text-filtering tools on the response body.
// @Tags         logs
// @Produce      octet-stream
// @Param        after   query     string  true  "Window start in YYYY-MM-DDTHH:MM:SS"
// @Param        before  query     string  true  "Window end in YYYY-MM-DDTHH:MM:SS"
// @Success      200     {string}  string  "Raw log bytes"
// @Failure      400     {object}  model.Response "Missing or malformed parameters"
// @Failure      404     {object}  model.Response "Window outside every index shard"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/logs/range [get]
func (c *ArchiveController) GetLogRange(ctx *gin.Context) {
	afterStr := ctx.Query("after")
	beforeStr := ctx.Query("before")
	if afterStr == "" || beforeStr == "" {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Query parameters after and before are required. Format: YYYY-MM-DDTHH:MM:SS", nil))
		return
	}

	byteRange, err := c.queryService.ResolveRange(afterStr, beforeStr)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrMalformedTimestamp), errors.Is(err, service.ErrInvalidWindow):
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		case errors.Is(err, index.ErrNotFound):
			ctx.JSON(http.StatusNotFound, model.NewResponse("No index shard covers the requested window", nil))
		default:
			log.Error().Err(err).Msg("Error resolving range")
			ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to resolve range", nil))
		}
		return
	}

	reader, err := c.queryService.OpenRange(byteRange)
	if err != nil {
		log.Error().Err(err).Msg("Error opening archive range")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to open archive", nil))
		return
	}
	defer reader.Close()

	ctx.DataFromReader(http.StatusOK, byteRange.Len(), "application/octet-stream", reader, nil)
}

// TriggerAggregation godoc
// @Summary      Run the configured aggregation now
// @Description  Executes the configured aggregation pass synchronously and returns its outcome. Only one run may be in flight at a time; concurrent triggers are rejected.
// @Tags         aggregation
// @Produce      json
// @Success      200  {object}  model.Response{data=dto.AggregateResult} "Run finished"
// @Failure      409  {object}  model.Response "A run is already in progress"
// @Failure      500  {object}  model.Response "Run failed"
// @Router       /api/v1/aggregate [post]
func (c *ArchiveController) TriggerAggregation(ctx *gin.Context) {
	result, err := c.aggregationService.RunAggregation(c.aggregationService.DefaultRequest())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			ctx.JSON(http.StatusConflict, model.NewResponse("An aggregation run is already in progress", nil))
			return
		}
		log.Error().Err(err).Msg("Aggregation run failed")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Aggregation run failed", nil))
		return
	}

	ctx.JSON(http.StatusOK, model.NewResponse("Aggregation finished", result))
}

// GetRuns godoc
// @Summary      Recent aggregation runs
// @Description  Lists the aggregation runs of this process, newest first. The on-disk manifest only keeps the last run; this history is in-memory.
// @Tags         aggregation
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of runs to return"
// @Success      200    {object}  model.Response{data=[]manifest.RunRecord}
// @Failure      400    {object}  model.Response "Invalid limit"
// @Router       /api/v1/runs [get]
func (c *ArchiveController) GetRuns(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be a non-negative integer", nil))
			return
		}
		limit = parsed
	}

	ctx.JSON(http.StatusOK, model.NewResponse("ok", c.aggregationService.RecentRuns(limit)))
}

// GetStatus godoc
// @Summary      Archive and index status
// @Description  Reports the queryable archive path and size, the discovered index shards and the most recent aggregation run.
// @Tags         aggregation
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/status [get]
func (c *ArchiveController) GetStatus(ctx *gin.Context) {
	status, err := c.queryService.Status()
	if err != nil {
		log.Error().Err(err).Msg("Error building status")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to build status", nil))
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// GetHealth godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  model.Response
// @Router       /api/v1/health [get]
func (c *ArchiveController) GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, model.NewResponse("ok", nil))
}
