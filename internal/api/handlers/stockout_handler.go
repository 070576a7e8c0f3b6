package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/model"
	"github.com/andresuchdata/wms-stockout/internal/pipeline/snapshot"
	"github.com/andresuchdata/wms-stockout/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	defaultDatasetLimit = 100
	maxDatasetLimit     = 5000
)

type StockoutHandler struct {
	service *service.StockoutService
}

func NewStockoutHandler(service *service.StockoutService) *StockoutHandler {
	return &StockoutHandler{service: service}
}

type trainRequest struct {
	Periods int  `json:"periods"`
	Retrain bool `json:"retrain"`
}

type snapshotRequest struct {
	ServicioID string `json:"servicio_id" binding:"required"`
	Periodo    int    `json:"periodo" binding:"required,min=1"`
}

type formRequest struct {
	ServicioID         string   `json:"servicio_id" binding:"required"`
	Periodo            int      `json:"periodo" binding:"required,min=1"`
	StockActual        *int     `json:"stock_actual" binding:"required"`
	DemandaDiariaEst   *float64 `json:"demanda_diaria_est" binding:"required"`
	DiasHastaRecepcion *int     `json:"dias_hasta_recepcion" binding:"required"`
	RecepcionPendiente *int     `json:"recepcion_pendiente" binding:"required"`
	Horizonte          int      `json:"horizonte"`
}

func (h *StockoutHandler) GetMaster(c *gin.Context) {
	table, err := h.service.Master(strings.ToLower(c.Param("name")))
	if err != nil {
		respondError(c, "failed to fetch master", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *StockoutHandler) GetDictionaries(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Dictionaries())
}

func (h *StockoutHandler) GetQuality(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Quality(c.Request.Context()))
}

func (h *StockoutHandler) GetDataset(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultDatasetLimit)))
	if err != nil || limit <= 0 {
		limit = defaultDatasetLimit
	}
	if limit > maxDatasetLimit {
		limit = maxDatasetLimit
	}

	rows, err := h.service.Dataset(c.Request.Context(), periods)
	if err != nil {
		respondError(c, "failed to build dataset", err)
		return
	}

	total := len(rows)
	if limit < total {
		rows = rows[:limit]
	}
	records := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		records[i] = r.Record()
	}

	c.JSON(http.StatusOK, gin.H{
		"items": records,
		"total": total,
	})
}

func (h *StockoutHandler) GetDatasetSummary(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	summary, err := h.service.DatasetSummary(c.Request.Context(), periods)
	if err != nil {
		respondError(c, "failed to summarize dataset", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StockoutHandler) Train(c *gin.Context) {
	var req trainRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if req.Periods < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periods must be at least 1"})
		return
	}

	result, err := h.service.Train(c.Request.Context(), req.Periods, req.Retrain)
	if err != nil {
		respondError(c, "failed to train model", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StockoutHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch metrics", err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *StockoutHandler) GetRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.service.Runs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "failed to fetch training runs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *StockoutHandler) GetPredictKeys(c *gin.Context) {
	servicios, periodos, err := h.service.Keys(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list prediction keys", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"servicios": servicios, "periodos": periodos})
}

func (h *StockoutHandler) PredictSnapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	pred, err := h.service.PredictSnapshot(c.Request.Context(), req.ServicioID, req.Periodo)
	if err != nil {
		respondError(c, "failed to predict", err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

func (h *StockoutHandler) PredictForm(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	pred, err := h.service.PredictForm(c.Request.Context(), req.ServicioID, req.Periodo, model.FormInput{
		StockActual:        *req.StockActual,
		DemandaDiariaEst:   *req.DemandaDiariaEst,
		DiasHastaRecepcion: *req.DiasHastaRecepcion,
		RecepcionPendiente: *req.RecepcionPendiente,
		HorizonDays:        req.Horizonte,
	})
	if err != nil {
		respondError(c, "failed to predict", err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

func parsePeriods(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("periods"))
	if raw == "" {
		return 0, true
	}
	periods, err := strconv.Atoi(raw)
	if err != nil || periods < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periods must be a positive integer"})
		return 0, false
	}
	return periods, true
}

// respondError maps service and model errors to a status code.
func respondError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": message, "details": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownMaster), errors.Is(err, service.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrModelNotFound):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, snapshot.ErrInvalidPeriods):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrMissingFeature),
		errors.Is(err, model.ErrSingleClass),
		errors.Is(err, model.ErrNotEnoughGroups):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
