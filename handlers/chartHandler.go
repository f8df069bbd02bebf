package handlers

import (
	"DentalChart/chart"
	"DentalChart/engine"
	"DentalChart/host"
	"DentalChart/middlewares"
	"DentalChart/services"
	"DentalChart/tooth"
	"DentalChart/utils"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// ChartHandler drives the server-side chart widget. The widget holds a single
// engine bound to one patient at a time, so handler calls are serialized.
type ChartHandler struct {
	service *services.ChartService
	surface *engine.MarkupSurface
	widget  *host.Widget
	mu      sync.Mutex
}

func NewChartHandler(service *services.ChartService, store chart.Store) *ChartHandler {
	surface := engine.NewMarkupSurface()
	widget := host.New(host.Config{
		Backend: service,
		Store:   store,
		Surface: surface,
	})
	return &ChartHandler{service: service, surface: surface, widget: widget}
}

func (h *ChartHandler) chartResponse() gin.H {
	state := h.widget.Engine().State()
	resp := gin.H{
		"patientId":   h.widget.PatientID(),
		"dentalChart": chart.ToRecords(state),
		"state":       state,
		"markup":      h.surface.Markup(),
	}
	if sel, ok := h.widget.Engine().Selected(); ok {
		resp["selectedTooth"] = sel.String()
	}
	return resp
}

// GetChart mounts the widget for the patient and returns the rendered chart.
func (h *ChartHandler) GetChart(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.widget.Show(c, c.Param("patient_id")); err != nil {
		middlewares.HttpError(c, "failed to load dental chart", http.StatusInternalServerError, err)
		return
	}
	middlewares.RespondJSON(c, h.chartResponse(), http.StatusOK)
}

// SelectTooth moves the widget selection to the requested tooth.
func (h *ChartHandler) SelectTooth(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req struct {
		ToothID string `json:"toothId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateToothID(req.ToothID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.widget.Show(c, c.Param("patient_id")); err != nil {
		middlewares.HttpError(c, "failed to load dental chart", http.StatusInternalServerError, err)
		return
	}
	id, _ := tooth.Parse(req.ToothID)
	h.widget.Engine().Select(id)
	middlewares.RespondJSON(c, h.chartResponse(), http.StatusOK)
}

// SubmitTooth saves the panel form for a tooth and returns the updated chart.
func (h *ChartHandler) SubmitTooth(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var sub utils.ToothSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateToothSubmission(sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.widget.Show(c, c.Param("patient_id")); err != nil {
		middlewares.HttpError(c, "failed to load dental chart", http.StatusInternalServerError, err)
		return
	}
	id, _ := tooth.Parse(sub.ToothID)
	eng := h.widget.Engine()
	eng.Select(id)
	eng.SubmitForm(c, engine.FormInput{
		Status:    sub.Status,
		Procedure: sub.Procedure,
		Notes:     sub.Notes,
		DentistID: sub.DentistID,
	})
	middlewares.RespondJSON(c, h.chartResponse(), http.StatusOK)
}

// UpdateChart replaces a patient's stored chart with the submitted records.
func (h *ChartHandler) UpdateChart(c *gin.Context) {
	var req struct {
		DentalChart []chart.ToothRecord `json:"dentalChart"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateDentalChart(req.DentalChart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patientID := c.Param("patient_id")
	if err := h.service.SaveDentalChart(c, patientID, req.DentalChart); err != nil {
		middlewares.HttpError(c, "failed to save dental chart", http.StatusInternalServerError, err)
		return
	}

	// The mounted widget may be showing this patient; rebuild it so the
	// next read reflects the replaced chart.
	h.mu.Lock()
	if h.widget.PatientID() == patientID {
		h.widget.Close()
	}
	h.mu.Unlock()

	middlewares.RespondJSON(c, gin.H{"message": "Dental chart updated"}, http.StatusOK)
}
