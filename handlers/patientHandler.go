package handlers

import (
	"DentalChart/models"
	"DentalChart/services"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
	charts  *services.ChartService
}

func NewPatientHandler(service *services.PatientService, charts *services.ChartService) *PatientHandler {
	return &PatientHandler{service: service, charts: charts}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &patient); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, patient)
}

// GetPatientByID returns the patient record together with their dental chart
// in the denormalized record format.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id := c.Param("patient_id")
	patient, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if patient == nil {
		c.JSON(404, gin.H{"error": "Patient not found"})
		return
	}
	records, err := h.charts.DentalChart(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"patient": patient, "dentalChart": records})
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patients)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id := c.Param("patient_id")
	if err := h.service.Delete(c, id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Patient deleted"})
}
