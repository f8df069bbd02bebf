package handlers

import (
	"DentalChart/models"
	"DentalChart/services"

	"github.com/gin-gonic/gin"
)

type DentistHandler struct {
	service *services.DentistService
}

func NewDentistHandler(service *services.DentistService) *DentistHandler {
	return &DentistHandler{service: service}
}

func (h *DentistHandler) CreateDentist(c *gin.Context) {
	var dentist models.Dentist
	if err := c.ShouldBindJSON(&dentist); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &dentist); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, dentist)
}

func (h *DentistHandler) GetAllDentists(c *gin.Context) {
	dentists, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, dentists)
}
