package controllers

import (
	"DentalChart/handlers"

	"github.com/gin-gonic/gin"
)

func SetupChartRoutes(router *gin.Engine, patientHandler *handlers.PatientHandler, dentistHandler *handlers.DentistHandler, chartHandler *handlers.ChartHandler) {
	// Define the routes directly on the router
	router.POST("/dentists", dentistHandler.CreateDentist)
	router.GET("/dentists", dentistHandler.GetAllDentists)

	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:patient_id", patientHandler.GetPatientByID)
	router.DELETE("/patients/:patient_id", patientHandler.DeletePatient)
	router.GET("/patients", patientHandler.GetAllPatients)

	router.GET("/patients/:patient_id/chart", chartHandler.GetChart)
	router.PUT("/patients/:patient_id/chart", chartHandler.UpdateChart)
	router.POST("/patients/:patient_id/chart/select", chartHandler.SelectTooth)
	router.POST("/patients/:patient_id/chart/tooth", chartHandler.SubmitTooth)
}
