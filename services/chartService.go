package services

import (
	"DentalChart/chart"
	"DentalChart/models"
	"DentalChart/repositories"
	"context"
)

// ChartService converts between the database chart rows and the denormalized
// record format the chart widget speaks. It satisfies the widget's backend
// interface.
type ChartService struct {
	charts   *repositories.ChartRepository
	dentists *repositories.DentistRepository
}

func NewChartService(charts *repositories.ChartRepository, dentists *repositories.DentistRepository) *ChartService {
	return &ChartService{charts: charts, dentists: dentists}
}

// DentalChart returns a patient's chart as tooth records.
func (s *ChartService) DentalChart(ctx context.Context, patientID string) ([]chart.ToothRecord, error) {
	teeth, err := s.charts.GetByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	records := make([]chart.ToothRecord, 0, len(teeth))
	for _, t := range teeth {
		records = append(records, toRecord(t))
	}
	return records, nil
}

// SaveDentalChart replaces a patient's stored chart with the given records.
func (s *ChartService) SaveDentalChart(ctx context.Context, patientID string, records []chart.ToothRecord) error {
	teeth := make([]models.ChartTooth, 0, len(records))
	for _, rec := range records {
		teeth = append(teeth, toModel(patientID, rec))
	}
	return s.charts.Replace(ctx, patientID, teeth)
}

// Dentists returns the dentist directory in the widget's format.
func (s *ChartService) Dentists(ctx context.Context) ([]chart.Dentist, error) {
	dentists, err := s.dentists.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]chart.Dentist, 0, len(dentists))
	for _, d := range dentists {
		out = append(out, chart.Dentist{ID: d.ID, FirstName: d.FirstName, LastName: d.LastName})
	}
	return out, nil
}

func toRecord(t models.ChartTooth) chart.ToothRecord {
	rec := chart.ToothRecord{ToothNumber: t.ToothNumber}
	for _, p := range t.Procedures {
		entry := chart.HistoryEntry{
			Procedure: p.Procedure,
			Notes:     p.Notes,
			Date:      chart.NewTimestamp(p.PerformedAt),
		}
		if p.DentistID != "" {
			entry.Dentist = &chart.DentistRef{ID: p.DentistID}
		}
		rec.Procedures = append(rec.Procedures, entry)
	}
	return rec
}

func toModel(patientID string, rec chart.ToothRecord) models.ChartTooth {
	t := models.ChartTooth{
		PatientID:   patientID,
		ToothNumber: rec.ToothNumber,
	}
	for _, entry := range rec.Procedures {
		proc := models.ChartProcedure{
			Procedure:   entry.Procedure,
			Notes:       entry.Notes,
			PerformedAt: entry.Date.Time,
		}
		if entry.Dentist != nil {
			proc.DentistID = entry.Dentist.RefID()
		}
		t.Procedures = append(t.Procedures, proc)
	}
	return t
}
