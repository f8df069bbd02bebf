package services

import (
	"DentalChart/models"
	"DentalChart/repositories"
	"context"
)

type DentistService struct {
	repository *repositories.DentistRepository
}

func NewDentistService(repository *repositories.DentistRepository) *DentistService {
	return &DentistService{repository: repository}
}

func (s *DentistService) Create(ctx context.Context, dentist *models.Dentist) error {
	return s.repository.Create(ctx, dentist)
}

func (s *DentistService) GetAll(ctx context.Context) ([]models.Dentist, error) {
	return s.repository.GetAll(ctx)
}
