package health

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Title        string
	Type         RecordType
	Date         *time.Time
	NextDueDate  *time.Time
	Notes        string
	Veterinarian string
	FileURL      string
}

func (s *Service) Create(ctx context.Context, petID string, in Input) (HealthRecord, error) {
	if strings.TrimSpace(petID) == "" {
		return HealthRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return HealthRecord{}, ErrInvalidInput
	}
	if !ValidType(in.Type) {
		return HealthRecord{}, ErrInvalidInput
	}

	now := s.now()
	rec := HealthRecord{
		ID:           uuid.NewString(),
		PetID:        petID,
		Title:        strings.TrimSpace(in.Title),
		Type:         in.Type,
		Date:         in.Date,
		NextDueDate:  in.NextDueDate,
		Notes:        strings.TrimSpace(in.Notes),
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		FileURL:      strings.TrimSpace(in.FileURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return HealthRecord{}, err
	}
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (HealthRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return HealthRecord{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (HealthRecord, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return HealthRecord{}, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return HealthRecord{}, ErrInvalidInput
	}
	if !ValidType(in.Type) {
		return HealthRecord{}, ErrInvalidInput
	}

	current.Title = strings.TrimSpace(in.Title)
	current.Type = in.Type
	current.Date = in.Date
	current.NextDueDate = in.NextDueDate
	current.Notes = strings.TrimSpace(in.Notes)
	current.Veterinarian = strings.TrimSpace(in.Veterinarian)
	current.FileURL = strings.TrimSpace(in.FileURL)
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return HealthRecord{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]HealthRecord, error) {
	return s.repo.ListByPet(ctx, petID)
}

// DeleteByPet implementa pets.RecordPurger para el borrado en cascada.
func (s *Service) DeleteByPet(ctx context.Context, petID string) error {
	return s.repo.DeleteByPet(ctx, petID)
}
