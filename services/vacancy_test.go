package services

import (
	"testing"

	"parking-api/models"
	"parking-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVacancyCreateDefaultsToFree(t *testing.T) {
	svc := NewVacancyService(repository.NewMemoryStore())

	vacancy := &models.Vacancy{Code: "A001"}
	require.NoError(t, svc.Create(vacancy))
	assert.Equal(t, models.VacancyFree, vacancy.Status)

	found, err := svc.FindByCode("A001")
	require.NoError(t, err)
	assert.Equal(t, vacancy.VacancyID, found.VacancyID)
}

func TestVacancyCreateDuplicateCode(t *testing.T) {
	svc := NewVacancyService(repository.NewMemoryStore())

	require.NoError(t, svc.Create(&models.Vacancy{Code: "A001"}))

	err := svc.Create(&models.Vacancy{Code: "A001"})
	assert.ErrorIs(t, err, ErrVacancyCodeExists)
}

func TestVacancyFindByCodeNotFound(t *testing.T) {
	svc := NewVacancyService(repository.NewMemoryStore())

	_, err := svc.FindByCode("Z999")
	assert.ErrorIs(t, err, ErrVacancyNotFound)
}

func TestVacancyOccupancySnapshot(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewVacancyService(store)

	require.NoError(t, svc.Create(&models.Vacancy{Code: "A001"}))
	require.NoError(t, svc.Create(&models.Vacancy{Code: "A002"}))
	require.NoError(t, svc.Create(&models.Vacancy{Code: "A003"}))

	_, err := store.Vacancies().AcquireFree()
	require.NoError(t, err)

	free, busy, err := svc.OccupancySnapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(2), free)
	assert.Equal(t, int64(1), busy)
}
