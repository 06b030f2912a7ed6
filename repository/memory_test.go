package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"parking-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVacancies(t *testing.T, store *MemoryStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("A%03d", i+1)
		require.NoError(t, store.Vacancies().Insert(&models.Vacancy{Code: code}))
	}
}

func TestAcquireFreePrefersLowestCode(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Vacancies().Insert(&models.Vacancy{Code: "B001"}))
	require.NoError(t, store.Vacancies().Insert(&models.Vacancy{Code: "A001"}))

	v, err := store.Vacancies().AcquireFree()
	require.NoError(t, err)
	assert.Equal(t, "A001", v.Code)
	assert.Equal(t, models.VacancyBusy, v.Status)
}

// 並發搶位：N 個車位 N 個 goroutine，每個都要拿到不同的車位
func TestAcquireFreeConcurrent(t *testing.T) {
	const n = 8
	store := NewMemoryStore()
	seedVacancies(t, store, n)

	acquired := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.Vacancies().AcquireFree()
			if assert.NoError(t, err) {
				acquired <- v.VacancyID
			}
		}()
	}
	wg.Wait()
	close(acquired)

	seen := make(map[int]bool)
	for id := range acquired {
		assert.False(t, seen[id], "vacancy %d acquired twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	free, err := store.Vacancies().CountByStatus(models.VacancyFree)
	require.NoError(t, err)
	assert.Equal(t, int64(0), free)

	_, err = store.Vacancies().AcquireFree()
	assert.ErrorIs(t, err, ErrNoFreeVacancy)
}

func TestReleaseRestoresFreeStatus(t *testing.T) {
	store := NewMemoryStore()
	seedVacancies(t, store, 1)

	v, err := store.Vacancies().AcquireFree()
	require.NoError(t, err)

	require.NoError(t, store.Vacancies().Release(v.VacancyID))

	stored, err := store.Vacancies().FindByCode(v.Code)
	require.NoError(t, err)
	assert.Equal(t, models.VacancyFree, stored.Status)
}

func TestReleaseOnFreeVacancyFails(t *testing.T) {
	store := NewMemoryStore()
	seedVacancies(t, store, 1)

	err := store.Vacancies().Release(1)
	assert.ErrorIs(t, err, ErrVacancyNotBusy)
}

func TestReleaseUnknownVacancyFails(t *testing.T) {
	store := NewMemoryStore()

	err := store.Vacancies().Release(42)
	assert.ErrorIs(t, err, ErrVacancyNotBusy)
}

func TestVacancyDuplicateCode(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Vacancies().Insert(&models.Vacancy{Code: "A001"}))

	err := store.Vacancies().Insert(&models.Vacancy{Code: "A001"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSessionLifecycle(t *testing.T) {
	store := NewMemoryStore()

	user := &models.User{Username: "client@test.com", Password: "hashed", Role: models.RoleClient}
	require.NoError(t, store.Users().Insert(user))
	client := &models.Client{Name: "Test Client", CPF: "12345678901", UserID: user.UserID}
	require.NoError(t, store.Clients().Insert(client))
	seedVacancies(t, store, 1)

	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	session := &models.ParkingSession{
		Receipt:   "20250310-080000",
		Plate:     "ABC-1234",
		Brand:     "Fiat",
		Model:     "Palio",
		Color:     "Blue",
		EntryDate: entry,
		ClientID:  client.ClientID,
		VacancyID: 1,
	}
	require.NoError(t, store.Sessions().InsertOpen(session))
	// 關聯在寫入時一併帶回
	assert.Equal(t, client.CPF, session.Client.CPF)

	found, err := store.Sessions().FindOpenByReceipt(session.Receipt)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, found.SessionID)

	count, err := store.Sessions().CountClosedForClient(client.ClientID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	departure := entry.Add(30 * time.Minute)
	found.DepartureDate = &departure
	require.NoError(t, store.Sessions().Close(found))

	_, err = store.Sessions().FindOpenByReceipt(session.Receipt)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Sessions().Close(found)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err = store.Sessions().CountClosedForClient(client.ClientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionDuplicateReceipt(t *testing.T) {
	store := NewMemoryStore()

	first := &models.ParkingSession{Receipt: "20250310-080000", EntryDate: time.Now(), ClientID: 1, VacancyID: 1}
	require.NoError(t, store.Sessions().InsertOpen(first))

	second := &models.ParkingSession{Receipt: "20250310-080000", EntryDate: time.Now(), ClientID: 1, VacancyID: 1}
	err := store.Sessions().InsertOpen(second)
	assert.ErrorIs(t, err, ErrDuplicate)
}
