package services

import (
	"fmt"
	"testing"
	"time"

	"parking-api/models"
	"parking-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newParkingFixture 建立記憶體資料層、一個測試客戶與指定代碼的車位
func newParkingFixture(t *testing.T, codes ...string) (*ParkingService, *repository.MemoryStore, *models.Client) {
	t.Helper()

	store := repository.NewMemoryStore()

	user := &models.User{Username: "client@test.com", Password: "hashed", Role: models.RoleClient}
	require.NoError(t, store.Users().Insert(user))

	client := &models.Client{Name: "Test Client", CPF: "12345678901", UserID: user.UserID}
	require.NoError(t, store.Clients().Insert(client))

	for _, code := range codes {
		require.NoError(t, store.Vacancies().Insert(&models.Vacancy{Code: code}))
	}

	svc := NewParkingService(store)
	svc.now = func() time.Time { return baseTime }
	return svc, store, client
}

func TestCheckInCreatesOpenSession(t *testing.T) {
	svc, store, client := newParkingFixture(t, "A002", "A001")

	session, err := svc.CheckIn(CheckInInput{
		ClientCPF: client.CPF,
		Plate:     "ABC-1234",
		Brand:     "Fiat",
		Model:     "Palio",
		Color:     "Blue",
	})
	require.NoError(t, err)

	assert.Equal(t, "20250310-080000", session.Receipt)
	assert.True(t, session.IsOpen())
	assert.False(t, session.Value.Valid)
	assert.False(t, session.Discount.Valid)
	assert.Equal(t, baseTime, session.EntryDate)
	// 代碼最小的車位先被分配
	assert.Equal(t, "A001", session.Vacancy.Code)
	assert.Equal(t, models.VacancyBusy, session.Vacancy.Status)

	vacancy, err := store.Vacancies().FindByCode("A001")
	require.NoError(t, err)
	assert.Equal(t, models.VacancyBusy, vacancy.Status)

	stored, err := store.Sessions().FindOpenByReceipt(session.Receipt)
	require.NoError(t, err)
	assert.Equal(t, client.ClientID, stored.ClientID)
}

func TestCheckInUnknownClient(t *testing.T) {
	svc, _, _ := newParkingFixture(t, "A001")

	_, err := svc.CheckIn(CheckInInput{ClientCPF: "99999999999", Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestCheckInLotFull(t *testing.T) {
	svc, _, client := newParkingFixture(t, "A001")

	_, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	require.NoError(t, err)

	_, err = svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "DEF-5678", Brand: "VW", Model: "Gol", Color: "White"})
	assert.ErrorIs(t, err, ErrNoFreeVacancy)
}

func TestCheckOutComputesFeeAndReleasesVacancy(t *testing.T) {
	svc, store, client := newParkingFixture(t, "A001")

	session, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	require.NoError(t, err)

	departure := baseTime.Add(70 * time.Minute)
	svc.now = func() time.Time { return departure }

	closed, err := svc.CheckOut(session.Receipt)
	require.NoError(t, err)

	require.NotNil(t, closed.DepartureDate)
	assert.Equal(t, departure, *closed.DepartureDate)
	require.True(t, closed.Value.Valid)
	assert.Equal(t, "11.00", closed.Value.Decimal.StringFixed(2))
	require.True(t, closed.Discount.Valid)
	assert.Equal(t, "0.00", closed.Discount.Decimal.StringFixed(2))

	vacancy, err := store.Vacancies().FindByCode("A001")
	require.NoError(t, err)
	assert.Equal(t, models.VacancyFree, vacancy.Status)

	count, err := store.Sessions().CountClosedForClient(client.ClientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCheckOutTwiceFails(t *testing.T) {
	svc, _, client := newParkingFixture(t, "A001")

	session, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	require.NoError(t, err)

	svc.now = func() time.Time { return baseTime.Add(30 * time.Minute) }

	_, err = svc.CheckOut(session.Receipt)
	require.NoError(t, err)

	_, err = svc.CheckOut(session.Receipt)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestCheckOutUnknownReceipt(t *testing.T) {
	svc, _, _ := newParkingFixture(t, "A001")

	_, err := svc.CheckOut("20990101-000000")
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestCheckOutClockGoneBackwards(t *testing.T) {
	svc, _, client := newParkingFixture(t, "A001")

	session, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	require.NoError(t, err)

	svc.now = func() time.Time { return baseTime.Add(-time.Hour) }

	_, err = svc.CheckOut(session.Receipt)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestCheckOutDiscountOnTenthCompletedStay(t *testing.T) {
	svc, store, client := newParkingFixture(t, "A001")

	// 先累積 10 筆已完成的停車紀錄
	for i := 0; i < 10; i++ {
		entry := baseTime.Add(time.Duration(-24*(i+1)) * time.Hour)
		departure := entry.Add(10 * time.Minute)
		past := &models.ParkingSession{
			Receipt:   fmt.Sprintf("2025030%d-08000%d", (i%9)+1, i),
			Plate:     "ABC-1234",
			Brand:     "Fiat",
			Model:     "Palio",
			Color:     "Blue",
			EntryDate: entry,
			ClientID:  client.ClientID,
			VacancyID: 1,
		}
		require.NoError(t, store.Sessions().InsertOpen(past))
		past.DepartureDate = &departure
		require.NoError(t, store.Sessions().Close(past))
	}

	session, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	require.NoError(t, err)

	// 90 分鐘 → 9.25 + 2×1.75 = 12.75，第 10 次完成折扣 30% = 3.825 → 3.82（五成雙）
	svc.now = func() time.Time { return baseTime.Add(90 * time.Minute) }

	closed, err := svc.CheckOut(session.Receipt)
	require.NoError(t, err)

	assert.Equal(t, "12.75", closed.Value.Decimal.StringFixed(2))
	assert.Equal(t, "3.82", closed.Discount.Decimal.StringFixed(2))
}

func TestCheckOutNinthStayHasNoDiscount(t *testing.T) {
	svc, store, client := newParkingFixture(t, "A001")

	for i := 0; i < 9; i++ {
		entry := baseTime.Add(time.Duration(-24*(i+1)) * time.Hour)
		departure := entry.Add(10 * time.Minute)
		past := &models.ParkingSession{
			Receipt:   fmt.Sprintf("20250201-00000%d", i),
			Plate:     "ABC-1234",
			Brand:     "Fiat",
			Model:     "Palio",
			Color:     "Blue",
			EntryDate: entry,
			ClientID:  client.ClientID,
			VacancyID: 1,
		}
		require.NoError(t, store.Sessions().InsertOpen(past))
		past.DepartureDate = &departure
		require.NoError(t, store.Sessions().Close(past))
	}

	session, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
	require.NoError(t, err)

	svc.now = func() time.Time { return baseTime.Add(10 * time.Minute) }

	closed, err := svc.CheckOut(session.Receipt)
	require.NoError(t, err)

	assert.Equal(t, "5.00", closed.Value.Decimal.StringFixed(2))
	assert.Equal(t, "0.00", closed.Discount.Decimal.StringFixed(2))
}

func TestListByClientCPF(t *testing.T) {
	svc, _, client := newParkingFixture(t, "A001", "A002", "A003")

	for i := 0; i < 3; i++ {
		entry := baseTime.Add(time.Duration(i) * time.Second)
		svc.now = func() time.Time { return entry }
		_, err := svc.CheckIn(CheckInInput{ClientCPF: client.CPF, Plate: "ABC-1234", Brand: "Fiat", Model: "Palio", Color: "Blue"})
		require.NoError(t, err)
	}

	sessions, total, err := svc.ListByClientCPF(client.CPF, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, sessions, 2)
	// 依進場時間遞增排序
	assert.True(t, sessions[0].EntryDate.Before(sessions[1].EntryDate))

	rest, total, err := svc.ListByClientCPF(client.CPF, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rest, 1)
}
