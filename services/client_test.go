package services

import (
	"fmt"
	"testing"

	"parking-api/models"
	"parking-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateAndFind(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewClientService(store)

	user := &models.User{Username: "ana@test.com", Password: "hashed", Role: models.RoleClient}
	require.NoError(t, store.Users().Insert(user))

	client := &models.Client{Name: "Ana Silva", CPF: "12345678901", UserID: user.UserID}
	require.NoError(t, svc.Create(client))
	assert.NotZero(t, client.ClientID)

	byID, err := svc.FindByID(client.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", byID.Name)

	byUser, err := svc.FindByUserID(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, client.ClientID, byUser.ClientID)
}

func TestClientCreateDuplicateCPF(t *testing.T) {
	svc := NewClientService(repository.NewMemoryStore())

	require.NoError(t, svc.Create(&models.Client{Name: "Ana Silva", CPF: "12345678901", UserID: 1}))

	err := svc.Create(&models.Client{Name: "Outra Ana", CPF: "12345678901", UserID: 2})
	assert.ErrorIs(t, err, ErrCPFAlreadyRegistered)
}

func TestClientFindNotFound(t *testing.T) {
	svc := NewClientService(repository.NewMemoryStore())

	_, err := svc.FindByID(42)
	assert.ErrorIs(t, err, ErrClientRecordNotFound)

	_, err = svc.FindByUserID(42)
	assert.ErrorIs(t, err, ErrClientRecordNotFound)
}

func TestClientListPaged(t *testing.T) {
	svc := NewClientService(repository.NewMemoryStore())

	for i := 0; i < 7; i++ {
		client := &models.Client{
			Name:   fmt.Sprintf("Client %d", i),
			CPF:    fmt.Sprintf("1234567890%d", i),
			UserID: i + 1,
		}
		require.NoError(t, svc.Create(client))
	}

	first, total, err := svc.List(0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, first, 5)

	second, total, err := svc.List(1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, second, 2)
}
