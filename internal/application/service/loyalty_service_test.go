package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverbeke/kassa-api/internal/application/service"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"github.com/mverbeke/kassa-api/pkg/apperror"
)

func newLoyaltyFixture() (*memStore, *service.LoyaltyService) {
	store := newMemStore()
	return store, service.NewLoyaltyService(&memLoyaltyRepo{store: store})
}

func TestCreateCard(t *testing.T) {
	_, svc := newLoyaltyFixture()

	card, err := svc.CreateCard(context.Background(), &service.LoyaltyCardInput{
		Number:       "LC-1001",
		CustomerName: "Jef Claes",
		Email:        "jef@example.be",
	})
	require.NoError(t, err)

	assert.Equal(t, enum.TierBronze, card.Tier)
	assert.Equal(t, 0, card.Points)
}

func TestCreateCardRequiresNumberAndName(t *testing.T) {
	_, svc := newLoyaltyFixture()

	_, err := svc.CreateCard(context.Background(), &service.LoyaltyCardInput{CustomerName: "No Number"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	_, err = svc.CreateCard(context.Background(), &service.LoyaltyCardInput{Number: "LC-1"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateCardDuplicateNumber(t *testing.T) {
	store, svc := newLoyaltyFixture()
	store.addCard(&entity.LoyaltyCard{Number: "LC-1001", CustomerName: "Existing"})

	_, err := svc.CreateCard(context.Background(), &service.LoyaltyCardInput{
		Number:       "LC-1001",
		CustomerName: "Clash",
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestGetCardByNumber(t *testing.T) {
	store, svc := newLoyaltyFixture()
	store.addCard(&entity.LoyaltyCard{Number: "LC-7", CustomerName: "Mia"})

	card, err := svc.GetCardByNumber(context.Background(), "LC-7")
	require.NoError(t, err)
	assert.Equal(t, "Mia", card.CustomerName)

	_, err = svc.GetCardByNumber(context.Background(), "LC-404")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestAwardPointsPromotesTier(t *testing.T) {
	store, svc := newLoyaltyFixture()
	card := store.addCard(&entity.LoyaltyCard{
		Number:       "LC-5",
		CustomerName: "Tom",
		Points:       90,
		Tier:         enum.TierBronze,
	})

	updated, err := svc.AwardPoints(context.Background(), card.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 120, updated.Points)
	assert.Equal(t, enum.TierSilver, updated.Tier)
	assert.NotNil(t, updated.LastUsed)
}

func TestAwardPointsRejectsNonPositive(t *testing.T) {
	store, svc := newLoyaltyFixture()
	card := store.addCard(&entity.LoyaltyCard{Number: "LC-5", CustomerName: "Tom"})

	_, err := svc.AwardPoints(context.Background(), card.ID, 0)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	_, err = svc.AwardPoints(context.Background(), card.ID, -10)
	require.Error(t, err)
}

func TestUpdateCardKeepsNumberWhenOmitted(t *testing.T) {
	store, svc := newLoyaltyFixture()
	card := store.addCard(&entity.LoyaltyCard{Number: "LC-5", CustomerName: "Tom", Points: 50})

	updated, err := svc.UpdateCard(context.Background(), card.ID, &service.LoyaltyCardInput{
		CustomerName: "Tom Janssens",
		Email:        "tom@example.be",
	})
	require.NoError(t, err)

	assert.Equal(t, "LC-5", updated.Number)
	assert.Equal(t, "Tom Janssens", updated.CustomerName)
	assert.Equal(t, 50, updated.Points)
}

func TestDeleteCardNotFound(t *testing.T) {
	_, svc := newLoyaltyFixture()

	err := svc.DeleteCard(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
