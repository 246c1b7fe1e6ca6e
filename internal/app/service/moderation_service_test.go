package service

import (
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	service := NewContactService(repository.NewContactRepository(testDB))

	submission, err := service.Submit(ContactInput{
		Name:    "Asha",
		Email:   "ASHA@Example.com",
		Subject: "Delivery query",
		Message: "When do you deliver to Nashik?",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", submission.Email)
	assert.Equal(t, model.ContactStatusNew, submission.Status)

	t.Run("resolve", func(t *testing.T) {
		resolved, err := service.Resolve(submission.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ContactStatusResolved, resolved.Status)
	})

	t.Run("list filters by status", func(t *testing.T) {
		items, total, err := service.List("resolved", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)

		_, total, err = service.List("new", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("resolve unknown id", func(t *testing.T) {
		_, err := service.Resolve(99999)
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})
}

func TestSellerApplicationService(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	service := NewSellerApplicationService(repository.NewSellerApplicationRepository(testDB))

	application, err := service.Apply(SellerApplicationInput{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Phone:    "9123456789",
		FarmName: "Green Acres",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, application.Status)

	t.Run("approve", func(t *testing.T) {
		approved, err := service.SetStatus(application.ID, model.ApplicationStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusApproved, approved.Status)
	})

	t.Run("invalid status value", func(t *testing.T) {
		_, err := service.SetStatus(application.ID, model.ApplicationStatus("archived"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestNewsletterService(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	service := NewNewsletterService(repository.NewNewsletterRepository(testDB))

	t.Run("subscribe", func(t *testing.T) {
		assert.NoError(t, service.Subscribe("reader@example.com"))
	})

	t.Run("double subscribe is rejected", func(t *testing.T) {
		assert.ErrorIs(t, service.Subscribe("reader@example.com"), ErrAlreadySubscribed)
	})

	t.Run("unsubscribe then resubscribe flips the flag back", func(t *testing.T) {
		require.NoError(t, service.Unsubscribe("reader@example.com"))
		assert.ErrorIs(t, service.Unsubscribe("reader@example.com"), ErrNotSubscribed)

		require.NoError(t, service.Subscribe("reader@example.com"))

		subscribers, total, err := service.List(1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, subscribers, 1)
		assert.False(t, subscribers[0].Unsubscribed)
	})

	t.Run("admin removal deletes the row", func(t *testing.T) {
		subscribers, _, err := service.List(1, 20)
		require.NoError(t, err)
		require.Len(t, subscribers, 1)

		require.NoError(t, service.RemoveSubscriber(subscribers[0].ID))

		_, total, err := service.List(1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)

		assert.ErrorIs(t, service.RemoveSubscriber(subscribers[0].ID), ErrNotSubscribed)
	})
}
