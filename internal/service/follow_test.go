package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	followee, err := svc.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, followee.ID)

	subscribed, err := svc.IsSubscribed(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	// The edge is directed.
	reverse, err := svc.IsSubscribed(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestSubscribeSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")
	_, err := svc.Subscribe(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestSubscribeTwice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollows)
}

func TestSubscribeMissingUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")
	_, err := svc.Subscribe(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnsubscribeWithoutFollow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	assert.ErrorIs(t, svc.Unsubscribe(context.Background(), alice.ID, bob.ID), ErrNotFound)
}

func TestSubscriptionsPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	for _, name := range []string{"a", "b", "c"} {
		author := createTestUser(t, db, "author_"+name)
		_, err := svc.Subscribe(ctx, follower.ID, author.ID)
		require.NoError(t, err)
	}

	users, total, err := svc.Subscriptions(ctx, follower.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	users, _, err = svc.Subscriptions(ctx, follower.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
