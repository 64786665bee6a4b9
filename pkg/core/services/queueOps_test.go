package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

func TestGetRotationQueue_ExistingQueue(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"b", "a"}
	directory := sectorDirectory("a", "b")

	result, err := GetRotationQueue(context.Background(), store, directory, testLocks(), zap.NewNop(), adminActor, sectorScope)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, result.Order)
	assert.Empty(t, result.PrunedPersonIDs)
	// Unchanged queues are not rewritten.
	assert.Zero(t, store.replaceQueueCalls)
}

func TestGetRotationQueue_InitializesAndPersists(t *testing.T) {
	store := newMockStore()
	directory := sectorDirectory("c", "a", "b")

	result, err := GetRotationQueue(context.Background(), store, directory, testLocks(), zap.NewNop(), adminActor, sectorScope)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, result.Order)
	assert.Equal(t, 1, store.replaceQueueCalls)
	assert.Equal(t, []string{"c", "a", "b"}, store.queues[sectorScope.Key()])
}

func TestGetRotationQueue_PrunesAndPersists(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"ghost", "a", "b"}
	directory := sectorDirectory("a", "b")

	result, err := GetRotationQueue(context.Background(), store, directory, testLocks(), zap.NewNop(), adminActor, sectorScope)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, result.Order)
	assert.Equal(t, []string{"ghost"}, result.PrunedPersonIDs)
	assert.Equal(t, []string{"a", "b"}, store.queues[sectorScope.Key()])
}

func TestGetRotationQueue_ReadOnlyActorAllowed(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"a", "b"}
	eng := engineer("a")

	result, err := GetRotationQueue(context.Background(), store, sectorDirectory("a", "b"), testLocks(), zap.NewNop(), eng, sectorScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Order)
}

func TestReorderRotation_Valid(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"a", "b", "c"}
	directory := sectorDirectory("a", "b", "c")

	result, err := ReorderRotation(context.Background(), store, directory, testLocks(), zap.NewNop(), adminActor, sectorScope, []string{"c", "a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, result.Order)
	assert.Equal(t, []string{"c", "a", "b"}, store.queues[sectorScope.Key()])
}

func TestReorderRotation_InvalidOrderLeavesQueueUnchanged(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"a", "b", "c"}
	directory := sectorDirectory("a", "b", "c")

	_, err := ReorderRotation(context.Background(), store, directory, testLocks(), zap.NewNop(), adminActor, sectorScope, []string{"c", "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidOrder)

	var invalid *model.InvalidOrderError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"b"}, invalid.Missing)

	// Nothing was persisted.
	assert.Zero(t, store.replaceQueueCalls)
	assert.Equal(t, []string{"a", "b", "c"}, store.queues[sectorScope.Key()])
}

func TestReorderRotation_Forbidden(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"a", "b"}
	eng := engineer("a")

	_, err := ReorderRotation(context.Background(), store, sectorDirectory("a", "b"), testLocks(), zap.NewNop(), eng, sectorScope, []string{"b", "a"})
	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.Zero(t, store.replaceQueueCalls)
}

func TestMoveToEndOfRotation(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"a", "b", "c"}
	directory := sectorDirectory("a", "b", "c")

	result, err := MoveToEndOfRotation(context.Background(), store, directory, testLocks(), zap.NewNop(), adminActor, sectorScope, "a")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c", "a"}, result.Order)
	assert.Equal(t, []string{"b", "c", "a"}, store.queues[sectorScope.Key()])
}

func TestMoveToEndOfRotation_UnknownPerson(t *testing.T) {
	store := newMockStore()
	store.queues[sectorScope.Key()] = []string{"a", "b"}

	_, err := MoveToEndOfRotation(context.Background(), store, sectorDirectory("a", "b"), testLocks(), zap.NewNop(), adminActor, sectorScope, "ghost")
	assert.ErrorIs(t, err, model.ErrPersonNotInQueue)
}
