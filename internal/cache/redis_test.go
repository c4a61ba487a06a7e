package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRedisCache_GetAvailability_Hit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, 5*time.Minute)

	flightID := uuid.New()
	mock.ExpectGet(availabilityKey(flightID)).SetVal("42")

	seats, ok, err := c.GetAvailability(context.Background(), flightID)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetAvailability_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, 5*time.Minute)

	flightID := uuid.New()
	mock.ExpectGet(availabilityKey(flightID)).RedisNil()

	seats, ok, err := c.GetAvailability(context.Background(), flightID)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetAvailability_Corrupt(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, 5*time.Minute)

	flightID := uuid.New()
	mock.ExpectGet(availabilityKey(flightID)).SetVal("not-a-number")

	_, ok, err := c.GetAvailability(context.Background(), flightID)

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_SetAvailability(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, 5*time.Minute)

	flightID := uuid.New()
	mock.ExpectSet(availabilityKey(flightID), "149", 5*time.Minute).SetVal("OK")

	err := c.SetAvailability(context.Background(), flightID, 149)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_InvalidateAvailability(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, 5*time.Minute)

	flightID := uuid.New()
	mock.ExpectDel(availabilityKey(flightID)).SetVal(1)

	err := c.InvalidateAvailability(context.Background(), flightID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
