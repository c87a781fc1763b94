package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/neuroathlete-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "coach",
		Password: "p@ss word",
		Name:     "neuroathlete",
		SSLMode:  "disable",
	})
	assert.Equal(t, "postgres://coach:p%40ss%20word@db:5432/neuroathlete?application_name=neuroathlete-api&sslmode=disable", dsn)
}

func TestWaitForPingRetries(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}
	require.NoError(t, waitForPing(context.Background(), ping, 5, time.Millisecond))
	assert.Equal(t, 3, calls)
}

func TestWaitForPingGivesUp(t *testing.T) {
	cause := errors.New("connection refused")
	err := waitForPing(context.Background(), func(context.Context) error { return cause }, 2, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = waitForPing(ctx, func(context.Context) error { return cause }, 3, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
