package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestRunRecoversPanics(t *testing.T) {
	app := &App{Logger: zaptest.NewLogger(t)}

	err := app.Run(context.Background(), "test", func(context.Context) error {
		panic("device vanished")
	})
	assert.EqualError(t, err, "internal error: device vanished")
}

func TestRunPassesErrorsThrough(t *testing.T) {
	app := &App{Logger: zaptest.NewLogger(t)}
	want := errors.New("backend down")

	err := app.Run(context.Background(), "test", func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)

	// an interrupted action ends quietly
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = app.Run(ctx, "test", func(ctx context.Context) error { return ctx.Err() })
	assert.Nil(t, err)
}
