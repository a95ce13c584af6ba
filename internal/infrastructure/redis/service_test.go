package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	opts, err := Options(mr.Addr(), "")
	require.NoError(t, err)

	svc := NewServiceWithOptions(opts)
	require.NotNil(t, svc)
	t.Cleanup(func() { svc.Close() })
	return svc, mr
}

func TestSessionRoundTrip(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveSession(ctx, "abc", []byte(`{"id":"abc"}`), time.Minute))
	assert.True(t, mr.Exists("intake:session:abc"))

	data, err := svc.LoadSession(ctx, "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(data))

	require.NoError(t, svc.DeleteSession(ctx, "abc"))
	_, err = svc.LoadSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveSession(ctx, "abc", []byte("{}"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := svc.LoadSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOptions(t *testing.T) {
	opts, err := Options("localhost:6379", "pw")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)

	opts, err = Options("redis://:secret@cache:6380/2", "")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = Options("redis://cache:6380/notadb", "")
	assert.Error(t, err)
}

func TestUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	opts, err := Options(addr, "")
	require.NoError(t, err)
	assert.Nil(t, NewServiceWithOptions(opts))
}
