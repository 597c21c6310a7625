package s3

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vaultgraph/blobstore"
)

func newTestCommitStore() (*CommitStore, *fakeS3, *fakeDDB) {
	objects := newFakeS3()
	ddb := newFakeDDB()
	store := NewCommitStore(NewStore(objects, "bucket", WithPrefix("graphs")), ddb, "commits")
	return store, objects, ddb
}

func TestCommitStore_PutOpen(t *testing.T) {
	store, _, _ := newTestCommitStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "g.grphst")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "g.grphst", []byte("v1")))
	require.NoError(t, store.Put(ctx, "g.grphst", []byte("v2")))

	data, _, err := blobstore.Get(ctx, store, "g.grphst", 0)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"g.grphst"}, names)
}

func TestCommitStore_ConcurrentWriterRetries(t *testing.T) {
	store, _, ddb := newTestCommitStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "g.grphst", []byte("base")))

	// Another writer commits version 2 between our read and our commit.
	ddb.beforePut = func() {
		require.NoError(t, store.Put(ctx, "g.grphst", []byte("racer")))
	}
	require.NoError(t, store.Put(ctx, "g.grphst", []byte("mine")))

	version, _, err := store.latest(ctx, "g.grphst")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)

	data, _, err := blobstore.Get(ctx, store, "g.grphst", 0)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestCommitStore_RetriesExhausted(t *testing.T) {
	store, objects, ddb := newTestCommitStore()
	store.retries = 1
	ctx := context.Background()

	ddb.beforePut = func() {
		require.NoError(t, store.Put(ctx, "g.grphst", []byte("racer")))
	}
	err := store.Put(ctx, "g.grphst", []byte("mine"))
	require.ErrorIs(t, err, ErrConcurrentModification)

	// The losing upload is removed.
	assert.Len(t, objects.objects, 1)
}

func TestCommitStore_Delete(t *testing.T) {
	store, objects, _ := newTestCommitStore()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, store.Put(ctx, "g.grphst", []byte(fmt.Sprint(i))))
	}
	require.NoError(t, store.Put(ctx, "other.grphst", []byte("x")))

	require.NoError(t, store.Delete(ctx, "g.grphst"))

	_, err := store.Open(ctx, "g.grphst")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Len(t, objects.objects, 1)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.grphst"}, names)
}

func TestLogicalName(t *testing.T) {
	name, ok := logicalName("my.vault.grphst.v12-7f1c9a3e-0d7b-4c55-9b1e-2f7a6a1b0c3d")
	require.True(t, ok)
	assert.Equal(t, "my.vault.grphst", name)

	_, ok = logicalName("plain.grphst")
	assert.False(t, ok)
}
