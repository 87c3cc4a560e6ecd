package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelacruz/receipt-ledger-service/internal/repository"
)

func newBoltRepo(t *testing.T) *repository.BoltRepository {
	t.Helper()
	repo, err := repository.NewBoltRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBoltRepository_SnapshotRoundTrip(t *testing.T) {
	repo := newBoltRepo(t)

	want := sampleRecords()
	require.NoError(t, repo.SaveSnapshot(context.Background(), want))

	got, err := repo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBoltRepository_LoadWithoutSnapshot(t *testing.T) {
	repo := newBoltRepo(t)

	got, err := repo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoltRepository_SaveOverwritesPrevious(t *testing.T) {
	repo := newBoltRepo(t)

	records := sampleRecords()
	require.NoError(t, repo.SaveSnapshot(context.Background(), records))
	require.NoError(t, repo.SaveSnapshot(context.Background(), records[:1]))

	got, err := repo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestBoltRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	repo, err := repository.NewBoltRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSnapshot(context.Background(), sampleRecords()))
	require.NoError(t, repo.Close())

	reopened, err := repository.NewBoltRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
}

func TestBoltRepository_ImageRoundTrip(t *testing.T) {
	repo := newBoltRepo(t)

	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x01, 0x02}
	ref, err := repo.StoreImage(context.Background(), data, "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	got, mimeType, err := repo.LoadImage(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/png", mimeType)
}

func TestBoltRepository_RemoveImage(t *testing.T) {
	repo := newBoltRepo(t)

	ref, err := repo.StoreImage(context.Background(), []byte{0x01, 0x02}, "image/png")
	require.NoError(t, err)

	require.NoError(t, repo.RemoveImage(context.Background(), ref))

	_, _, err = repo.LoadImage(context.Background(), ref)
	assert.Error(t, err)
}

func TestBoltRepository_LoadImageMissingRef(t *testing.T) {
	repo := newBoltRepo(t)

	_, _, err := repo.LoadImage(context.Background(), "nope.png")
	assert.Error(t, err)
}
