package keystore

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSeedHex    = "000102030405060708090a0b0c0d0e0f"
	testPassphrase = "correct horse battery staple"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSeedRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seed, _ := hex.DecodeString(testSeedHex)

	record, err := store.StoreSeed(StoreSeedOpts{
		Name:       "main",
		Seed:       seed,
		Network:    "mainnet",
		Passphrase: testPassphrase,
	})
	require.NoError(t, err)
	assert.Equal(t, "main", record.Name)
	assert.NotEqual(t, record.ID.String(), "00000000-0000-0000-0000-000000000000")

	fetched, err := store.Get("main")
	require.NoError(t, err)
	assert.Equal(t, record.ID, fetched.ID)
	assert.Equal(t, "mainnet", fetched.Network)

	decrypted, err := fetched.Decrypt(testPassphrase)
	require.NoError(t, err)
	assert.Equal(t, seed, decrypted)
}

func TestDecryptWrongPassphrase(t *testing.T) {
	store := newTestStore(t)
	seed, _ := hex.DecodeString(testSeedHex)

	_, err := store.StoreSeed(StoreSeedOpts{
		Name:       "main",
		Seed:       seed,
		Network:    "mainnet",
		Passphrase: testPassphrase,
	})
	require.NoError(t, err)

	record, err := store.Get("main")
	require.NoError(t, err)

	_, err = record.Decrypt("wrong passphrase")
	assert.Error(t, err)
}

func TestDuplicateNameRejected(t *testing.T) {
	store := newTestStore(t)
	seed, _ := hex.DecodeString(testSeedHex)

	opts := StoreSeedOpts{
		Name:       "main",
		Seed:       seed,
		Network:    "mainnet",
		Passphrase: testPassphrase,
	}
	_, err := store.StoreSeed(opts)
	require.NoError(t, err)

	_, err = store.StoreSeed(opts)
	assert.Equal(t, ErrWalletExists, err)
}

func TestListAndDelete(t *testing.T) {
	store := newTestStore(t)
	seed, _ := hex.DecodeString(testSeedHex)

	for _, name := range []string{"alpha", "beta"} {
		_, err := store.StoreSeed(StoreSeedOpts{
			Name:       name,
			Seed:       seed,
			Network:    "testnet",
			Passphrase: testPassphrase,
		})
		require.NoError(t, err)
	}

	records, err := store.List()
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "alpha", records[0].Name)
	assert.Equal(t, "beta", records[1].Name)

	require.NoError(t, store.Delete("alpha"))
	records, err = store.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	assert.Equal(t, ErrWalletNotFound, store.Delete("alpha"))
	_, err = store.Get("alpha")
	assert.Equal(t, ErrWalletNotFound, err)
}

func TestFailingStoreSeed(t *testing.T) {
	store := newTestStore(t)
	seed, _ := hex.DecodeString(testSeedHex)

	_, err := store.StoreSeed(StoreSeedOpts{
		Seed: seed, Passphrase: testPassphrase,
	})
	assert.Equal(t, ErrNullName, err)

	_, err = store.StoreSeed(StoreSeedOpts{
		Name: "main", Passphrase: testPassphrase,
	})
	assert.Error(t, err)

	_, err = store.StoreSeed(StoreSeedOpts{
		Name: "main", Seed: seed,
	})
	assert.Error(t, err)
}
