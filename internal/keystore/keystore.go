// Package keystore persists wallet seeds at rest. Seeds are encrypted
// with a passphrase before they reach the database, the store itself
// never sees plaintext key material.
package keystore

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/keysmith-network/keysmith/pkg/wallet"
)

const (
	// DbFile is the name of the database file inside the datadir.
	DbFile = "keystore.db"

	dbTimeout = 5 * time.Second
)

var (
	// ErrWalletNotFound ...
	ErrWalletNotFound = errors.New("no wallet with the given name")
	// ErrWalletExists ...
	ErrWalletExists = errors.New("a wallet with the given name already exists")
	// ErrNullName ...
	ErrNullName = errors.New("wallet name must not be null")

	walletsBucket = []byte("wallets")
)

// Record is one stored wallet: its identity and the encrypted seed.
// The seed only leaves the record through Decrypt with the right
// passphrase.
type Record struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	EncryptedSeed string    `json:"encrypted_seed"`
	Network       string    `json:"network"`
	CreatedAt     time.Time `json:"created_at"`
}

// Decrypt recovers the plaintext seed of the record.
func (r *Record) Decrypt(passphrase string) ([]byte, error) {
	seedHex, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: r.EncryptedSeed,
		Passphrase: passphrase,
	})
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(seedHex)
}

// Store is a file backed wallet store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the keystore database in the given
// directory.
func Open(datadir string) (*Store, error) {
	db, err := bbolt.Open(
		filepath.Join(datadir, DbFile), 0600,
		&bbolt.Options{Timeout: dbTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("opening keystore: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(walletsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// StoreSeedOpts is the struct given to StoreSeed method
type StoreSeedOpts struct {
	Name       string
	Seed       []byte
	Network    string
	Passphrase string
}

func (o StoreSeedOpts) validate() error {
	if len(o.Name) <= 0 {
		return ErrNullName
	}
	if len(o.Seed) <= 0 {
		return errors.New("seed must not be null")
	}
	if len(o.Passphrase) <= 0 {
		return errors.New("passphrase must not be null")
	}
	return nil
}

// StoreSeed encrypts the seed under the passphrase and persists it as a
// named wallet record. Names are unique, storing an existing name fails.
func (s *Store) StoreSeed(opts StoreSeedOpts) (*Record, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	encryptedSeed, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  hex.EncodeToString(opts.Seed),
		Passphrase: opts.Passphrase,
	})
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:            uuid.New(),
		Name:          opts.Name,
		EncryptedSeed: encryptedSeed,
		Network:       opts.Network,
		CreatedAt:     time.Now().UTC(),
	}
	buf, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	if err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(walletsBucket)
		if bucket.Get([]byte(opts.Name)) != nil {
			return ErrWalletExists
		}
		return bucket.Put([]byte(opts.Name), buf)
	}); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns the wallet record with the given name.
func (s *Store) Get(name string) (*Record, error) {
	if len(name) <= 0 {
		return nil, ErrNullName
	}

	var record *Record
	if err := s.db.View(func(tx *bbolt.Tx) error {
		buf := tx.Bucket(walletsBucket).Get([]byte(name))
		if buf == nil {
			return ErrWalletNotFound
		}
		record = &Record{}
		if err := json.Unmarshal(buf, record); err != nil {
			return fmt.Errorf("corrupted wallet record: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every stored wallet record in name order.
func (s *Store) List() ([]*Record, error) {
	records := make([]*Record, 0)
	if err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(walletsBucket).ForEach(func(_, buf []byte) error {
			record := &Record{}
			if err := json.Unmarshal(buf, record); err != nil {
				return fmt.Errorf("corrupted wallet record: %w", err)
			}
			records = append(records, record)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the wallet record with the given name.
func (s *Store) Delete(name string) error {
	if len(name) <= 0 {
		return ErrNullName
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(walletsBucket)
		if bucket.Get([]byte(name)) == nil {
			return ErrWalletNotFound
		}
		return bucket.Delete([]byte(name))
	})
}
