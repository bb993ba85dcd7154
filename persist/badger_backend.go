package persist

import "github.com/dgraph-io/badger/v2"

// BadgerBackend is a Backend backed by an embedded badger.DB, for runs
// that need state to survive a process restart. Adapted from
// summarydb's BadgerBackend: the transaction helpers (txnGet/txnPut/
// txnDelete) and prefix-scan iteration carry over unchanged in spirit,
// generalized to the flat (namespace, key) key shape.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend wraps an already-open badger.DB.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// NewInMemoryBadgerBackend opens a badger.DB with no on-disk footprint,
// for tests that want BadgerBackend's exact code path without a
// filesystem dependency.
func NewInMemoryBadgerBackend() (*BadgerBackend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{db: db}, nil
}

// NewFileBadgerBackend opens (creating if needed) a badger.DB rooted at
// dir, for a ManifestStore that survives process restarts, mirroring
// summarydb's core/db.go on-disk open.
func NewFileBadgerBackend(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithTruncate(true).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) txnGet(key []byte) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, value != nil, err
}

func (b *BadgerBackend) txnPut(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *BadgerBackend) txnDelete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *BadgerBackend) Get(namespace, key string) ([]byte, bool, error) {
	return b.txnGet([]byte(namespacedKey(namespace, key)))
}

func (b *BadgerBackend) Put(namespace, key string, value []byte) error {
	return b.txnPut([]byte(namespacedKey(namespace, key)), value)
}

func (b *BadgerBackend) Delete(namespace, key string) error {
	return b.txnDelete([]byte(namespacedKey(namespace, key)))
}

func (b *BadgerBackend) Iterate(namespace string, fn func(key string, value []byte) error) error {
	prefix := []byte(namespace + "/")
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(prefix):])
			if err := item.Value(func(val []byte) error {
				cp := append([]byte(nil), val...)
				return fn(key, cp)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
