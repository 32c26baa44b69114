// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs the farm state and chain meta with goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/kv"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
)

var _ kv.StoreCloser = (*LevelDB)(nil)

var (
	metricOpsCount  = metrics.LazyLoadCounterVec("lvldb_ops_count", []string{"op", "result"})
	metricBatchSize = metrics.LazyLoadHistogram("lvldb_batch_size", []int64{0, 1, 5, 10, 50, 100, 500, 1000, 5000})
)

// minimum of both options, in MiB and handles
const minCapacity = 16

// Options tunes a persistent instance.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

// LevelDB is a kv.Store over goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %v", path)
	}
	return open(stg, opts)
}

// NewMem opens a database that lives as long as the process, used by
// replays and tests.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheSize := max(opts.CacheSize, minCapacity)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, minCapacity),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		// two write buffers are alive at once
		WriteBuffer: cacheSize / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error satisfying IsNotFound when key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := ldb.db.Get(key, nil)
	switch {
	case err == nil:
		meter("get", "hit")
	case ldb.IsNotFound(err):
		meter("get", "miss")
	default:
		meter("get", "error")
	}
	return val, err
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return result("put", ldb.db.Put(key, value, nil))
}

func (ldb *LevelDB) Delete(key []byte) error {
	return result("delete", ldb.db.Delete(key, nil))
}

// Close releases the database, every later call fails.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{ldb.db, new(leveldb.Batch)}
}

// Iterate walks keys in [r.Start, r.Limit), a nil bound is open.
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	meter("iterate", "ok")
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

// batch buffers writes until Write commits them atomically.
type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int {
	return b.b.Len()
}

func (b *batch) Write() error {
	metricBatchSize().Observe(int64(b.b.Len()))
	return result("batch", b.db.Write(b.b, nil))
}

func meter(op, res string) {
	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": res})
}

func result(op string, err error) error {
	if err != nil {
		meter(op, "error")
	} else {
		meter(op, "ok")
	}
	return err
}
