// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// PrefixRange returns the key range covering all keys with the given prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{Start: r.Start, Limit: r.Limit}
}

// Bucket provides a logical key namespace on top of a kv store.
type Bucket string

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{src: src, prefix: []byte(b)}
}

type bucketStore struct {
	src    Store
	prefix []byte
}

func (s *bucketStore) key(key []byte) []byte {
	return append(append(make([]byte, 0, len(s.prefix)+len(key)), s.prefix...), key...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.key(key)) }

func (s *bucketStore) Bulk() Bulk {
	return &bucketBulk{src: s.src.Bulk(), store: s}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	start := s.key(r.Start)
	var limit []byte
	if len(r.Limit) == 0 {
		limit = util.BytesPrefix(s.prefix).Limit
	} else {
		limit = s.key(r.Limit)
	}
	return &bucketIterator{
		Iterator: s.src.Iterate(Range{Start: start, Limit: limit}),
		prefix:   len(s.prefix),
	}
}

type bucketBulk struct {
	src   Bulk
	store *bucketStore
}

func (b *bucketBulk) Put(key, val []byte) error { return b.src.Put(b.store.key(key), val) }
func (b *bucketBulk) Delete(key []byte) error   { return b.src.Delete(b.store.key(key)) }
func (b *bucketBulk) Len() int                  { return b.src.Len() }
func (b *bucketBulk) Write() error              { return b.src.Write() }

type bucketIterator struct {
	Iterator
	prefix int
}

// Key strips the bucket prefix.
func (i *bucketIterator) Key() []byte {
	return i.Iterator.Key()[i.prefix:]
}
