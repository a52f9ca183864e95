// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) { return src.Get(b.key(key)) },
		func(key []byte) (bool, error) { return src.Has(b.key(key)) },
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error { return src.Put(b.key(key), val) },
		func(key []byte) error { return src.Delete(b.key(key)) },
	}
}

// NewRanger creates a bucket ranger from the source ranger.
// Keys seen through its iterators have the bucket prefix stripped.
func (b Bucket) NewRanger(src Ranger) Ranger {
	return IterateFunc(func(prefix []byte) Iterator {
		return &bucketIterator{src.Iterate(b.key(prefix)), len(b)}
	})
}

// NewBatch creates a bucket batch from the source batch.
func (b Bucket) NewBatch(src Batch) Batch {
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{
		b.NewPutter(src),
		src.Len,
		src.Write,
	}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		Ranger
		NewBatchFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		b.NewRanger(src),
		func() Batch { return b.NewBatch(src.NewBatch()) },
	}
}

type bucketIterator struct {
	Iterator
	n int
}

func (i *bucketIterator) Key() []byte {
	if k := i.Iterator.Key(); len(k) >= i.n {
		return k[i.n:]
	}
	return nil
}
