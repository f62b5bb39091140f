// Package snapshot persists the engine's snapshot state in a pebble
// key-value store so a run can be saved and continued with bit-identical
// ledger and order-state values.
package snapshot

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
)

// Key layout: meta (counters + per-symbol maps), f:<symbol> float
// records, o:<8-byte-seq> pending orders, p:<position-id> short
// positions.
var (
	keyMeta     = []byte("meta")
	prefixFloat = []byte("f:")
	prefixOrder = []byte("o:")
	prefixShort = []byte("p:")
	prefixSenti = []byte{0xff} // upper bound for full-prefix scans
)

// meta carries everything that is not a per-entity record.
type meta struct {
	Cycle           int64
	NextOrderSeq    int64
	NextEventSeq    int64
	ShortInterest   map[string]int64
	InventoryLevels map[string]float64
}

// Store wraps a pebble database holding at most one snapshot.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save replaces the stored snapshot with snap. The write is a single
// synced batch: either the whole snapshot lands or none of it does.
func (s *Store) Save(snap *engine.Snapshot) error {
	b := s.db.NewBatch()
	defer b.Close()

	// Clear any previous snapshot before writing the new one.
	for _, prefix := range [][]byte{prefixFloat, prefixOrder, prefixShort} {
		if err := b.DeleteRange(prefix, append(append([]byte{}, prefix...), prefixSenti...), nil); err != nil {
			return fmt.Errorf("clear %q: %w", prefix, err)
		}
	}

	m := meta{
		Cycle:           snap.Cycle,
		NextOrderSeq:    snap.NextOrderSeq,
		NextEventSeq:    snap.NextEventSeq,
		ShortInterest:   snap.ShortInterest,
		InventoryLevels: snap.InventoryLevels,
	}
	if err := setGob(b, keyMeta, m); err != nil {
		return err
	}
	for _, rec := range snap.Floats {
		if err := setGob(b, append(append([]byte{}, prefixFloat...), rec.Symbol...), rec); err != nil {
			return err
		}
	}
	for _, o := range snap.Orders {
		if err := setGob(b, append(append([]byte{}, prefixOrder...), seqKey(o.Seq)...), o); err != nil {
			return err
		}
	}
	for _, pos := range snap.Positions {
		if err := setGob(b, append(append([]byte{}, prefixShort...), pos.PositionID...), pos); err != nil {
			return err
		}
	}

	return s.db.Apply(b, pebble.Sync)
}

// Load reads the stored snapshot. The second return value is false when
// the store holds no snapshot yet.
func (s *Store) Load() (*engine.Snapshot, bool, error) {
	val, closer, err := s.db.Get(keyMeta)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	var m meta
	decErr := decodeGob(val, &m)
	closer.Close()
	if decErr != nil {
		return nil, false, fmt.Errorf("decode meta: %w", decErr)
	}

	snap := &engine.Snapshot{
		Cycle:           m.Cycle,
		NextOrderSeq:    m.NextOrderSeq,
		NextEventSeq:    m.NextEventSeq,
		ShortInterest:   m.ShortInterest,
		InventoryLevels: m.InventoryLevels,
	}

	if err := s.scan(prefixFloat, func(val []byte) error {
		var rec engine.FloatRecord
		if err := decodeGob(val, &rec); err != nil {
			return err
		}
		snap.Floats = append(snap.Floats, rec)
		return nil
	}); err != nil {
		return nil, false, fmt.Errorf("scan floats: %w", err)
	}

	if err := s.scan(prefixOrder, func(val []byte) error {
		var o domain.Order
		if err := decodeGob(val, &o); err != nil {
			return err
		}
		snap.Orders = append(snap.Orders, o)
		return nil
	}); err != nil {
		return nil, false, fmt.Errorf("scan orders: %w", err)
	}

	if err := s.scan(prefixShort, func(val []byte) error {
		var pos domain.ShortPosition
		if err := decodeGob(val, &pos); err != nil {
			return err
		}
		snap.Positions = append(snap.Positions, pos)
		return nil
	}); err != nil {
		return nil, false, fmt.Errorf("scan positions: %w", err)
	}

	return snap, true, nil
}

// scan iterates every key under prefix in key order.
func (s *Store) scan(prefix []byte, fn func(val []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: append(append([]byte{}, prefix...), prefixSenti...),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func setGob(b *pebble.Batch, key []byte, v any) error {
	val, err := encodeGob(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return b.Set(key, val, nil)
}
