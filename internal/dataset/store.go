package dataset

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/internal/errors"
	"inflationdash/ports"

	"golang.org/x/sync/errgroup"
)

// Store holds the four datasets, loaded once at startup and read-only afterwards.
// It is safe to share across sessions without synchronization.
type Store struct {
	datasets    map[dataset.ID]*dataset.Dataset
	notes       dataset.Notes
	fingerprint core.Hash
	loadedAt    time.Time
}

// Load reads every dataset from src concurrently. Any missing source or schema
// violation fails the whole load; there is no partial mode.
func Load(ctx context.Context, src ports.DatasetSource) (*Store, error) {
	start := time.Now()
	log.Printf("[DatasetStore] Loading datasets from %s", src.Describe())

	raws := make([]*dataset.RawTable, len(dataset.AllIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range dataset.AllIDs {
		i, id := i, id
		g.Go(func() error {
			raw, err := src.Read(gctx, id)
			if err != nil {
				return errors.LoadError(id.String(), err)
			}
			if raw == nil {
				return errors.LoadError(id.String(), core.ErrEmptySource)
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[DatasetStore] FAILED - %v", err)
		return nil, err
	}

	s := &Store{
		datasets: make(map[dataset.ID]*dataset.Dataset, len(dataset.AllIDs)),
		loadedAt: time.Now(),
	}
	for i, id := range dataset.AllIDs {
		raw := raws[i]
		if id == dataset.NotesID {
			notes, err := dataset.NotesFromRaw(raw)
			if err != nil {
				return nil, errors.LoadError(id.String(), errors.SchemaInvalid("notes schema invalid", err))
			}
			s.notes = notes
			continue
		}
		ds, err := dataset.FromRaw(id, raw)
		if err != nil {
			return nil, errors.LoadError(id.String(), errors.SchemaInvalid(fmt.Sprintf("%s schema invalid", id), err))
		}
		s.datasets[id] = ds
		log.Printf("[DatasetStore] %s: %d rows, %d entities", id, ds.Len(), len(ds.Entities()))
	}

	if len(s.datasets[dataset.Primary].Entities()) == 0 {
		return nil, errors.LoadError(dataset.Primary.String(), core.ErrEmptySource)
	}

	s.fingerprint = fingerprint(raws)
	log.Printf("[DatasetStore] Loaded %d datasets in %s (fingerprint %s)",
		len(dataset.AllIDs), time.Since(start).Round(time.Millisecond), s.fingerprint.Short())
	return s, nil
}

// NewStore assembles a Store from already-built datasets, used by tests and tooling
func NewStore(datasets map[dataset.ID]*dataset.Dataset, notes dataset.Notes) (*Store, error) {
	for _, id := range dataset.AllIDs {
		if id == dataset.NotesID {
			continue
		}
		if datasets[id] == nil {
			return nil, errors.LoadError(id.String(), core.ErrEmptySource)
		}
	}
	return &Store{datasets: datasets, notes: notes, loadedAt: time.Now()}, nil
}

// Dataset returns the dataset for id
func (s *Store) Dataset(id dataset.ID) (*dataset.Dataset, error) {
	ds, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownDataset, id)
	}
	return ds, nil
}

// Primary returns the quarterly series dataset
func (s *Store) Primary() *dataset.Dataset {
	return s.datasets[dataset.Primary]
}

func (s *Store) Notes() dataset.Notes { return s.notes }

// Entities returns the selectable catalog: every reference area in the primary dataset
func (s *Store) Entities() []string {
	return s.Primary().Entities()
}

// HasEntity reports whether entity may be selected
func (s *Store) HasEntity(entity string) bool {
	return s.Primary().HasEntity(entity)
}

// ValidateEntity rejects entities outside the primary catalog
func (s *Store) ValidateEntity(entity string) error {
	if !s.HasEntity(entity) {
		return fmt.Errorf("%w: %q", core.ErrUnknownEntity, entity)
	}
	return nil
}

// IsKnown reports whether entity appears in any dataset, notes included
func (s *Store) IsKnown(entity string) bool {
	for _, ds := range s.datasets {
		if ds.HasEntity(entity) {
			return true
		}
	}
	_, ok := s.notes.Lookup(entity)
	return ok
}

// ValidateKnownEntity is the lenient counterpart of ValidateEntity: it accepts
// entities with no primary rows as long as some dataset mentions them.
func (s *Store) ValidateKnownEntity(entity string) error {
	if !s.IsKnown(entity) {
		return fmt.Errorf("%w: %q", core.ErrUnknownEntity, entity)
	}
	return nil
}

// Fingerprint identifies the loaded content
func (s *Store) Fingerprint() core.Hash { return s.fingerprint }

func (s *Store) LoadedAt() time.Time { return s.loadedAt }

func fingerprint(raws []*dataset.RawTable) core.Hash {
	var b strings.Builder
	names := make([]string, 0, len(raws))
	for _, raw := range raws {
		names = append(names, fmt.Sprintf("%s:%d:%s", raw.Name, len(raw.Rows), strings.Join(raw.Headers, ",")))
	}
	sort.Strings(names)
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	for _, raw := range raws {
		for _, row := range raw.Rows {
			b.WriteString(strings.Join(row, "\x1f"))
			b.WriteByte('\n')
		}
	}
	return core.NewHash([]byte(b.String()))
}
