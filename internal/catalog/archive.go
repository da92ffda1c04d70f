package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/storage"
)

const snapshotPrefix = "snapshots/"

// ErrNoArchivedSnapshot is returned when the archive holds no snapshot.
var ErrNoArchivedSnapshot = errors.New("no archived catalog snapshot")

// SnapshotArchive keeps the last good snapshots so the service can start
// from one when the provider is unavailable.
type SnapshotArchive struct {
	store  storage.Storage
	keep   int
	logger zerolog.Logger
}

// NewSnapshotArchive creates an archive retaining the newest keep snapshots.
func NewSnapshotArchive(store storage.Storage, keep int) *SnapshotArchive {
	if keep < 1 {
		keep = 1
	}
	return &SnapshotArchive{
		store:  store,
		keep:   keep,
		logger: log.With().Str("component", "catalog_archive").Logger(),
	}
}

// snapshotKey sorts chronologically.
func snapshotKey(snap *Snapshot) string {
	return fmt.Sprintf("%s%s-%s.json", snapshotPrefix, snap.LoadedAt.UTC().Format("20060102T150405.000Z"), snap.LoadID)
}

// Save writes snap and prunes older snapshots.
func (a *SnapshotArchive) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Catalog)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	meta := &storage.Metadata{
		ContentType: "application/json",
		Version:     snap.Catalog.Version,
		LoadID:      snap.LoadID,
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
	}
	key := snapshotKey(snap)
	if err := a.store.Put(ctx, key, data, meta); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	a.logger.Debug().Str("key", key).Str("version", snap.Catalog.Version).Msg("Snapshot archived")

	return a.prune(ctx)
}

func (a *SnapshotArchive) prune(ctx context.Context) error {
	keys, err := a.store.List(ctx, snapshotPrefix)
	if err != nil {
		return err
	}
	for len(keys) > a.keep {
		if err := a.store.Delete(ctx, keys[0]); err != nil {
			return fmt.Errorf("failed to prune snapshot %s: %w", keys[0], err)
		}
		keys = keys[1:]
	}
	return nil
}

// Latest returns the newest archived snapshot that decodes and validates.
func (a *SnapshotArchive) Latest(ctx context.Context) (*Snapshot, error) {
	keys, err := a.store.List(ctx, snapshotPrefix)
	if err != nil {
		return nil, err
	}

	for i := len(keys) - 1; i >= 0; i-- {
		snap, err := a.read(ctx, keys[i])
		if err != nil {
			a.logger.Warn().Err(err).Str("key", keys[i]).Msg("Skipping unreadable archived snapshot")
			continue
		}
		return snap, nil
	}
	return nil, ErrNoArchivedSnapshot
}

func (a *SnapshotArchive) read(ctx context.Context, key string) (*Snapshot, error) {
	info, err := a.store.GetInfo(ctx, key)
	if err != nil {
		return nil, err
	}
	if info.Metadata == nil {
		return nil, fmt.Errorf("missing metadata")
	}

	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	if c.Version == "" {
		c.Version = info.Metadata.Version
	}

	source := info.Metadata.Source
	if !strings.HasPrefix(source, "archive:") {
		source = "archive:" + source
	}
	return &Snapshot{
		Catalog:  c,
		LoadedAt: info.Metadata.LoadedAt,
		LoadID:   info.Metadata.LoadID,
		Source:   source,
	}, nil
}
