// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Snapshot file identification. A loader refuses files that were not
// produced by a compatible engine.
const (
	snapshotMagic         = "tessero-model"
	snapshotFormatVersion = 1
)

// SnapshotMetadata describes a stored model snapshot.
type SnapshotMetadata struct {
	// TrainedAt is when the snapshotted model was trained.
	TrainedAt time.Time

	// SavedAt is when the snapshot was written.
	SavedAt time.Time

	// EventCount, UserCount, and InteractionCount describe the
	// training data.
	EventCount       int
	UserCount        int
	InteractionCount int

	// Checksum is the SHA-256 of the uncompressed model payload.
	Checksum string
}

// snapshotFile is the on-disk format: a self-describing envelope around
// the gzip-compressed, gob-encoded model state.
type snapshotFile struct {
	Magic          string
	FormatVersion  int
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// snapshotState is the serializable form of a trainedState, including
// the training-time configuration so a restored model scores exactly
// like the instance that saved it.
type snapshotState struct {
	Config Config

	Interactions []Interaction
	Events       []Event
	Profiles     []UserProfile

	SimEventIDs []string
	SimMatrix   [][]float64

	Direct       map[string]map[string]float64
	CoOccurrence map[string]map[string]float64

	TrainedAt time.Time
}

// Event attributes pass through the engine opaquely; JSON-decoded
// values must be registered for gob.
//
//nolint:gochecknoinits // gob.Register must run before encode/decode
func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register("")
	gob.Register(float64(0))
	gob.Register(false)
	gob.Register(int(0))
	gob.Register(time.Time{})
}

// SaveModel serializes the entire trained state to a single snapshot
// file as one atomic unit (temp file plus rename). It fails with
// ErrNotReady if no trained model exists, or a PersistenceError on any
// I/O or encoding failure.
func (e *Engine) SaveModel(path string) error {
	state, err := e.state()
	if err != nil {
		return err
	}

	snap := snapshotState{
		Config:       *e.cfg,
		Interactions: state.store.Interactions(),
		Events:       state.store.Events(),
		Profiles:     profileSlice(state.store),
		SimEventIDs:  state.sim.eventIDs,
		SimMatrix:    state.sim.matrix,
		Direct:       state.affinity.direct,
		CoOccurrence: state.affinity.cooc,
		TrainedAt:    state.trainedAt,
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(&snap); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("encode model: %w", err)}
	}

	raw := payload.Bytes()
	sum := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("compress model: %w", err)}
	}
	if err := gzw.Close(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("finalize compression: %w", err)}
	}

	file := snapshotFile{
		Magic:         snapshotMagic,
		FormatVersion: snapshotFormatVersion,
		Metadata: SnapshotMetadata{
			TrainedAt:        state.trainedAt,
			SavedAt:          time.Now(),
			EventCount:       len(state.store.EventIDs()),
			UserCount:        len(state.store.UserIDs()),
			InteractionCount: len(state.store.Interactions()),
			Checksum:         hex.EncodeToString(sum[:]),
		},
		CompressedData: compressed.Bytes(),
	}

	if err := writeSnapshotAtomic(path, &file); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	e.logger.Info().
		Str("path", path).
		Int("size_bytes", compressed.Len()).
		Msg("model snapshot saved")

	return nil
}

// writeSnapshotAtomic writes the snapshot to a temp file and renames it
// into place so a crash never leaves a partial snapshot behind.
func writeSnapshotAtomic(path string, file *snapshotFile) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(file); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close snapshot file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

// LoadModel restores the entire trained state from a snapshot file and
// transitions the engine directly to ready. A missing, corrupt, or
// incompatible file fails with a PersistenceError and leaves the engine
// in its prior state.
func (e *Engine) LoadModel(path string) error {
	snap, meta, err := readSnapshot(path)
	if err != nil {
		return err
	}

	store := NewStore()
	if err := store.LoadData(snap.Interactions, snap.Events, snap.Profiles); err != nil {
		return &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("restore feature store: %w", err)}
	}

	sim := &SimilarityIndex{
		eventIDs: snap.SimEventIDs,
		index:    make(map[string]int, len(snap.SimEventIDs)),
		matrix:   snap.SimMatrix,
	}
	for i, id := range snap.SimEventIDs {
		sim.index[id] = i
	}
	if len(sim.matrix) != len(sim.eventIDs) {
		return &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("similarity matrix dimension %d does not match %d events", len(sim.matrix), len(sim.eventIDs))}
	}

	affinity := &AffinityModel{
		cfg:     snap.Config.Affinity,
		weights: snap.Config.Weights,
		direct:  snap.Direct,
		cooc:    snap.CoOccurrence,
	}
	if affinity.direct == nil {
		affinity.direct = make(map[string]map[string]float64)
	}
	if affinity.cooc == nil {
		affinity.cooc = make(map[string]map[string]float64)
	}
	affinity.AttachSimilarity(sim)

	state := &trainedState{
		store:     store,
		sim:       sim,
		affinity:  affinity,
		trainedAt: snap.TrainedAt,
	}

	e.mu.Lock()
	e.current = state
	e.mu.Unlock()

	e.logger.Info().
		Str("path", path).
		Int("events", meta.EventCount).
		Int("users", meta.UserCount).
		Time("trained_at", meta.TrainedAt).
		Msg("model snapshot loaded")

	return nil
}

// readSnapshot reads, validates, and decodes a snapshot file.
func readSnapshot(path string) (*snapshotState, *SnapshotMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var file snapshotFile
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("read snapshot file: %w", err)}
	}

	if file.Magic != snapshotMagic {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("not a tessero model snapshot")}
	}
	if file.FormatVersion != snapshotFormatVersion {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("unsupported snapshot format version %d (want %d)", file.FormatVersion, snapshotFormatVersion)}
	}

	gzr, err := gzip.NewReader(bytes.NewReader(file.CompressedData))
	if err != nil {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("decompress model: %w", err)}
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("read model payload: %w", err)}
	}

	sum := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(sum[:]); checksum != file.Metadata.Checksum {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("checksum mismatch: expected %s, got %s", file.Metadata.Checksum, checksum)}
	}

	var snap snapshotState
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("decode model: %w", err)}
	}

	return &snap, &file.Metadata, nil
}

// profileSlice flattens the store's profile map for serialization, in
// canonical user order.
func profileSlice(s *Store) []UserProfile {
	out := make([]UserProfile, 0, len(s.profiles))
	for _, id := range sortedProfileIDs(s) {
		out = append(out, s.profiles[id])
	}
	return out
}

func sortedProfileIDs(s *Store) []string {
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
