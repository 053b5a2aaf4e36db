package engine

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	artifactFile = "artifact.bin"
	metadataFile = "metadata.json"
)

// Store persists the artifact bundle and its metadata document under a
// model directory. Writes go to a temporary file in the same directory and
// are published with a rename, so a concurrently running reader never
// observes a partially written bundle.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists the artifact and metadata as a unit, replacing any prior
// bundle.
func (s *Store) Save(artifact *Artifact, meta *Metadata) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	if err := s.writeArtifact(artifact); err != nil {
		return err
	}
	return s.writeMetadata(meta)
}

// Load deserializes the most recently saved artifact and rebuilds its
// derived state. Returns ErrModelNotTrained when nothing has been saved.
func (s *Store) Load() (*Artifact, error) {
	f, err := os.Open(filepath.Join(s.dir, artifactFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelNotTrained
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	artifact := &Artifact{}
	if err := gob.NewDecoder(f).Decode(artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	artifact.finalize()
	return artifact, nil
}

// Metadata reads the metadata document saved alongside the artifact.
// Returns ErrModelNotTrained when nothing has been saved.
func (s *Store) Metadata() (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelNotTrained
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	meta := &Metadata{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

func (s *Store) writeArtifact(artifact *Artifact) error {
	tmp, err := os.CreateTemp(s.dir, artifactFile+".*")
	if err != nil {
		return fmt.Errorf("create artifact temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(artifact); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, artifactFile)); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

func (s *Store) writeMetadata(meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, metadataFile+".*")
	if err != nil {
		return fmt.Errorf("create metadata temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close metadata temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, metadataFile)); err != nil {
		return fmt.Errorf("publish metadata: %w", err)
	}
	return nil
}
