package storage

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/lmercier/careerchat/internal/vector"
)

// fileMagic marks careerchat snapshot files.
var fileMagic = [4]byte{'C', 'C', 'S', '1'}

// FileStore persists snapshots in a flat binary file: magic, dimensions (4),
// build id (len-prefixed), record count (4), then per record: id (4),
// text (len-prefixed), embedding (dimensions * 4 bytes, little endian).
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path. The file is created on the
// first Save; parent directories are created as needed.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot atomically: a temp file is written then renamed
// over the target, so a serving process never reads a half-written snapshot.
func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	w := bufio.NewWriter(f)

	writeErr := func() error {
		if _, err := w.Write(fileMagic[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(snap.Dimensions)); err != nil {
			return err
		}
		if err := writeString(w, snap.BuildID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(snap.Records))); err != nil {
			return err
		}
		for _, rec := range snap.Records {
			if err := binary.Write(w, binary.LittleEndian, uint32(rec.ID)); err != nil {
				return err
			}
			if err := writeString(w, rec.Text); err != nil {
				return err
			}
			if _, err := w.Write(float32SliceToBytes(rec.Embedding)); err != nil {
				return err
			}
		}
		return w.Flush()
	}()
	if writeErr != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write snapshot: %w", writeErr)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back. Returns ErrNotFound when no snapshot exists.
func (s *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("%s is not a careerchat snapshot", s.path)
	}
	var dims uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	buildID, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("read build id: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read record count: %w", err)
	}

	records := make([]vector.Record, 0, count)
	vecBuf := make([]byte, int(dims)*4)
	for i := uint32(0); i < count; i++ {
		var id uint32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("read record %d id: %w", i, err)
		}
		text, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("read record %d text: %w", i, err)
		}
		if _, err := io.ReadFull(r, vecBuf); err != nil {
			return nil, fmt.Errorf("read record %d embedding: %w", i, err)
		}
		records = append(records, vector.Record{
			ID:        int(id),
			Text:      text,
			Embedding: bytesToFloat32Slice(vecBuf),
		})
	}
	return &Snapshot{
		BuildID:    buildID,
		Dimensions: int(dims),
		Records:    records,
	}, nil
}

// Close is a no-op for FileStore.
func (s *FileStore) Close() error {
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
