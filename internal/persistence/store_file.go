package persistence

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	fileOpDelete byte = 0
	fileOpSet    byte = 1

	// op, name length, payload size
	fileHeaderSize = 1 + 2 + 4
)

type fileRecordMeta struct {
	offset int64 // start of the payload
	size   uint32
}

// FileStore is an append-only record log. Every save appends a header, the
// course name and a gob payload; deletes append a tombstone. The latest record
// for a name wins when the index is rebuilt on open.
type FileStore struct {
	file    *os.File
	mu      sync.RWMutex
	records map[string]fileRecordMeta
}

func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create course directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open course file: %w", err)
	}
	store := &FileStore{
		file:    f,
		records: make(map[string]fileRecordMeta),
	}
	if err := store.loadIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return store, nil
}

func (s *FileStore) loadIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind course file: %w", err)
	}

	header := make([]byte, fileHeaderSize)
	var offset int64
	for {
		if _, err := io.ReadFull(s.file, header); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return fmt.Errorf("truncated course header: %w", err)
			}
			return fmt.Errorf("read course header: %w", err)
		}
		op := header[0]
		nameLen := binary.LittleEndian.Uint16(header[1:3])
		size := binary.LittleEndian.Uint32(header[3:7])

		name := make([]byte, nameLen)
		if _, err := io.ReadFull(s.file, name); err != nil {
			return fmt.Errorf("read course name: %w", err)
		}
		payloadOffset := offset + fileHeaderSize + int64(nameLen)
		offset = payloadOffset + int64(size)

		if _, err := s.file.Seek(int64(size), io.SeekCurrent); err != nil {
			return fmt.Errorf("seek past payload: %w", err)
		}
		if op == fileOpSet {
			s.records[string(name)] = fileRecordMeta{offset: payloadOffset, size: size}
		} else {
			delete(s.records, string(name))
		}
	}

	return nil
}

func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(snap); err != nil {
		return fmt.Errorf("encode course: %w", err)
	}
	if uint64(payload.Len()) > math.MaxUint32 {
		return fmt.Errorf("course %q payload too large: %d bytes", snap.Name, payload.Len())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offset, err := s.appendRecord(fileOpSet, snap.Name, payload.Bytes())
	if err != nil {
		return err
	}
	s.records[snap.Name] = fileRecordMeta{offset: offset, size: uint32(payload.Len())}
	return nil
}

func (s *FileStore) Load(_ context.Context, name string) (Snapshot, error) {
	s.mu.RLock()
	meta, ok := s.records[name]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, notFound(name)
	}

	payload := make([]byte, meta.size)
	if _, err := s.file.ReadAt(payload, meta.offset); err != nil {
		return Snapshot{}, fmt.Errorf("read course payload: %w", err)
	}
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode course: %w", err)
	}
	return snap, nil
}

func (s *FileStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.appendRecord(fileOpDelete, name, nil); err != nil {
		return err
	}
	delete(s.records, name)
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// appendRecord writes one record at the end of the log and returns the
// payload offset. Callers hold s.mu.
func (s *FileStore) appendRecord(op byte, name string, payload []byte) (int64, error) {
	if len(name) > math.MaxUint16 {
		return 0, fmt.Errorf("course name too long: %d bytes", len(name))
	}
	header := make([]byte, fileHeaderSize)
	header[0] = op
	binary.LittleEndian.PutUint16(header[1:3], uint16(len(name)))
	binary.LittleEndian.PutUint32(header[3:7], uint32(len(payload)))

	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek course end: %w", err)
	}
	if _, err := s.file.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	if _, err := s.file.Write([]byte(name)); err != nil {
		return 0, fmt.Errorf("write course name: %w", err)
	}
	if len(payload) > 0 {
		if _, err := s.file.Write(payload); err != nil {
			return 0, fmt.Errorf("write payload: %w", err)
		}
	}
	if err := s.file.Sync(); err != nil {
		return 0, fmt.Errorf("sync course file: %w", err)
	}
	return offset + fileHeaderSize + int64(len(name)), nil
}
