// Package journal provides an append-only, gob-encoded on-disk log used to
// audit the mutations a migration run applied.
package journal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Journal is a generic interface for appending items of type T to disk and
// reading them back in order.
type Journal[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

// Items are stored as length-prefixed frames, each a self-contained gob
// stream. A frame carries its own type definitions, so a journal written
// across several process runs still replays with one pass.
type journalImpl[T any] struct {
	path   string
	file   *os.File
	mu     sync.Mutex
	length uint64
}

// New opens (or creates) the journal file at path for appending.
func New[T any](path string) (Journal[T], error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	return &journalImpl[T]{
		path: path,
		file: file,
	}, nil
}

// Append encodes one item at the end of the journal.
func (j *journalImpl[T]) Append(item T) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var frame bytes.Buffer
	if err := gob.NewEncoder(&frame).Encode(item); err != nil {
		slog.Error("failed to encode journal item", "path", j.path, "index", j.length, "error", err)
		return fmt.Errorf("encode journal item: %w", err)
	}

	var header [8]byte

	binary.BigEndian.PutUint64(header[:], uint64(frame.Len()))

	if _, err := j.file.Write(header[:]); err != nil {
		return fmt.Errorf("write journal frame header: %w", err)
	}

	if _, err := j.file.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("write journal frame: %w", err)
	}

	j.length++
	slog.Debug("journaled item", "path", j.path, "index", j.length-1)

	return nil
}

// Len returns the number of items appended through this handle.
func (j *journalImpl[T]) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.length
}

// Path returns the journal file location.
func (j *journalImpl[T]) Path() string {
	return j.path
}

// Range replays the journal from the start, invoking f for every item,
// including items written by previous runs.
func (j *journalImpl[T]) Range(f func(index uint64, item T) error) error {
	file, err := os.Open(j.path)
	if err != nil {
		return fmt.Errorf("open journal for reading: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	var header [8]byte

	for index := uint64(0); ; index++ {
		if _, err := io.ReadFull(file, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("read journal frame header %d: %w", index, err)
		}

		frame := make([]byte, binary.BigEndian.Uint64(header[:]))
		if _, err := io.ReadFull(file, frame); err != nil {
			return fmt.Errorf("read journal frame %d: %w", index, err)
		}

		var item T
		if err := gob.NewDecoder(bytes.NewReader(frame)).Decode(&item); err != nil {
			return fmt.Errorf("decode journal item %d: %w", index, err)
		}

		if err := f(index, item); err != nil {
			return err
		}
	}
}

// Close flushes and closes the underlying file.
func (j *journalImpl[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.file.Close()
}
