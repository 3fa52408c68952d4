package ecs

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/milk9111/isocore/ecs/component"
	"go.uber.org/zap"
)

var ErrCorruptSave = errors.New("ecs: corrupt save data")

const saveVersion uint16 = 1

var saveMagic = [4]byte{'I', 'S', 'O', 'C'}

// record is the fixed-size payload stored for each live entity.
type record struct {
	Enabled component.Mask
	Tag     [TagLength]byte
	Slice   Slice
}

var recordSize = binary.Size(record{})

func (r record) tag() string {
	tag := r.Tag[:]
	if i := bytes.IndexByte(tag, 0); i >= 0 {
		tag = tag[:i]
	}
	return string(tag)
}

// Save writes every live entity to path.
func (m *Manager) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ecs: save %s: %w", path, err)
	}
	if err := m.Encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("ecs: save %s: %w", path, err)
	}
	return f.Close()
}

// Load replaces the directory contents with the entities stored at path.
func (m *Manager) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ecs: load %s: %w", path, err)
	}
	defer f.Close()
	if err := m.Decode(f); err != nil {
		return fmt.Errorf("ecs: load %s: %w", path, err)
	}
	return nil
}

// Encode writes a header followed by one length-prefixed record per live
// entity.
func (m *Manager) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(saveMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, saveVersion); err != nil {
		return err
	}

	var payload bytes.Buffer
	payload.Grow(recordSize)
	for _, e := range m.entities {
		rec := record{
			Enabled: m.pool.Enabled(e.id),
			Slice:   m.pool.Slice(e.id),
		}
		copy(rec.Tag[:], m.pool.Tag(e.id))

		payload.Reset()
		if err := binary.Write(&payload, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("encode entity %d: %w", e.id, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(payload.Len())); err != nil {
			return err
		}
		if _, err := bw.Write(payload.Bytes()); err != nil {
			return err
		}
	}

	m.logger.Debug("saved entities", zap.Int("count", len(m.entities)), zap.Int("record_size", recordSize))
	return bw.Flush()
}

// Decode reads every record from r, resets the directory and recreates the
// entities. Ids are allocated afresh; tags, bitsets and components round
// trip. Nothing is changed if r is malformed or holds more entities than
// the pool could fit.
func (m *Manager) Decode(r io.Reader) error {
	records, err := readRecords(bufio.NewReader(r))
	if err != nil {
		return err
	}

	if free := m.freeAfterReset(); len(records) > free {
		return fmt.Errorf("%w: %d records, %d slots free after reset", ErrPoolExhausted, len(records), free)
	}

	m.Reset()
	for i, rec := range records {
		e, err := m.AddEntity(rec.tag())
		if err != nil {
			return fmt.Errorf("restore record %d: %w", i, err)
		}
		m.pool.SetSlice(e.id, rec.Slice)
		if err := m.pool.SetEnabled(e.id, rec.Enabled); err != nil {
			return fmt.Errorf("restore record %d: %w", i, err)
		}
	}
	m.Update()

	m.logger.Debug("loaded entities", zap.Int("count", len(records)))
	return nil
}

// freeAfterReset counts the pool slots Reset would leave free.
func (m *Manager) freeAfterReset() int {
	owned := 0
	for _, list := range [][]Entity{m.entities, m.pending} {
		for _, e := range list {
			if m.pool.IsAlive(e.id) {
				owned++
			}
		}
	}
	return m.pool.Capacity() - m.pool.AliveCount() + owned
}

func readRecords(r io.Reader) ([]record, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptSave, err)
	}
	if magic != saveMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptSave, magic[:])
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrCorruptSave, err)
	}
	if version != saveVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, version)
	}

	var records []record
	payload := make([]byte, recordSize)
	for {
		var size uint32
		err := binary.Read(r, binary.LittleEndian, &size)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record %d length: %v", ErrCorruptSave, len(records), err)
		}
		if int(size) != recordSize {
			return nil, fmt.Errorf("%w: record %d has size %d, want %d", ErrCorruptSave, len(records), size, recordSize)
		}
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: record %d payload: %v", ErrCorruptSave, len(records), err)
		}

		var rec record
		if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorruptSave, len(records), err)
		}
		if rec.Enabled&^component.AllMask != 0 {
			return nil, fmt.Errorf("%w: record %d has unknown components %b", ErrCorruptSave, len(records), uint64(rec.Enabled))
		}
		if n := rec.Slice.Collider.NumPoints; n < 0 || n > component.MaxColliderPoints {
			return nil, fmt.Errorf("%w: record %d has %d collider points", ErrCorruptSave, len(records), n)
		}
		records = append(records, rec)
	}
}
