package core

import (
	"encoding/binary"
	"errors"
)

// Position store record layout
//
//	bytes 0-3  magic "TTEX"
//	byte  4    schema version
//	bytes 5-8  cycle length, big-endian int32
//
// Version 2 stored a 2-byte cycle length at bytes 5-6 and is rejected.
const (
	StoreVersion    = 3
	StoreRecordSize = 9
)

var storeMagic = [4]byte{'T', 'T', 'E', 'X'}

var ErrShortRecord = errors.New("short position store record")

// PositionStore persists the learned cycle length in non-volatile memory
type PositionStore struct {
	mem         NVMemory
	offset      int64
	sanitySteps int32
}

// NewPositionStore creates a store for the record at offset 0 of mem.
// Loaded values above sanitySteps are rejected.
func NewPositionStore(mem NVMemory, sanitySteps int32) *PositionStore {
	return &PositionStore{mem: mem, sanitySteps: sanitySteps}
}

// Load reads and validates the stored cycle length. It returns false on a
// read error, wrong magic, version mismatch or out of range value; the
// caller must then treat the device as uncalibrated.
func (s *PositionStore) Load() (int32, bool) {
	var rec [StoreRecordSize]byte
	if n, err := s.mem.ReadAt(rec[:], s.offset); err != nil || n != StoreRecordSize {
		return 0, false
	}
	if [4]byte(rec[0:4]) != storeMagic {
		return 0, false
	}
	if rec[4] != StoreVersion {
		return 0, false
	}
	steps := int32(binary.BigEndian.Uint32(rec[5:9]))
	if steps < 0 || steps > s.sanitySteps {
		return 0, false
	}
	return steps, true
}

// Save writes the magic, version and cycle length
func (s *PositionStore) Save(steps int32) error {
	var rec [StoreRecordSize]byte
	copy(rec[0:4], storeMagic[:])
	rec[4] = StoreVersion
	binary.BigEndian.PutUint32(rec[5:9], uint32(steps))
	return s.write(rec[:])
}

// Clear zeroes the whole record so a later Load reports invalid
func (s *PositionStore) Clear() error {
	var rec [StoreRecordSize]byte
	return s.write(rec[:])
}

func (s *PositionStore) write(rec []byte) error {
	n, err := s.mem.WriteAt(rec, s.offset)
	if err != nil {
		return err
	}
	if n != len(rec) {
		return ErrShortRecord
	}
	return nil
}
