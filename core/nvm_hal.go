package core

import "io"

// NVMemory is byte addressable non-volatile memory, such as an I2C EEPROM
type NVMemory interface {
	io.ReaderAt
	io.WriterAt
}

// MemoryNVM is a RAM backed NVMemory used by tests and host simulation
type MemoryNVM struct {
	Data []byte

	// ReadErr and WriteErr, when set, are returned by every access
	ReadErr  error
	WriteErr error
}

// NewMemoryNVM creates a blank (erased to 0xFF) memory of the given size
func NewMemoryNVM(size int) *MemoryNVM {
	m := &MemoryNVM{Data: make([]byte, size)}
	for i := range m.Data {
		m.Data[i] = 0xFF
	}
	return m
}

func (m *MemoryNVM) ReadAt(p []byte, off int64) (int, error) {
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	if off < 0 || off >= int64(len(m.Data)) {
		return 0, io.EOF
	}
	n := copy(p, m.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemoryNVM) WriteAt(p []byte, off int64) (int, error) {
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	if off < 0 || off+int64(len(p)) > int64(len(m.Data)) {
		return 0, io.ErrShortWrite
	}
	return copy(m.Data[off:], p), nil
}
