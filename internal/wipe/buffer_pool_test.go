package wipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBufferSizes(t *testing.T) {
	tests := []struct {
		size    int
		wantCap int
	}{
		{1, 64 << 10},
		{64 << 10, 64 << 10},
		{64<<10 + 1, 1 << 20},
		{DefaultChunkSize, DefaultChunkSize},
		{10 << 20, 16 << 20},
		{maxPooledBuffer, maxPooledBuffer},
		{maxPooledBuffer + 1, maxPooledBuffer + 1},
	}

	for _, tt := range tests {
		buf := GetBuffer(tt.size)
		assert.Len(t, buf, tt.size)
		assert.Equal(t, tt.wantCap, cap(buf), "size %d", tt.size)
		PutBuffer(buf)
	}

	assert.Nil(t, GetBuffer(0))
	assert.Nil(t, GetBuffer(-5))
}

func TestPutBufferClears(t *testing.T) {
	buf := GetBuffer(1024)
	for i := range buf {
		buf[i] = 0x5A
	}
	PutBuffer(buf)

	// sync.Pool может вернуть и новый буфер; в обоих случаях он нулевой
	again := GetBuffer(64 << 10)
	for _, b := range again {
		if b != 0 {
			t.Fatalf("pooled buffer not cleared")
		}
	}
	PutBuffer(again)

	// чужие буферы игнорируются
	PutBuffer(make([]byte, 100))
	PutBuffer(nil)
}
