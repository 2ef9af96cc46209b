package wipe

import (
	"sort"
	"sync"
)

// Классы размеров буферов: чанки профилей (4, 8, 64 MiB) и буфер проверки
// попадают ровно в свой класс. Всё, что больше maxPooledBuffer, не кешируется.
var bufferClasses = []int{
	64 << 10,
	1 << 20,
	4 << 20,
	8 << 20,
	16 << 20,
	32 << 20,
	64 << 20,
	128 << 20,
}

// maxPooledBuffer: самый большой буфер, который переиспользуется
var maxPooledBuffer = bufferClasses[len(bufferClasses)-1]

var bufferPools = func() []*sync.Pool {
	pools := make([]*sync.Pool, len(bufferClasses))
	for i, size := range bufferClasses {
		pools[i] = &sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		}
	}
	return pools
}()

// classFor возвращает индекс класса для size или -1, если буфер не кешируется
func classFor(size int) int {
	i := sort.SearchInts(bufferClasses, size)
	if i == len(bufferClasses) {
		return -1
	}
	return i
}

// GetBuffer возвращает буфер длины size. Содержимое не определено:
// вызывающий сам заполняет его паттерном.
func GetBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}

	c := classFor(size)
	if c < 0 {
		return make([]byte, size)
	}
	return (*bufferPools[c].Get().(*[]byte))[:size]
}

// PutBuffer возвращает буфер в пул. Содержимое обнуляется: после прохода
// Random в буфере остаются случайные данные.
func PutBuffer(buf []byte) {
	c := classFor(cap(buf))
	if cap(buf) == 0 || c < 0 || bufferClasses[c] != cap(buf) {
		return // не из пула
	}

	full := buf[:cap(buf)]
	clear(full)
	bufferPools[c].Put(&full)
}
