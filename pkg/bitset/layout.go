package bitset

import "encoding/binary"

// PutUint32BE and friends back the block-file on-disk layout, which is
// big-endian throughout. PutUint64LE and friends back the raw-device
// header and free-list pages, which are little-endian.

func PutUint32BE(dst []byte, v uint32) { binary.BigEndian.PutUint32(dst, v) }
func Uint32BE(src []byte) uint32       { return binary.BigEndian.Uint32(src) }

func PutInt64BE(dst []byte, v int64) { binary.BigEndian.PutUint64(dst, uint64(v)) }
func Int64BE(src []byte) int64       { return int64(binary.BigEndian.Uint64(src)) }

func PutInt32BE(dst []byte, v int32) { binary.BigEndian.PutUint32(dst, uint32(v)) }
func Int32BE(src []byte) int32       { return int32(binary.BigEndian.Uint32(src)) }

func PutUint32LE(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func Uint32LE(src []byte) uint32       { return binary.LittleEndian.Uint32(src) }

func PutInt64LE(dst []byte, v int64) { binary.LittleEndian.PutUint64(dst, uint64(v)) }
func Int64LE(src []byte) int64       { return int64(binary.LittleEndian.Uint64(src)) }

func PutUint64LE(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
func Uint64LE(src []byte) uint64       { return binary.LittleEndian.Uint64(src) }
