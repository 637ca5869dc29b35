// Package multiblock implements MultiBlockContainer: a decorator that
// accepts arbitrarily large logical payloads and transparently splits them
// across physical blocks of a wrapped byte-block container, reassembling
// them on read.
//
// Every physical block reserves its first 8 bytes for a pointer field,
// encoded as a signed big-endian int64: a non-negative value names the
// next physical block's id, while a negative value -1-L terminates the
// chain and encodes the logical length L in bytes. The remaining
// BlockSize-8 bytes carry payload.
package multiblock
