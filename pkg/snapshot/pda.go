// Package snapshot assembles slot-coherent, read-only views of a single
// pool's simulation dependencies out of pkg/cache's live state.
package snapshot

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/solroute/arbengine/pkg/core"
)

// TickArrayPDA derives a CLMM tick-array account address. The start-index
// seed is big-endian — the critical interop detail the ingest decoders'
// numeric semantics call out explicitly; every other fixed-point field in
// this engine is little-endian.
func TickArrayPDA(programID, pool core.Pubkey, startIndex int32) (core.Pubkey, error) {
	seed := make([]byte, 4)
	binary.BigEndian.PutUint32(seed, uint32(startIndex))
	pk, _, err := solana.FindProgramAddress([][]byte{
		[]byte("tick_array"), pool.Bytes(), seed,
	}, programID)
	return pk, err
}

// BitmapExtensionPDA derives the CLMM bitmap-extension account, consulted
// for tick arrays outside +/-512 of the pool's bitmap window.
func BitmapExtensionPDA(programID, pool core.Pubkey) (core.Pubkey, error) {
	pk, _, err := solana.FindProgramAddress([][]byte{
		[]byte("pool_tick_array_bitmap_extension"), pool.Bytes(),
	}, programID)
	return pk, err
}

// BinArrayPDA derives a DLMM bin-array account address. The index seed is
// a signed 64-bit little-endian integer, unlike CLMM's big-endian
// tick-array seed — the two venues disagree on endianness here.
func BinArrayPDA(programID, pool core.Pubkey, arrayIndex int64) (core.Pubkey, error) {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, uint64(arrayIndex))
	pk, _, err := solana.FindProgramAddress([][]byte{
		[]byte("bin_array"), pool.Bytes(), seed,
	}, programID)
	return pk, err
}

// TickArrayStartIndex applies the negative-safe floor rule:
// floor(tickCurrent / (ticksPerArray*spacing)) * ticksPerArray * spacing.
func TickArrayStartIndex(tickCurrent int32, spacing uint16) int32 {
	span := int32(core.TicksPerArray) * int32(spacing)
	if span == 0 {
		return 0
	}
	q := tickCurrent / span
	if tickCurrent%span != 0 && (tickCurrent < 0) != (span < 0) {
		q--
	}
	return q * span
}

// BinArrayIndex applies floor(binId / binsPerArray), negative-safe.
func BinArrayIndex(binID int32) int64 {
	const n = int32(core.BinsPerArray)
	q := binID / n
	if binID%n != 0 && binID < 0 {
		q--
	}
	return int64(q)
}
