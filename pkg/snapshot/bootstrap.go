package snapshot

import "github.com/solroute/arbengine/pkg/core"

// DependencySet is everything a bootstrap fetch must request before a
// CLMM/DLMM pool can move from BOOTSTRAPPING to ACTIVE.
type DependencySet struct {
	Vault0, Vault1 core.Pubkey
	Config         core.Pubkey // zero if none
	TickArrayPDAs  []core.Pubkey
	TickArrayIdx   []int32
	BinArrayPDAs   []core.Pubkey
	BinArrayIdx    []int64
	BitmapExt      *core.Pubkey
}

// Dependencies derives the full bootstrap fetch list for a freshly-decoded
// pool record: ±radius arrays around the array holding the current tick
// (CLMM) or active bin (DLMM). The pool's bitmap is not consulted.
func Dependencies(rec *core.PoolRecord, programCLMM, programDLMM core.Pubkey, radius int) (DependencySet, error) {
	ds := DependencySet{Vault0: rec.Vault0, Vault1: rec.Vault1}

	switch rec.Venue {
	case core.VenueCPMMA, core.VenueCPMMB:
		if rec.CPMM != nil {
			ds.Config = rec.CPMM.AmmConfig
		}
		return ds, nil

	case core.VenueCLMM:
		st := rec.CLMM
		ds.Config = st.AmmConfig
		startIdx := TickArrayStartIndex(st.TickCurrent, st.TickSpacing)
		span := int32(core.TicksPerArray) * int32(st.TickSpacing)
		for i := -radius; i <= radius; i++ {
			idx := startIdx + int32(i)*span
			pda, err := TickArrayPDA(programCLMM, rec.Pool, idx)
			if err != nil {
				return ds, err
			}
			ds.TickArrayPDAs = append(ds.TickArrayPDAs, pda)
			ds.TickArrayIdx = append(ds.TickArrayIdx, idx)
		}
		if st.BitmapExtension != nil {
			ds.BitmapExt = st.BitmapExtension
		}
		return ds, nil

	case core.VenueDLMM:
		st := rec.DLMM
		activeIdx := BinArrayIndex(st.ActiveBinID)
		for i := -int64(radius); i <= int64(radius); i++ {
			idx := activeIdx + i
			pda, err := BinArrayPDA(programDLMM, rec.Pool, idx)
			if err != nil {
				return ds, err
			}
			ds.BinArrayPDAs = append(ds.BinArrayPDAs, pda)
			ds.BinArrayIdx = append(ds.BinArrayIdx, idx)
		}
		if st.BitmapExtension != nil {
			ds.BitmapExt = st.BitmapExtension
		}
		return ds, nil
	}

	return ds, core.New(core.ErrDecode, "unknown venue tag")
}
