package sim

import (
	"math/big"

	"github.com/solroute/arbengine/pkg/core"
)

// Tick bounds mirror the teacher's clmm_tickerarray.go constants exactly.
const (
	MinTick = -443636
	MaxTick = 443636
)

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	// ratioConstants are 2^64-scaled per-bit multipliers for |tick| bit i,
	// copied from the teacher's getSqrtPriceX64FromTick bit ladder.
	ratioConstants = []string{
		"18444899583751176192", // bit 0x2
		"18443055278223355904", // bit 0x4
		"18439367220385607680", // bit 0x8
		"18431993317065453568", // bit 0x10
		"18417254355718170624", // bit 0x20
		"18387811781193609216", // bit 0x40
		"18329067761203558400", // bit 0x80
		"18212142134806163456", // bit 0x100
		"17980523815641700352", // bit 0x200
		"17526086738831433728", // bit 0x400
		"16651378430235570176", // bit 0x800
		"15030750278694412288", // bit 0x1000
		"12247334978884435968", // bit 0x2000
		"8131365268886854656",  // bit 0x4000
		"3584323654725218816",  // bit 0x8000
		"696457651848324352",   // bit 0x10000
		"26294789957507116",    // bit 0x20000
		"37481735321082",       // bit 0x40000
	}

	oddTickRatio  = mustBig("18445821805675395072")
	evenTickRatio = mustBig("18446744073709551616")
	pow64         = new(big.Int).Lsh(big.NewInt(1), 64)
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("sim: bad constant " + s)
	}
	return v
}

func mulRightShift64(val, mulBy *big.Int) *big.Int {
	r := new(big.Int).Mul(val, mulBy)
	return r.Quo(r, pow64)
}

// sqrtPriceX64FromTick computes Q64.64 sqrtPrice from a tick index using the
// same bit-ladder algorithm as the teacher's getSqrtPriceX64FromTick.
func sqrtPriceX64FromTick(tick int32) (*big.Int, error) {
	if int(tick) < MinTick || int(tick) > MaxTick {
		return nil, core.New(core.ErrMathOverflow, "clmm: tick out of range")
	}
	tickAbs := int(tick)
	if tickAbs < 0 {
		tickAbs = -tickAbs
	}

	var ratio *big.Int
	if tickAbs&0x1 != 0 {
		ratio = new(big.Int).Set(oddTickRatio)
	} else {
		ratio = new(big.Int).Set(evenTickRatio)
	}

	for i, constStr := range ratioConstants {
		bit := 0x2 << uint(i)
		if tickAbs&bit != 0 {
			ratio = mulRightShift64(ratio, mustBig(constStr))
		}
	}

	if tick > 0 {
		ratio = new(big.Int).Quo(new(big.Int).Set(maxUint128), ratio)
	}
	return ratio, nil
}
