package decode

import "github.com/solroute/arbengine/pkg/anchor"

// Account discriminators, derived the same way the teacher derives
// instruction discriminators: sha256("namespace:Name")[:8]. Anchor accounts
// use the "account" namespace.
var (
	discCPMMAPool = anchor.GetDiscriminator("account", "PoolState")
	discCLMMPool  = anchor.GetDiscriminator("account", "PoolState")
	discDLMMPool  = anchor.GetDiscriminator("account", "LbPair")

	discCLMMTickArray = anchor.GetDiscriminator("account", "TickArrayState")
	discDLMMBinArray  = anchor.GetDiscriminator("account", "BinArray")

	discCLMMConfig = anchor.GetDiscriminator("account", "AmmConfig")
	discDLMMConfig = anchor.GetDiscriminator("account", "PresetParameter")

	// Instruction discriminators. CLMM's swap discriminator is the exact
	// value the teacher's RayCLMMSwapInstruction hardcodes.
	discCPMMASwapIn = anchor.GetDiscriminator("global", "swap_base_input")
	discCLMMSwap    = []byte{43, 4, 237, 11, 26, 201, 30, 98}
	discDLMMSwap    = anchor.GetDiscriminator("global", "swap2")
)

// cpmmBSwapOpcode is Raydium AMM v4's single-byte instruction tag for a
// swap (non-Anchor program, no 8-byte discriminator).
const cpmmBSwapOpcode = 9


func matchesDisc(data, disc []byte) bool {
	if len(data) < len(disc) {
		return false
	}
	for i := range disc {
		if data[i] != disc[i] {
			return false
		}
	}
	return true
}
