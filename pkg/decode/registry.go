package decode

import "github.com/solroute/arbengine/pkg/core"

// AccountKind tags what DecodeAccount produced, so the cache layer can route
// the result without a type switch on core.PoolRecord/TickArrayRecord/etc.
type AccountKind uint8

const (
	KindUnknown AccountKind = iota
	KindPool
	KindTickArray
	KindBinArray
	KindConfig
)

// DecodeResult is the registry's uniform output: exactly one of the payload
// fields is set, matching AccountKind.
type DecodeResult struct {
	Kind   AccountKind
	Pool   *core.PoolRecord
	Ticks  *core.TickArrayRecord
	Bins   *core.BinArrayRecord
	Config *core.ConfigRecord
}

// DecodeAccount dispatches an account update to the right venue decoder by
// owner program id, data length, and (where applicable) discriminator —
// the three discrimination axes named by the ingest-decoder contract.
func DecodeAccount(pubkey, owner core.Pubkey, data []byte) (DecodeResult, error) {
	switch owner {
	case ProgramCPMM_A:
		if matchesDisc(data, discCLMMConfig) {
			cfg, err := DecodeCLMMConfig(pubkey, data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindConfig, Config: cfg}, nil
		}
		pool, err := DecodeCPMM_A(pubkey, data)
		if err != nil {
			return DecodeResult{}, err
		}
		return DecodeResult{Kind: KindPool, Pool: pool}, nil

	case ProgramCPMM_B:
		pool, err := DecodeCPMM_B(pubkey, owner, data)
		if err != nil {
			return DecodeResult{}, err
		}
		return DecodeResult{Kind: KindPool, Pool: pool}, nil

	case ProgramCLMM:
		switch {
		case matchesDisc(data, discCLMMTickArray):
			ticks, err := DecodeCLMMTickArray(data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindTickArray, Ticks: ticks}, nil
		case matchesDisc(data, discCLMMConfig):
			cfg, err := DecodeCLMMConfig(pubkey, data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindConfig, Config: cfg}, nil
		default:
			pool, err := DecodeCLMM(pubkey, data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindPool, Pool: pool}, nil
		}

	case ProgramDLMM:
		switch {
		case matchesDisc(data, discDLMMBinArray):
			bins, err := DecodeDLMMBinArray(data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindBinArray, Bins: bins}, nil
		case matchesDisc(data, discDLMMConfig):
			cfg, err := DecodeDLMMConfig(pubkey, data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindConfig, Config: cfg}, nil
		default:
			pool, err := DecodeDLMM(pubkey, data)
			if err != nil {
				return DecodeResult{}, err
			}
			return DecodeResult{Kind: KindPool, Pool: pool}, nil
		}
	}

	return DecodeResult{}, core.New(core.ErrDecode, "unrecognized owner program")
}
