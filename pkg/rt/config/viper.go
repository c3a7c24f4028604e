package config

import (
	"github.com/spf13/viper"
)

// Configuration keys read by Load()
const (
	KeyRevision     = "revision"
	KeyISA          = "isa"
	KeyPointerWidth = "pointer_width"
	KeyLanes        = "simd.lanes"
	KeyFMA          = "simd.fma"
	KeyRCP          = "simd.rcp"
	KeyRSQ          = "simd.rsq"
	KeyBigEndian    = "big_endian"
)

// Registers the Default() values of every key but the pointer width, which follows the ISA
// unless set
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault(KeyRevision, d.Revision)
	v.SetDefault(KeyISA, d.ISA.String())
	v.SetDefault(KeyLanes, d.SIMD.Lanes)
	v.SetDefault(KeyFMA, d.SIMD.FMA.String())
	v.SetDefault(KeyRCP, d.SIMD.RCP.String())
	v.SetDefault(KeyRSQ, d.SIMD.RSQ.String())
	v.SetDefault(KeyBigEndian, d.BigEndian)
}

// Builds and validates a configuration from the keys of v (config file, environment, flags).
// Without an explicit pointer width, pointers are as wide as the ISA registers
func Load(v *viper.Viper) (Config, error) {
	isa, err := ParseISA(v.GetString(KeyISA))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Revision:     v.GetInt(KeyRevision),
		ISA:          isa,
		PointerWidth: 64,
		SIMD: SIMD{
			Lanes: v.GetInt(KeyLanes),
		},
		BigEndian: v.GetBool(KeyBigEndian),
	}

	switch {
	case v.IsSet(KeyPointerWidth):
		cfg.PointerWidth = v.GetInt(KeyPointerWidth)
	case isa == ISA_MIPS32:
		cfg.PointerWidth = 32
	}

	policies := []struct {
		key    string
		policy *Compat
	}{
		{KeyFMA, &cfg.SIMD.FMA},
		{KeyRCP, &cfg.SIMD.RCP},
		{KeyRSQ, &cfg.SIMD.RSQ},
	}

	for _, p := range policies {
		if *p.policy, err = ParseCompat(v.GetString(p.key)); err != nil {
			return Config{}, err
		}
	}

	return cfg, cfg.Validate()
}
