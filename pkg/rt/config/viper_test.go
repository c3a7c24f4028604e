package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYaml(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")

	require.NoError(t, v.ReadConfig(strings.NewReader(`
revision: 5
isa: mips32
simd:
  lanes: 2
  rcp: full
big_endian: true
`)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Revision)
	assert.Equal(t, ISA_MIPS32, cfg.ISA)
	assert.Equal(t, 32, cfg.PointerWidth)
	assert.Equal(t, 2, cfg.SIMD.Lanes)
	assert.Equal(t, Compat_FullPrecision, cfg.SIMD.RCP)
	assert.Equal(t, Compat_Native, cfg.SIMD.FMA)
	assert.True(t, cfg.BigEndian)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]any{
		KeyISA:      "mips16",
		KeyFMA:      "fast",
		KeyRevision: 7,
		KeyLanes:    3,
	}

	for key, value := range cases {
		v := viper.New()
		SetDefaults(v)
		v.Set(key, value)

		_, err := Load(v)
		assert.ErrorIs(t, err, ErrInvalidConfig, key)
	}

	v := viper.New()
	SetDefaults(v)
	v.Set(KeyISA, "mips32")
	v.Set(KeyPointerWidth, 64)

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
