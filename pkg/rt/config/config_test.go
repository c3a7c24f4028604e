package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsR6())
	assert.True(t, cfg.Has64())
	assert.Equal(t, 8, cfg.PointerBytes())
	assert.Equal(t, "mips64 r6 ptr64 simd128", cfg.String())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"revision", func(c *Config) { c.Revision = 4 }},
		{"pointer width", func(c *Config) { c.PointerWidth = 16 }},
		{"64 bit pointers on mips32", func(c *Config) { c.ISA = ISA_MIPS32 }},
		{"lanes", func(c *Config) { c.SIMD.Lanes = 4 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestParse(t *testing.T) {
	isa, err := ParseISA("m32")
	require.NoError(t, err)
	assert.Equal(t, ISA_MIPS32, isa)

	_, err = ParseISA("x86")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	compat, err := ParseCompat("full")
	require.NoError(t, err)
	assert.Equal(t, Compat_FullPrecision, compat)
	assert.Equal(t, "full", compat.String())
}
