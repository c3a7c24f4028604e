package mc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func targets() map[string]config.Config {
	r5 := config.Default()
	r5.Revision = 5

	m32 := config.Default()
	m32.ISA = config.ISA_MIPS32
	m32.PointerWidth = 32

	wide := config.Default()
	wide.SIMD.Lanes = 2
	wide.BigEndian = true

	return map[string]config.Config{"r6": config.Default(), "r5": r5, "mips32": m32, "256": wide}
}

func TestEverySnippetAssembles(t *testing.T) {
	for name, cfg := range targets() {
		for snippet := range snippets {
			var out bytes.Buffer
			require.NoError(t, writeListing(&out, cfg, snippet, "text"), "%v %v", name, snippet)
			assert.NotEmpty(t, out.String())
		}
	}
}

func TestTextListingShowsOrigins(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeListing(&out, config.Default(), "prologue", "text"))

	assert.Contains(t, out.String(), "stack_sa()")
	assert.Contains(t, out.String(), "addwx_rr(Reax, Recx)")
}

func TestYamlListing(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeListing(&out, config.Default(), "loop", "yaml"))

	var doc listingDocument
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, "mips64 r6 ptr64 simd128", doc.Target)
	assert.Equal(t, "loop", doc.Snippet)
	require.NotEmpty(t, doc.Lines)

	for i, line := range doc.Lines {
		assert.Equal(t, 4*i, line.Offset)
	}
}

func TestHexListingByteOrder(t *testing.T) {
	little, big := config.Default(), config.Default()
	big.BigEndian = true

	var l, b bytes.Buffer
	require.NoError(t, writeListing(&l, little, "epilogue", "hex"))
	require.NoError(t, writeListing(&b, big, "epilogue", "hex"))

	lw, bw := strings.Fields(l.String()), strings.Fields(b.String())
	require.Equal(t, len(lw), len(bw))

	// ld $ra, 168($sp) follows the store of Reax
	assert.Equal(t, "a800bfdf", lw[1])
	assert.Equal(t, "dfbf00a8", bw[1])
}

func TestListingErrors(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, writeListing(&out, config.Default(), "main", "text"))
	assert.Error(t, writeListing(&out, config.Default(), "loop", "json"))

	invalid := config.Default()
	invalid.Revision = 4
	assert.ErrorIs(t, writeListing(&out, invalid, "loop", "text"), config.ErrInvalidConfig)
}

func TestSnippetNamesAreSorted(t *testing.T) {
	assert.Equal(t, []string{"epilogue", "loop", "prologue", "vector"}, snippetNames())
	assert.Contains(t, listingCmd.Long, "  epilogue\n  loop\n  prologue\n  vector\n")
}
