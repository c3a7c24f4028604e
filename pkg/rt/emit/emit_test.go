package emit

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/Manu343726/rtasm/pkg/log"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeBuffer(t *testing.T) {
	b := NewCodeBuffer()
	b.EmitW(encoding.AND | encoding.MRM(3, 3, 15))
	b.EmitW(encoding.NOP)
	b.PatchW(1, encoding.ADDIU|encoding.MIM(4, 0, 5))

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []uint32{0x006F1824, 0x24040005}, b.Words())

	assert.Equal(t, []byte{0x00, 0x6F, 0x18, 0x24, 0x24, 0x04, 0x00, 0x05}, b.Bytes(binary.BigEndian))
	assert.Equal(t, []byte{0x24, 0x18, 0x6F, 0x00, 0x05, 0x00, 0x04, 0x24}, b.Bytes(binary.LittleEndian))

	b.Reset()
	assert.Equal(t, 0, b.Len())
}

func TestListing(t *testing.T) {
	b := NewCodeBuffer()
	b.Mark(0, "andwx_rr(Rebx, Recx)")
	b.EmitW(encoding.AND | encoding.MRM(3, 3, 15))
	b.EmitW(encoding.LW | encoding.MDM(1, 29, 8))

	listing := b.Listing()
	require.Len(t, listing, 2)

	assert.Equal(t, 0, listing[0].Offset)
	assert.Equal(t, encoding.Format_R, listing[0].Format)
	assert.Equal(t, "andwx_rr(Rebx, Recx)", listing[0].Origin)
	assert.Equal(t, 4, listing[1].Offset)
	assert.Equal(t, encoding.Format_I, listing[1].Format)
	assert.Equal(t, "", listing[1].Origin)

	assert.Equal(t, "0000: 0x006F1824  R        opcode=0 rs=3 rt=15 rd=3 sa=0 funct=36  ; andwx_rr(Rebx, Recx)", listing[0].String())
}

func TestTracedBuffer(t *testing.T) {
	impl := NewCodeBuffer()
	recorder := &RecordingTracer{}
	tracer := MakeTracerWithContextStack(recorder)
	b := MakeTracedBuffer(impl, tracer)

	tracer.PushContext("movwx_ri(%v)", "Reax")
	b.EmitW(encoding.NOP)
	tracer.PopContext()
	b.PatchW(0, encoding.ADDIU)

	assert.Equal(t, 1, impl.Len())
	assert.Equal(t, encoding.ADDIU, impl.Word(0))

	require.Len(t, recorder.Traces, 2)
	assert.Equal(t, "EmitW", recorder.Traces[0].Operation)
	assert.Equal(t, "movwx_ri(Reax)", recorder.Traces[0].Context())
	assert.Equal(t, 2, recorder.Traces[0].Depth())
	assert.Equal(t, "EmitW index: 0, word: 0x00000000", recorder.Traces[0].String())

	assert.Equal(t, "PatchW", recorder.Traces[1].Operation)
	assert.Equal(t, "root", recorder.Traces[1].Context())
	assert.Equal(t, "0x00000000", recorder.Traces[1].Operands["old"])
}

func TestTracedBufferForwardsMarks(t *testing.T) {
	impl := NewCodeBuffer()
	b := MakeTracedBuffer(impl, MakeTracerWithContextStack(&RecordingTracer{}))

	m, ok := b.(Marker)
	require.True(t, ok)
	m.Mark(0, "origin")
	b.EmitW(encoding.NOP)

	assert.Equal(t, "origin", impl.Listing()[0].Origin)
}

func TestLogTracer(t *testing.T) {
	var out bytes.Buffer
	logger := log.New(log.Options{Level: log.LevelTrace, Console: &out})

	b := MakeTracedBuffer(NewCodeBuffer(), MakeTracerWithContextStack(LogTracer{Logger: logger}))
	b.EmitW(0x24040005)

	assert.Contains(t, out.String(), "msg=EmitW")
	assert.Contains(t, out.String(), "word=0x24040005")
	assert.Contains(t, out.String(), "context=root")

	var silent bytes.Buffer
	quiet := MakeTracedBuffer(NewCodeBuffer(), MakeTracerWithContextStack(LogTracer{Logger: slog.New(slog.NewTextHandler(&silent, nil))}))
	quiet.EmitW(0)
	assert.Empty(t, silent.String())
}
