package emit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Manu343726/rtasm/pkg/log"
	"github.com/Manu343726/rtasm/pkg/utils"
	"golang.org/x/exp/slices"
)

// A recorded buffer operation
type Trace struct {
	Operation    string
	ContextStack []string
	Operands     map[string]string
	Error        error
}

func (t *Trace) Depth() int {
	return len(t.ContextStack)
}

func (t *Trace) Context() string {
	if len(t.ContextStack) > 0 {
		return t.ContextStack[len(t.ContextStack)-1]
	}

	return ""
}

func (t *Trace) joinOperands() string {
	fields := make([]string, 0, len(t.Operands))

	for _, name := range sortedKeys(t.Operands) {
		fields = append(fields, fmt.Sprintf("%v: %v", name, t.Operands[name]))
	}

	return strings.Join(fields, ", ")
}

func (t *Trace) String() string {
	if t.Error != nil {
		return fmt.Sprintf("%v %v error: %v", t.Operation, t.joinOperands(), t.Error)
	}

	return fmt.Sprintf("%v %v", t.Operation, t.joinOperands())
}

// Receives buffer traces
type Tracer interface {
	SaveTrace(t *Trace)
}

// A tracer that tags traces with the logical instruction being emitted
type TracerWithContextStack interface {
	Tracer
	CurrentContext() string
	PushContext(body string, args ...any)
	PopContext()
}

type tracerWithContextStack struct {
	Tracer
	ContextStack
}

func MakeTracerWithContextStack(tracer Tracer) TracerWithContextStack {
	return &tracerWithContextStack{
		Tracer:       tracer,
		ContextStack: MakeContextStack(),
	}
}

func (t *tracerWithContextStack) SaveTrace(trace *Trace) {
	trace.ContextStack = append([]string{}, t.stack...)
	t.Tracer.SaveTrace(trace)
}

type ContextStack struct {
	stack []string
}

func MakeContextStack() ContextStack {
	stack := ContextStack{
		stack: make([]string, 0, 4),
	}

	stack.PushContext("root")

	return stack
}

func (s *ContextStack) PushContext(body string, args ...any) {
	s.stack = append(s.stack, fmt.Sprintf(body, args...))
}

func (s *ContextStack) PopContext() {
	if len(s.stack) <= 1 {
		return
	}

	s.stack = s.stack[:len(s.stack)-1]
}

func (s *ContextStack) CurrentContext() string {
	return s.stack[len(s.stack)-1]
}

// Tracer writing every trace to a structured logger at trace level
type LogTracer struct {
	Logger *slog.Logger
}

func (t LogTracer) SaveTrace(trace *Trace) {
	args := make([]any, 0, 2*len(trace.Operands)+4)
	args = append(args, "context", trace.Context())

	for _, name := range sortedKeys(trace.Operands) {
		args = append(args, name, trace.Operands[name])
	}

	if trace.Error != nil {
		args = append(args, "error", trace.Error)
	}

	log.Trace(t.Logger, trace.Operation, args...)
}

// Tracer keeping traces in memory
type RecordingTracer struct {
	Traces []Trace
}

func (t *RecordingTracer) SaveTrace(trace *Trace) {
	t.Traces = append(t.Traces, *trace)
}

type tracedBuffer struct {
	TracerWithContextStack
	Buffer
}

// Returns a buffer forwarding to impl and tracing every emitted and patched word. The
// assembler pushes one context per logical instruction on buffers implementing TracerWithContextStack
func MakeTracedBuffer(impl Buffer, tracer TracerWithContextStack) Buffer {
	return &tracedBuffer{
		TracerWithContextStack: tracer,
		Buffer:                 impl,
	}
}

func (t *tracedBuffer) EmitW(word uint32) {
	t.SaveTrace(&Trace{
		Operation: "EmitW",
		Operands: map[string]string{
			"index": fmt.Sprint(t.Buffer.Len()),
			"word":  utils.FormatWord(word),
		},
	})

	t.Buffer.EmitW(word)
}

func (t *tracedBuffer) PatchW(index int, word uint32) {
	t.SaveTrace(&Trace{
		Operation: "PatchW",
		Operands: map[string]string{
			"index": fmt.Sprint(index),
			"old":   utils.FormatWord(t.Buffer.Word(index)),
			"word":  utils.FormatWord(word),
		},
	})

	t.Buffer.PatchW(index, word)
}

func (t *tracedBuffer) Mark(index int, origin string) {
	if m, ok := t.Buffer.(Marker); ok {
		m.Mark(index, origin)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := utils.Keys(m)
	slices.Sort(keys)
	return keys
}
