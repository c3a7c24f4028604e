package mc

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/Manu343726/rtasm/pkg/log"
	"github.com/Manu343726/rtasm/pkg/rt/asm"
	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/Manu343726/rtasm/pkg/rt/emit"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var (
	colorOffset = color.New(color.FgCyan)
	colorWord   = color.New(color.FgMagenta)
	colorFormat = color.New(color.FgYellow)
	colorFields = color.New(color.FgHiBlack)
	colorOrigin = color.New(color.FgGreen)
)

// Sample code emitted by the listing command
var snippets = map[string]func(a *asm.Assembler) error{
	"prologue": prologue,
	"epilogue": epilogue,
	"loop":     loop,
	"vector":   vector,
}

func prologue(a *asm.Assembler) error {
	a.StackSave()
	a.Emit(asm.MustInstr("movwx"), operands.Reax, operands.IV(0x12345678))
	a.Emit(asm.MustInstr("movwx"), operands.Recx, operands.Mebx(operands.DP(0x10)))
	a.Emit(asm.MustInstr("addwx"), operands.Reax, operands.Recx)
	return a.Err()
}

func epilogue(a *asm.Assembler) error {
	a.Emit(asm.MustInstr("movwx"), operands.Mebx(operands.DP(0x10)), operands.Reax)
	a.StackLoad()
	a.JmpReg(operands.Redi)
	return a.Err()
}

func loop(a *asm.Assembler) error {
	top, done := a.NewLabel("top"), a.NewLabel("done")

	a.Emit(asm.MustInstr("movwx"), operands.Recx, operands.IC(16))
	a.Bind(top)
	a.Emit(asm.MustInstr("addwx"), operands.Reax, operands.Mebx(operands.DP(0)))
	a.Cmj(asm.MustInstr("cmpwn"), asm.CC_GT_n, done, operands.Reax, operands.IG(1000))
	a.Emit(asm.MustInstr("addwx"), operands.Rebx, operands.IC(4))
	a.Arj(asm.MustInstr("subwx"), asm.CC_NZ_x, top, operands.Recx, operands.IC(1))
	a.Bind(done)
	return a.Err()
}

func vector(a *asm.Assembler) error {
	width := "i"
	if a.Config().SIMD.Lanes == 2 {
		width = "c"
	}

	v := func(op, elem string) asm.VInstr {
		return asm.MustVInstr(op + width + elem)
	}

	a.EmitV(v("mov", "s"), operands.Xmm0, operands.Mebx(operands.DP(0)))
	a.EmitV(v("mov", "s"), operands.Xmm1, operands.Mebx(operands.DP(0x20)))
	a.EmitV(v("fma", "s"), operands.Xmm2, operands.Xmm0, operands.Xmm1)
	a.EmitV(v("rsq", "s"), operands.Xmm3, operands.Xmm2)
	a.EmitV(v("clt", "s"), operands.Xmm4, operands.Xmm3, operands.Xmm2)
	a.EmitV(v("and", "x"), operands.Xmm3, operands.Xmm4)
	a.EmitV(v("mov", "s"), operands.Mebx(operands.DP(0x40)), operands.Xmm3)
	return a.Err()
}

// Listing document written by the yaml format
type listingDocument struct {
	Target  string      `yaml:"target"`
	Snippet string      `yaml:"snippet"`
	Lines   []emit.Line `yaml:"lines"`
}

func snippetNames() []string {
	names := utils.Keys(snippets)
	slices.Sort(names)
	return names
}

// Emits a snippet for cfg and writes its listing to w in the given format (text, yaml, hex)
func writeListing(w io.Writer, cfg config.Config, snippet string, format string) error {
	body, ok := snippets[snippet]
	if !ok {
		return fmt.Errorf("unknown snippet '%v', expected one of %v", snippet, strings.Join(snippetNames(), ", "))
	}

	buf := emit.NewCodeBuffer()
	tracer := emit.MakeTracerWithContextStack(emit.LogTracer{Logger: log.Root()})

	a, err := asm.New(cfg, emit.MakeTracedBuffer(buf, tracer))
	if err != nil {
		return err
	}

	if err := body(a); err != nil {
		return err
	}

	if err := a.Finish(); err != nil {
		return err
	}

	switch format {
	case "text":
		for _, line := range buf.Listing() {
			colorOffset.Fprintf(w, "%04x: ", line.Offset)
			colorWord.Fprintf(w, "%v  ", utils.FormatWord(line.Word))
			colorFormat.Fprintf(w, "%-8v ", line.Format)
			colorFields.Fprint(w, line.Fields)

			if line.Origin != "" {
				colorOrigin.Fprintf(w, "  ; %v", line.Origin)
			}

			fmt.Fprintln(w)
		}
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(listingDocument{Target: cfg.String(), Snippet: snippet, Lines: buf.Listing()}); err != nil {
			return err
		}

		return encoder.Close()
	case "hex":
		var order binary.ByteOrder = binary.LittleEndian
		if cfg.BigEndian {
			order = binary.BigEndian
		}

		bytes := buf.Bytes(order)

		for i := 0; i < len(bytes); i += 4 {
			fmt.Fprintf(w, "%x\n", bytes[i:i+4])
		}
	default:
		return fmt.Errorf("unknown format '%v'", format)
	}

	return nil
}

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Print the machine code of a sample snippet",
	Long: `Emits one of the bundled sample snippets for the configured target and prints it.

Snippets:
` + strings.Join(utils.Map(snippetNames(), func(name string) string { return "  " + name }), "\n") + `

Formats:
  text  colored listing with the decoded fields of each word
  yaml  listing document
  hex   one word per line, in target byte order`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := target()
		if err != nil {
			return err
		}

		snippet, _ := cmd.Flags().GetString("snippet")
		format, _ := cmd.Flags().GetString("format")

		return writeListing(cmd.OutOrStdout(), cfg, snippet, format)
	},
}

func init() {
	McCmd.AddCommand(listingCmd)
	listingCmd.Flags().StringP("snippet", "s", "prologue", "snippet to emit (prologue, epilogue, loop, vector)")
	listingCmd.Flags().StringP("format", "f", "text", "output format (text, yaml, hex)")
}
