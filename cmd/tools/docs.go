package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/rtasm/pkg/rt/asm"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// A documented module: its text documentation and the tables it is generated from
type docModule struct {
	doc func() string
	raw func() any
}

var supportedModules = map[string]docModule{
	"encoding.formats": {formatsDoc, func() any { return encoding.Formats() }},
	"asm.instructions": {instructionsDoc, func() any { return []any{asm.Ops(), asm.VOps()} }},
	"asm.conditions": {conditionsDoc, func() any {
		return []any{asm.ConditionTables(5), asm.ConditionTables(6)}
	}},
	"asm.registers": {registersDoc, func() any {
		return []any{operands.PublicRegisters, operands.ScratchRegisters, operands.FixedRegisters, operands.VectorRegisters}
	}},
	"operands.classes": {classesDoc, func() any {
		return []any{operands.ImmediateClasses(), operands.DisplacementClasses()}
	}},
}

func moduleNames() []string {
	names := utils.Keys(supportedModules)
	slices.Sort(names)
	return names
}

func formatsDoc() string {
	return strings.Join(utils.Map(encoding.Formats(), func(f encoding.FormatDescriptor) string {
		return f.Documentation(0)
	}), "\n")
}

func instructionsDoc() string {
	var builder strings.Builder

	builder.WriteString("Scalar operations: [op][b|h|w|z][x|n|z][Z]\n\n")
	for _, op := range asm.Ops() {
		flags := ""
		if op.SetsFlags {
			flags = " Z"
		}

		fmt.Fprintf(&builder, "  %v  %-60v shapes: %v%v\n", op.Name, op.Description,
			utils.FormatSlice(op.Shapes.Shapes(), " "), flags)
	}

	builder.WriteString("\nVector operations: [op][i|c][x|n|s]\n\n")
	for _, op := range asm.VOps() {
		elems := ""
		for _, e := range []asm.Elem{asm.Elem_X, asm.Elem_N, asm.Elem_S} {
			if op.Elems.Has(e) {
				elems += e.String()
			}
		}

		fmt.Fprintf(&builder, "  %v  %-60v elements: %v\n", op.Name, op.Description, elems)
	}

	return builder.String()
}

func conditionsDoc() string {
	var builder strings.Builder

	for _, revision := range []int{5, 6} {
		for _, t := range asm.ConditionTables(revision) {
			fmt.Fprintf(&builder, "%v r%v\n\n", t.Name, t.Revision)

			for _, s := range t.Entries {
				template := s.Template
				switch {
				case s.Never:
					template = "(nothing, never holds)"
				case s.Always:
					template = "(unconditional jump)"
				}

				fmt.Fprintf(&builder, "  %-5v %v\n", s.Cond, template)
			}

			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func registersDoc() string {
	var builder strings.Builder

	groups := []struct {
		name      string
		registers []operands.Register
	}{
		{"Public", operands.PublicRegisters},
		{"Scratch", operands.ScratchRegisters},
		{"Fixed", operands.FixedRegisters},
	}

	for _, g := range groups {
		fmt.Fprintf(&builder, "%v registers\n\n", g.name)

		for _, r := range g.registers {
			fmt.Fprintf(&builder, "  %-5v %-6v %2v\n", r.Alias, r.Name, r.Index)
		}

		builder.WriteString("\n")
	}

	builder.WriteString("Vector registers (256 bit pairs add 16)\n\n")
	for _, v := range append(append([]operands.VectorRegister{}, operands.VectorRegisters...), operands.TmmQ, operands.TmmM) {
		fmt.Fprintf(&builder, "  %-5v %-5v %-5v %v\n", v.Alias, v.Name(0), v.Name(1), v.Class)
	}

	return builder.String()
}

func classesDoc() string {
	var builder strings.Builder

	builder.WriteString("Immediate classes (arithmetic tier, logic tier)\n\n")
	for _, c := range operands.ImmediateClasses() {
		fmt.Fprintf(&builder, "  %v  %v  %v %v\n", c.Name, utils.FormatWord(c.Mask), c.ArithmeticTier, c.LogicTier)
	}

	builder.WriteString("\nDisplacement classes (tier)\n\n")
	for _, c := range operands.DisplacementClasses() {
		fmt.Fprintf(&builder, "  %v  %v  %v\n", c.Name, utils.FormatWord(c.Mask), c.Tier)
	}

	return builder.String()
}

// Returns the documentation of a module, or a dump of its tables when raw is set
func documentation(module string, raw bool) (string, error) {
	m, ok := supportedModules[module]
	if !ok {
		return "", fmt.Errorf("unknown module '%v'", module)
	}

	if raw {
		return spew.Sdump(m.raw()), nil
	}

	return m.doc(), nil
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show rtasm documentation",
	Long: `Dumps the documentation of the specified rtasm module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.
With --raw the tables the documentation is generated from are dumped instead.

Supported modules:
` + strings.Join(utils.Map(moduleNames(), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.MaximumNArgs(1), cobra.MinimumNArgs(1)),
	ValidArgs: moduleNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		doc, err := documentation(args[0], raw)
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		}

		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("error creating file: %w", err)
		}
		defer file.Close()

		_, err = fmt.Fprintln(file, doc)
		return err
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
	docsCmd.Flags().Bool("raw", false, "Dump the documentation tables")
}
