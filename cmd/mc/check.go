package mc

import (
	"fmt"
	"io"

	"github.com/Manu343726/rtasm/pkg/rt/asm"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorHeader  = color.New(color.FgWhite, color.Bold, color.Underline)
	colorSuccess = color.New(color.FgGreen)
	colorError   = color.New(color.FgRed, color.Bold)
	colorStatic  = color.New(color.FgHiBlack)
)

func writeConditionTables(w io.Writer, revision int) {
	for _, t := range asm.ConditionTables(revision) {
		colorHeader.Fprintf(w, "%v r%v\n", t.Name, t.Revision)

		for _, s := range t.Entries {
			switch {
			case s.Never:
				colorStatic.Fprintf(w, "  %-5v never\n", s.Cond)
			case s.Always:
				colorStatic.Fprintf(w, "  %-5v always: jump\n", s.Cond)
			default:
				fmt.Fprintf(w, "  %-5v %v\n", s.Cond, s.Template)
			}
		}

		fmt.Fprintln(w)
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the compare and branch tables",
	Long: `Verifies the register, immediate and zero compare and branch tables of both ISA
revisions have one consistent entry per condition code. With --verbose the tables are printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			for _, revision := range []int{5, 6} {
				writeConditionTables(w, revision)
			}
		}

		if err := asm.CheckConditionTables(); err != nil {
			colorError.Fprintf(w, "condition tables: %v\n", err)
			return err
		}

		colorSuccess.Fprintln(w, "condition tables: ok")
		return nil
	},
}

func init() {
	McCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("verbose", "v", false, "print the tables")
}
