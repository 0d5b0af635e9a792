package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"exprsmith/pkg/exprgen"
)

const (
	appName    = "exprsmith"
	appVersion = "0.1.0"
)

func NewRootCmd() *cobra.Command {
	opts := exprgen.Defaults()
	configPath := ""
	outputPath := ""
	count := 1
	workers := 1
	showVersion := false
	dumpConfig := false
	var disableOps []string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Random C-style expression generator for fuzzing expression evaluators",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}

			if showVersion {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, appVersion)
				return err
			}

			flags := cmd.Flags()
			if configPath != "" {
				fromFlags := opts
				loaded, err := exprgen.LoadOptions(configPath)
				if err != nil {
					return err
				}
				opts = loaded
				// Flags set on the command line win over the file.
				for name, apply := range map[string]func(){
					"seed":              func() { opts.Seed = fromFlags.Seed },
					"var":               func() { opts.VarName = fromFlags.VarName },
					"parenthesize-prob": func() { opts.ParenthesizeProb = fromFlags.ParenthesizeProb },
					"const-prob":        func() { opts.ConstProb = fromFlags.ConstProb },
					"volatile-prob":     func() { opts.VolatileProb = fromFlags.VolatileProb },
					"int-min":           func() { opts.IntConstMin = fromFlags.IntConstMin },
					"int-max":           func() { opts.IntConstMax = fromFlags.IntConstMax },
					"double-min":        func() { opts.DoubleConstMin = fromFlags.DoubleConstMin },
					"double-max":        func() { opts.DoubleConstMax = fromFlags.DoubleConstMax },
				} {
					if flags.Changed(name) {
						apply()
					}
				}
			}

			for _, tok := range disableOps {
				if !disableOp(&opts, tok) {
					return fmt.Errorf("unknown or already disabled operator %q", tok)
				}
			}

			if dumpConfig {
				data, err := opts.DumpYAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if !flags.Changed("seed") && configPath == "" {
				opts.Seed = uint64(time.Now().UnixNano())
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			snippets, err := exprgen.BuildCorpus(opts, count, workers)
			if err != nil {
				return err
			}

			var b strings.Builder
			for i, s := range snippets {
				if i > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(s.Render())
			}
			if outputPath == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
				return err
			}
			return os.WriteFile(outputPath, []byte(b.String()), 0o644)
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	flags := cmd.Flags()
	flags.BoolVarP(&showVersion, "version", "v", false, "print version")
	flags.Uint64VarP(&opts.Seed, "seed", "s", 0, "base seed for deterministic generation; snippet i uses seed+i")
	flags.IntVarP(&count, "count", "n", 1, "number of expressions to generate")
	flags.IntVar(&workers, "workers", 1, "parallel generation workers")
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.StringVarP(&outputPath, "output", "o", "", "write generated corpus to file")
	flags.BoolVar(&dumpConfig, "dump-config", false, "print the effective configuration as YAML and exit")
	flags.StringVar(&opts.VarName, "var", opts.VarName, "variable symbol referenced by generated expressions")
	flags.Float64Var(&opts.ParenthesizeProb, "parenthesize-prob", opts.ParenthesizeProb, "probability of wrapping any node in parentheses")
	flags.Float64Var(&opts.ConstProb, "const-prob", opts.ConstProb, "probability of a const qualifier in the variable context")
	flags.Float64Var(&opts.VolatileProb, "volatile-prob", opts.VolatileProb, "probability of a volatile qualifier in the variable context")
	flags.Uint64Var(&opts.IntConstMin, "int-min", opts.IntConstMin, "integer constant lower bound (inclusive)")
	flags.Uint64Var(&opts.IntConstMax, "int-max", opts.IntConstMax, "integer constant upper bound (inclusive)")
	flags.Float64Var(&opts.DoubleConstMin, "double-min", opts.DoubleConstMin, "double constant lower bound (inclusive)")
	flags.Float64Var(&opts.DoubleConstMax, "double-max", opts.DoubleConstMax, "double constant upper bound (inclusive)")
	flags.StringSliceVar(&disableOps, "disable-op", nil, "operator token to remove from the enabled set (repeatable)")

	return cmd
}

// disableOp clears the token from whichever mask spells it; "+" and "-"
// exist in both masks and are cleared from both.
func disableOp(opts *exprgen.Options, tok string) bool {
	found := false
	for op := exprgen.BinOp(0); int(op) < exprgen.NumBinOps; op++ {
		if op.String() == tok && opts.BinOpMask.Contains(op) {
			opts.BinOpMask &^= exprgen.BinOpMaskOf(op)
			found = true
		}
	}
	for op := exprgen.UnOp(0); int(op) < exprgen.NumUnOps; op++ {
		if op.String() == tok && opts.UnOpMask.Contains(op) {
			opts.UnOpMask &^= exprgen.UnOpMaskOf(op)
			found = true
		}
	}
	return found
}
