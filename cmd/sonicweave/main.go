// Command sonicweave is the CLI entry point: run/repl/play/render
// subcommands over github.com/spf13/cobra, the same top-level-flag-parsing
// role the teacher's own main.go fills with the stdlib flag package, just
// with cobra's subcommand tree in place of a single flat flag set.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sonicweave-lang/sonicweave/internal/context"
	"github.com/sonicweave-lang/sonicweave/internal/eval"
	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/parser"
	"github.com/sonicweave-lang/sonicweave/internal/playback"
	"github.com/sonicweave-lang/sonicweave/internal/render"
	"github.com/sonicweave-lang/sonicweave/internal/repl"
	"github.com/sonicweave-lang/sonicweave/internal/stdlib"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sonicweave",
		Short: "A DSL interpreter and tools for describing microtonal scales",
	}
	root.AddCommand(runCmd(), replCmd(), playCmd(), renderCmd())
	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.sw>",
		Short: "Evaluate a SonicWeave source file and print the resulting scale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, _, err := evalFile(args[0])
			if err != nil {
				return err
			}
			for i, iv := range scale {
				fmt.Printf("%d. %s\n", i, iv.String())
			}
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SonicWeave shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.Run()
		},
	}
}

func playCmd() *cobra.Command {
	var host string
	var port int
	var gap time.Duration
	c := &cobra.Command{
		Use:   "play <file.sw>",
		Short: "Evaluate a file and play its scale over OSC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, refHz, err := evalFile(args[0])
			if err != nil {
				return err
			}
			d := playback.NewDialer(host, port)
			return d.PlayScale(scale, refHz, gap)
		},
	}
	c.Flags().StringVar(&host, "host", "localhost", "OSC host to send /freq messages to")
	c.Flags().IntVar(&port, "port", 57120, "OSC port to send /freq messages to")
	c.Flags().DurationVar(&gap, "gap", 300*time.Millisecond, "time between successive scale degrees")
	return c
}

func renderCmd() *cobra.Command {
	var dur time.Duration
	c := &cobra.Command{
		Use:   "render <file.sw> <out.wav>",
		Short: "Evaluate a file and render its scale to a WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, refHz, err := evalFile(args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			return render.RenderWAV(f, scale, refHz, dur)
		},
	}
	c.Flags().DurationVar(&dur, "duration", 2*time.Second, "length of the rendered audio")
	return c
}

// evalFile parses and runs a SonicWeave source file against a fresh
// Context/Env (stdlib-installed), returning the resulting top-level scale
// ($) and its 1/1 reference frequency in Hz.
func evalFile(path string) ([]value.Interval, float64, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	ctx := context.New()
	env, in, err := stdlib.Install(ctx)
	if err != nil {
		return nil, 0, err
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: parse error: %w", path, err)
	}
	if err := in.RunProgram(prog, env); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	scale, err := scaleOf(in)
	if err != nil {
		return nil, 0, err
	}
	refHz, _ := monzo.ValueOf(ctx.Reference)
	return scale, refHz, nil
}

func scaleOf(in *eval.Interp) ([]value.Interval, error) {
	out := make([]value.Interval, 0, len(in.Scale))
	for _, v := range in.Scale {
		iv, ok := v.(value.Interval)
		if !ok {
			return nil, fmt.Errorf("scale contains a non-interval value: %s", v.Kind())
		}
		out = append(out, iv)
	}
	return out, nil
}
