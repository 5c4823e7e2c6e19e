package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"pixeltrader/internal/calc"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
)

var errUnknownTool = errors.New("unknown tool")

type tool struct {
	args int
	run  func(v []float64) (string, error)
}

func number(v float64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'f', 4, 64), nil
}

var tools = map[string]tool{
	"position-size": {3, func(v []float64) (string, error) { return number(calc.PositionSize(v[0], v[1], v[2])) }},
	"kelly":         {2, func(v []float64) (string, error) { return number(calc.Kelly(v[0], v[1])) }},
	"drawdown":      {1, func(v []float64) (string, error) { return number(calc.DrawdownRecovery(v[0])) }},
	"average-down":  {4, func(v []float64) (string, error) { return number(calc.AverageDown(v[0], v[1], v[2], v[3])) }},
	"compound":      {3, func(v []float64) (string, error) { return number(calc.Compound(v[0], v[1], v[2])) }},
	"ruin": {3, func(v []float64) (string, error) {
		s, err := calc.Ruin(v[0], v[1], v[2])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ev=%.4f steps_to_death=%d danger=%s", s.ExpectedValue, s.StepsToDeath, s.Danger), nil
	}},
}

// runTool evaluates name with string arguments.
func runTool(name string, args []string) (string, error) {
	t, ok := tools[name]
	if !ok {
		return "", errors.Wrap(errUnknownTool, name)
	}
	if len(args) != t.args {
		return "", errors.Wrapf(calc.ErrInvalidInput, "%s takes %d arguments, got %d", name, t.args, len(args))
	}
	v := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return "", errors.Wrapf(calc.ErrInvalidInput, "argument %d: %q", i+1, a)
		}
		v[i] = f
	}
	return t.run(v)
}

type calcCmd struct{}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "run a trading calculator" }
func (*calcCmd) Usage() string {
	return `ptcli calc <tool> <args...>

  position-size <risk> <entry> <stop>
  kelly <win rate %> <reward:risk>
  drawdown <loss %>
  average-down <quantity> <average> <price> <target average>
  compound <principal> <rate %> <periods>
  ruin <win rate %> <reward:risk> <risk per trade %>
`
}

func (*calcCmd) SetFlags(*flag.FlagSet) {}

func (*calcCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	out, err := runTool(f.Arg(0), f.Args()[1:])
	switch {
	case errors.Is(err, calc.ErrImpossible):
		fmt.Println("impossible")
		return subcommands.ExitSuccess
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}
