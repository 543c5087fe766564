package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/conceptcheck/internal/assoc"
	"github.com/orizon-lang/conceptcheck/internal/cli"
	"github.com/orizon-lang/conceptcheck/internal/concepts"
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/query"
	"github.com/orizon-lang/conceptcheck/internal/widen"
)

type queryCommand struct {
	kind  query.Kind
	use   string
	short string
	args  cobra.PositionalArgs
}

var queryTable = []queryCommand{
	{query.KindProbe, "probe OP TYPE...", "Print the result type of an operator expression, or none", cobra.MinimumNArgs(2)},
	{query.KindHas, "has OP TYPE...", "Report whether an operator expression is well formed", cobra.MinimumNArgs(2)},
	{query.KindAssociated, "assoc SLOT TYPE", "Print a declared associated type, or none", cobra.ExactArgs(2)},
	{query.KindDeduced, "deduce SLOT TYPE", "Print a deduced associated type and the rule that produced it", cobra.ExactArgs(2)},
	{query.KindMember, "member NAME TYPE", "Print the result of a container member probe, or none", cobra.ExactArgs(2)},
	{query.KindConcept, "concept NAME TYPE...", "Report whether the types model a concept", cobra.MinimumNArgs(2)},
	{query.KindFact, "fact NAME TYPE...", "Evaluate a primitive type fact", cobra.MinimumNArgs(2)},
}

func (a *app) queryCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(queryTable))
	for _, qc := range queryTable {
		cmd := &cobra.Command{
			Use:   qc.use,
			Short: qc.short,
			Args:  qc.args,
		}
		kind := qc.kind
		var require bool
		if kind == query.KindConcept {
			cmd.Flags().BoolVar(&require, "require", false, "Exit non-zero when the concept is not modelled")
		}
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return a.runQuery(query.Query{Kind: kind, Name: args[0], Args: args[1:]}, require)
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (a *app) runQuery(q query.Query, require bool) error {
	e, err := a.engine()
	if err != nil {
		return err
	}
	if require {
		ts, err := e.ParseAll(q.Args)
		if err != nil {
			return err
		}
		if err := e.Require(q.Name, ts...); err != nil {
			return &cli.ExitError{Code: 1, Err: err}
		}
	}
	ans := e.Eval(q)
	if ans.Err != nil {
		return ans.Err
	}
	if a.jsonOut {
		return cli.PrintJSON(a.out, ans)
	}
	if ans.Source != "" {
		fmt.Fprintf(a.out, "%s\t(%s)\n", ans.Value, ans.Source)
		return nil
	}
	fmt.Fprintln(a.out, ans.Value)
	return nil
}

func (a *app) widenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "widen TYPE",
		Short: "Print the next wider integer type of the same signedness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			t, err := e.Parse(args[0])
			if err != nil {
				return err
			}
			value := query.None
			if w, ok := widen.OneSizeUp(e.Universe().Model, t).Get(); ok {
				value = w.String()
			}
			if a.jsonOut {
				return cli.PrintJSON(a.out, map[string]string{"type": t.String(), "widened": value})
			}
			fmt.Fprintln(a.out, value)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list {concepts|facts|ops|slots|members}",
		Short:     "List the names a query kind accepts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"concepts", "facts", "ops", "slots", "members"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			switch args[0] {
			case "concepts":
				for _, n := range concepts.Names() {
					d, _ := concepts.Lookup(n)
					names = append(names, fmt.Sprintf("%s/%s", n, d.Arity()))
				}
			case "facts":
				names = oracle.FactNames()
			case "ops":
				names = probe.Names()
			case "slots":
				for _, s := range assoc.Slots() {
					names = append(names, s.String())
				}
			case "members":
				for _, m := range assoc.Members() {
					names = append(names, m.String())
				}
			default:
				return fmt.Errorf("unknown list %q", args[0])
			}
			if a.jsonOut {
				return cli.PrintJSON(a.out, names)
			}
			fmt.Fprintln(a.out, strings.Join(names, "\n"))
			return nil
		},
	}
}
