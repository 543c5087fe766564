package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/conceptcheck/internal/cli"
	"github.com/orizon-lang/conceptcheck/internal/fixture"
	"github.com/orizon-lang/conceptcheck/internal/types"
	"github.com/orizon-lang/conceptcheck/internal/widen"
)

type platformInfo struct {
	DataModel   string         `json:"data_model"`
	PointerSize int            `json:"pointer_size"`
	CharSigned  bool           `json:"char_signed"`
	PtrDiff     string         `json:"ptrdiff_t"`
	SizeT       string         `json:"size_t"`
	Sizes       map[string]int `json:"sizes"`
	Signed      []string       `json:"signed_chain"`
	Unsigned    []string       `json:"unsigned_chain"`
}

var platformKinds = []types.Kind{
	types.KindBool, types.KindChar, types.KindWChar, types.KindShort, types.KindInt,
	types.KindLong, types.KindLongLong, types.KindFloat, types.KindDouble, types.KindLongDouble,
}

func chainNames(steps []widen.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = fmt.Sprintf("%s(%d)", s.Kind, s.Size)
	}
	return out
}

func describePlatform(m types.DataModel) platformInfo {
	info := platformInfo{
		DataModel:   m.Name,
		PointerSize: m.PointerSize,
		CharSigned:  m.CharSigned,
		PtrDiff:     m.PtrDiff.String(),
		SizeT:       m.SizeT().String(),
		Sizes:       make(map[string]int, len(platformKinds)),
		Signed:      chainNames(widen.Chain(m, true)),
		Unsigned:    chainNames(widen.Chain(m, false)),
	}
	for _, k := range platformKinds {
		info.Sizes[k.String()] = m.SizeOf(k)
	}
	return info
}

func (a *app) platformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show the data model queries are answered under",
		Long:  "platform prints the data model queries use. --data-model wins over the fixture, which wins over the config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f *fixture.Fixture
			if a.fixturePath != "" {
				var err error
				if f, err = fixture.Load(a.fixturePath); err != nil {
					return err
				}
			}
			m, err := a.model(f)
			if err != nil {
				return err
			}
			info := describePlatform(m)
			if a.jsonOut {
				return cli.PrintJSON(a.out, info)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "data model\t%s\n", info.DataModel)
			fmt.Fprintf(tw, "pointer\t%d\n", info.PointerSize)
			fmt.Fprintf(tw, "char signed\t%t\n", info.CharSigned)
			fmt.Fprintf(tw, "ptrdiff_t\t%s\n", info.PtrDiff)
			fmt.Fprintf(tw, "size_t\t%s\n", info.SizeT)
			for _, k := range platformKinds {
				fmt.Fprintf(tw, "sizeof(%s)\t%d\n", k, info.Sizes[k.String()])
			}
			fmt.Fprintf(tw, "signed widening\t%v\n", info.Signed)
			fmt.Fprintf(tw, "unsigned widening\t%v\n", info.Unsigned)
			return tw.Flush()
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.PrintVersion(a.out, toolName, a.jsonOut)
		},
	}
}
