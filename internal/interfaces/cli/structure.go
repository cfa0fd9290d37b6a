package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/rmgweb/internal/application/notation"
	"github.com/turtacn/rmgweb/internal/application/structure"
	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/interfaces/http/routes"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// structureFlags are shared by every command that takes an adjacency list.
type structureFlags struct {
	file  string
	group bool
	label string
}

func (f *structureFlags) register(cmd *cobra.Command, withLabel bool) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the adjacency list from a file")
	cmd.Flags().BoolVar(&f.group, "group", false, "treat the adjacency list as a group")
	if withLabel {
		cmd.Flags().StringVar(&f.label, "label", "", "species label (molecules only)")
	}
}

// readAdjacencyList takes the adjacency list from --file, the single argument,
// or stdin when neither is given or the argument is "-".
func (f *structureFlags) readAdjacencyList(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case f.file != "":
		data, err = os.ReadFile(f.file)
	case len(args) == 1 && args[0] != "-":
		return unescapeNewlines(args[0]), nil
	default:
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read adjacency list")
	}
	return string(data), nil
}

// unescapeNewlines lets an adjacency list be passed as one shell argument with
// literal "\n" separators.
func unescapeNewlines(s string) string {
	if strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(s, `\n`, "\n")
}

// parse reads the adjacency list and builds a molecule, group or species.
func (f *structureFlags) parse(cmd *cobra.Command, args []string) (domain.Object, error) {
	adjlist, err := f.readAdjacencyList(cmd, args)
	if err != nil {
		return nil, err
	}
	if f.group {
		g, err := domain.ParseGroup(adjlist)
		if err != nil {
			return nil, invalidInput(err)
		}
		return g, nil
	}
	m, err := domain.ParseMolecule(adjlist)
	if err != nil {
		return nil, invalidInput(err)
	}
	if f.label != "" {
		return domain.NewSpecies(f.label, m), nil
	}
	return m, nil
}

func invalidInput(err error) error {
	return errors.Wrap(err, errors.ErrCodeAdjacencyListInvalid, errors.DefaultMessageForCode(errors.ErrCodeAdjacencyListInvalid)).
		WithDetail(err.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// encode / decode
// ─────────────────────────────────────────────────────────────────────────────

// EncodeResult is the URL form of a structure and the site paths using it.
type EncodeResult struct {
	Kind     string `json:"kind"`
	Segment  string `json:"segment"`
	InfoPath string `json:"info_path"`
	DrawPath string `json:"draw_path"`
}

func (r EncodeResult) String() string { return r.Segment }

func (r EncodeResult) TableHeaders() []string { return []string{"Kind", "Segment", "Info", "Draw"} }

func (r EncodeResult) TableRows() [][]string {
	return [][]string{{r.Kind, r.Segment, r.InfoPath, r.DrawPath}}
}

func newEncodeCmd() *cobra.Command {
	flags := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "encode [ADJLIST|-]",
		Short: "Encode an adjacency list as a URL path segment",
		Long: "encode prints the percent-encoded adjacency list the site uses in structure\n" +
			"URLs.  Labels are dropped, so structures differing only in labels encode the same.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := flags.parse(cmd, args)
			if err != nil {
				return err
			}
			res, err := encode(obj)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func encode(obj domain.Object) (EncodeResult, error) {
	table := routes.NewDefaultTable()
	var res EncodeResult
	var info, draw string
	switch o := obj.(type) {
	case *domain.Molecule:
		res = EncodeResult{Kind: string(domain.KindMolecule), Segment: structure.MoleculeToURL(o)}
		info, draw = routes.MoleculeEntry, routes.DrawMolecule
	case *domain.Group:
		res = EncodeResult{Kind: string(domain.KindGroup), Segment: structure.GroupToURL(o)}
		info, draw = routes.GroupEntry, routes.DrawGroup
	default:
		return res, errors.New(errors.ErrCodeStructureInvalid, "only molecules and groups have a URL form")
	}

	var err error
	params := map[string]string{routes.ParamAdjlist: res.Segment}
	if res.InfoPath, err = table.Reverse(info, params); err != nil {
		return res, err
	}
	if res.DrawPath, err = table.Reverse(draw, params); err != nil {
		return res, err
	}
	return res, nil
}

// DecodeResult describes a structure decoded from a URL segment.
type DecodeResult struct {
	Kind          string `json:"kind"`
	AdjacencyList string `json:"adjacency_list"`
	Formula       string `json:"formula,omitempty"`
	Atoms         int    `json:"atoms"`
	Multiplicity  int    `json:"multiplicity,omitempty"`
}

func (r DecodeResult) String() string { return strings.TrimRight(r.AdjacencyList, "\n") }

func (r DecodeResult) TableHeaders() []string {
	return []string{"Kind", "Formula", "Atoms", "Multiplicity"}
}

func (r DecodeResult) TableRows() [][]string {
	mult := ""
	if r.Multiplicity != 0 {
		mult = strconv.Itoa(r.Multiplicity)
	}
	return [][]string{{r.Kind, r.Formula, strconv.Itoa(r.Atoms), mult}}
}

func newDecodeCmd() *cobra.Command {
	var group, heavy bool
	cmd := &cobra.Command{
		Use:   "decode SEGMENT",
		Short: "Decode a URL path segment into an adjacency list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if group && heavy {
				return errors.New(errors.ErrCodeBadRequest, "--heavy-atoms applies to molecules only")
			}
			res, err := decode(args[0], group, heavy)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "decode the segment as a group")
	cmd.Flags().BoolVar(&heavy, "heavy-atoms", false, "print the adjacency list without hydrogen atoms")
	return cmd
}

func decode(segment string, group, heavy bool) (DecodeResult, error) {
	if group {
		g, err := structure.GroupFromURL(segment)
		if err != nil {
			return DecodeResult{}, err
		}
		return DecodeResult{
			Kind:          string(domain.KindGroup),
			AdjacencyList: g.AdjacencyList(),
			Atoms:         len(g.Atoms()),
		}, nil
	}

	m, err := structure.MoleculeFromURL(segment)
	if err != nil {
		return DecodeResult{}, err
	}
	var opts []domain.SerializeOption
	if heavy {
		opts = append(opts, domain.WithoutHydrogens())
	}
	// Formula and Atoms always count the hydrogens.
	return DecodeResult{
		Kind:          string(domain.KindMolecule),
		AdjacencyList: m.AdjacencyList(opts...),
		Formula:       m.Formula(),
		Atoms:         m.AtomCount(),
		Multiplicity:  m.Multiplicity(),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// markup
// ─────────────────────────────────────────────────────────────────────────────

func newMarkupCmd() *cobra.Command {
	flags := &structureFlags{}
	var info bool
	cmd := &cobra.Command{
		Use:   "markup [ADJLIST|-]",
		Short: "Print the HTML the site renders for a structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := flags.parse(cmd, args)
			if err != nil {
				return err
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			b := structure.NewMarkupBuilder(routes.NewDefaultTable(),
				structure.WithMarkupLogger(cliCtx.Logger.Named("markup")))
			render := b.StructureMarkup
			if info {
				render = b.StructureInfo
			}
			out, err := render(cmd.Context(), obj)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	flags.register(cmd, true)
	cmd.Flags().BoolVar(&info, "info", false, "render the linked image used in listings")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// sci
// ─────────────────────────────────────────────────────────────────────────────

func newSciCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sci VALUE...",
		Short: "Format numbers in LaTeX scientific notation",
		Long: "Format numbers in LaTeX scientific notation.  Negative values may be\n" +
			"given directly, e.g. rmgctl sci -0.002 1.5e3",
		Args: cobra.MinimumNArgs(1),
		// pflag reads "-0.002" as a shorthand cluster, so flags are parsed by
		// sciValues once negative numbers are set aside.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, help, err := sciValues(cmd, args)
			if err != nil {
				return err
			}
			if help {
				return cmd.Help()
			}
			for _, arg := range values {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeBadRequest, "not a number").WithDetail(arg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), notation.LaTeXScientificNotation(v))
			}
			return nil
		},
	}
}

// sciValues parses the flags in args and returns the remaining positional
// values in order.  Tokens that parse as numbers are never taken for flags.
func sciValues(cmd *cobra.Command, args []string) ([]string, bool, error) {
	numbers := make(map[string]string)
	tokens := make([]string, len(args))
	for i, arg := range args {
		if _, err := strconv.ParseFloat(arg, 64); err == nil && strings.HasPrefix(arg, "-") {
			key := "\x00" + strconv.Itoa(i)
			numbers[key] = arg
			arg = key
		}
		tokens[i] = arg
	}

	// Pulls the root's persistent flags into cmd.Flags().
	cmd.InheritedFlags()
	fs := cmd.Flags()
	if err := fs.Parse(tokens); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid flags")
	}
	if help, _ := fs.GetBool("help"); help {
		return nil, true, nil
	}

	values := make([]string, 0, fs.NArg())
	for _, arg := range fs.Args() {
		if v, ok := numbers[arg]; ok {
			arg = v
		}
		values = append(values, arg)
	}
	if len(values) == 0 {
		return nil, false, errors.New(errors.ErrCodeBadRequest, "at least one value is required")
	}
	return values, false, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// routes
// ─────────────────────────────────────────────────────────────────────────────

// RouteList is the named route table of the site.
type RouteList []routes.Route

func (l RouteList) TableHeaders() []string { return []string{"Name", "Pattern"} }

func (l RouteList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, r.Pattern})
	}
	return rows
}

func (l RouteList) String() string { return FormatTable(l.TableHeaders(), l.TableRows()) }

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the named routes of the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, RouteList(routes.NewDefaultTable().Routes()))
		},
	}
}

//Personal.AI order the ending
