package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/vcf"
)

// vcfCommand groups the VCF helpers.
func (c *CLI) vcfCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcf",
		Short: "Work with VCF files",
	}
	cmd.AddCommand(c.vcfSplitCommand())
	return cmd
}

// vcfSplitCommand creates the "vcf split" subcommand.
func (c *CLI) vcfSplitCommand() *cobra.Command {
	var (
		cols     []string
		fieldSep string
		nameSep  string
		names    []string
		keep     bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split packed VCF fields into columns",
		Long: `Split packed columns such as INFO into one column per field and write
the result as TSV, ready for plot --color-col or --scatter-y.`,
		Example: `  rangeplot vcf split calls.vcf -o calls.tsv
  rangeplot vcf split calls.vcf --col FORMAT --field-sep : --name-sep ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ranges.ReadFile(args[0])
			if err != nil {
				return err
			}
			split, err := vcf.SplitFields(ds, cols, vcf.SplitOptions{
				FieldSep: fieldSep,
				NameSep:  nameSep,
				ColNames: names,
				KeepCol:  keep,
			})
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "create %s", output)
				}
				defer f.Close()
				w = f
			}
			if err := ranges.WriteTSV(w, split); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Split %d intervals", split.Len())
				printFile(output)
				printNextStep("Plot it", "rangeplot plot "+output)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&cols, "col", []string{"INFO"}, "column(s) to split")
	f.StringVar(&fieldSep, "field-sep", ";", "separator between fields")
	f.StringVar(&nameSep, "name-sep", "=", "key/value separator inside a field")
	f.StringSliceVar(&names, "names", nil, "names for the produced columns")
	f.BoolVar(&keep, "keep", false, "keep the original column")
	f.StringVarP(&output, "output", "o", "", "output TSV file (default: stdout)")

	return cmd
}
