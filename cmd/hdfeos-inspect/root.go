package main

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-hdfeos/hdfeos"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

// openContainer is replaced in tests.
var openContainer = hdfeos.Open

type rootOpts struct {
	swath  string
	output string
	class  string
	debug  bool
}

func newRootCmd() *cobra.Command {
	var opts rootOpts

	cmd := &cobra.Command{
		Use:   "hdfeos-inspect <file>",
		Short: "Inspect the swaths of an HDF-EOS file",
		Example: `hdfeos-inspect OMI-Aura_L2-OMTO3.he4
hdfeos-inspect --swath "Earth UV-1 Swath" --output yaml OMI-Aura_L2-OMTO3.he4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.swath, "swath", "", "only inspect the named swath")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, fmt.Sprintf("output format, one of %q or %q", outputTable, outputYAML))
	cmd.Flags().StringVar(&opts.class, "swath-class", hdfeos.DefaultSwathClass, "Vgroup class that marks a swath")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "turn on debug logging")
	return cmd
}

func run(w io.Writer, path string, opts rootOpts) (err error) {
	if opts.output != outputTable && opts.output != outputYAML {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	if opts.debug {
		log.SetOutput(logrus.StandardLogger().Out)
		log.SetLevel(logrus.DebugLevel)
	}

	c, err := openContainer(path, hdfeos.WithLogger(log), hdfeos.WithSwathClass(opts.class))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	r, err := collect(c, opts.swath)
	if err != nil {
		return err
	}

	if opts.output == outputYAML {
		return renderYAML(w, r)
	}
	renderTable(w, r)
	return nil
}
