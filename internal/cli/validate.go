package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/errors"
	"github.com/matzehuels/chartdot/pkg/io"
	"github.com/matzehuels/chartdot/pkg/render/dot"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [model...]",
		Short: "Check statechart models without writing output",
		Long: `Validate loads each model and runs the DOT serializer on it, reporting
structural problems such as unknown parents, parent cycles and transitions
to undeclared states.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				model, err := validateModel(path)
				if err != nil {
					printError(out, "%s", path)
					printDetail(out, "%s", errors.UserMessage(err))
					failed++
					continue
				}
				printSuccess(out, "%s", path)
				printDetail(out, "%s, %s", plural(len(model.States), "state"), plural(model.TransitionCount(), "transition"))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d models invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateModel(path string) (*chart.Chart, error) {
	c, err := io.Import(path)
	if err != nil {
		return nil, err
	}
	if _, err := dot.ToDOT(c, dot.Options{}); err != nil {
		return nil, err
	}
	return c, nil
}
