package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/logging"
	"github.com/colonyops/redline/pkg/iojson"
)

// CheckReport is the JSON output of the check command.
type CheckReport struct {
	Document   string           `json:"document"`
	Intent     string           `json:"intent,omitempty"`
	Accepted   []edit.LineEdit  `json:"accepted"`
	Violations []edit.Violation `json:"violations"`
}

type CheckCmd struct {
	flags *Flags

	reader   iojson.FileReader[edit.Batch]
	document string
}

// NewCheckCmd creates a new check command.
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Validate a batch of proposed edits without applying them",
		UsageText: "redline check --document <path> [-f batch.json]",
		Description: `Validates a JSON batch of proposed edits against the current document
and prints a report partitioning the batch into accepted edits and
violations. The document is never modified.

The batch is read from -f/--file, or from stdin when piped:

  redline check --document draft.md -f batch.json
  cat batch.json | redline check --document draft.md`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "document",
				Aliases:     []string{"d"},
				Usage:       "path to the document the batch targets",
				Required:    true,
				Destination: &cmd.document,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckCmd) run(_ context.Context, _ *cli.Command) error {
	log := logging.Component("check")

	batch, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	snapshot, err := readDocument(cmd.flags.Config, cmd.document)
	if err != nil {
		return err
	}

	intent, err := cmd.flags.Config.ResolveIntent(batch.Intent)
	if err != nil {
		return err
	}

	result, err := edit.Check(batch.Edits, intent, snapshot)
	if err != nil {
		return err
	}

	log.Info().
		Str("document", cmd.document).
		Int("accepted", len(result.Accepted)).
		Int("violations", len(result.Violations)).
		Msg("batch checked")

	report := CheckReport{
		Document:   cmd.document,
		Intent:     string(intent.Tag),
		Accepted:   result.Accepted,
		Violations: result.Violations,
	}
	if err := iojson.Write(report); err != nil {
		return err
	}

	if len(result.Violations) > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d candidates rejected", len(result.Violations), len(batch.Edits)), 1)
	}
	return nil
}
