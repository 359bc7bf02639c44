package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/apply"
	"github.com/colonyops/redline/internal/core/buffer"
	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/eventbus"
	"github.com/colonyops/redline/internal/core/logging"
	"github.com/colonyops/redline/internal/core/queue"
	"github.com/colonyops/redline/pkg/iojson"
)

// ApplyReport is the JSON output of the apply command.
type ApplyReport struct {
	Document   string           `json:"document"`
	AppliedIDs []string         `json:"applied_ids"`
	Violations []edit.Violation `json:"violations"`
	Label      string           `json:"transaction_label"`
}

type ApplyCmd struct {
	flags *Flags

	reader   iojson.FileReader[edit.Batch]
	document string
	yes      bool
	dryRun   bool
}

// NewApplyCmd creates a new apply command.
func NewApplyCmd(flags *Flags) *ApplyCmd {
	return &ApplyCmd{flags: flags}
}

// Register adds the apply command to the application.
func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "apply",
		Usage:     "Validate a batch of edits and apply the accepted ones",
		UsageText: "redline apply --document <path> [-f batch.json] [--yes]",
		Description: `Validates a JSON batch of proposed edits and applies every accepted
edit to the document in a single atomic step. Candidates that fail
validation are skipped and reported; they never block the rest of the
batch.

Asks for confirmation before writing unless --yes is given. With
--dry-run the resulting document is printed instead of written.`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "document",
				Aliases:     []string{"d"},
				Usage:       "path to the document the batch targets",
				Required:    true,
				Destination: &cmd.document,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "apply without confirmation",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print the resulting document instead of writing it",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ApplyCmd) run(ctx context.Context, _ *cli.Command) error {
	log := logging.Component("apply-cmd")

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
	violations := result.Violations

	if len(result.Accepted) == 0 {
		_ = iojson.Write(ApplyReport{Document: cmd.document, Violations: violations})
		return cli.Exit("no edits passed validation", 1)
	}

	if !cmd.yes && !cmd.dryRun {
		confirmed := false
		form := huh.NewConfirm().
			Title(fmt.Sprintf("Apply %d edits to %s?", len(result.Accepted), cmd.document)).
			Description(fmt.Sprintf("%d candidates rejected during validation", len(violations))).
			Value(&confirmed)
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			return cli.Exit("aborted", 1)
		}
	}

	bus := eventbus.New()
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	go bus.Start(ctx)

	buf := buffer.NewMemory(snapshot)
	defer buf.Close()

	session := queue.NewSession(cmd.document, queue.Options{
		WindowSize: cmd.flags.Config.WindowSize,
		Bus:        bus,
	})
	if err := session.Enqueue(result.Accepted); err != nil {
		return err
	}

	applier := apply.New(buf, bus)
	var applied apply.Result
	_, err = session.AcceptAllWith(func(accepted []edit.LineEdit) error {
		applied, err = applier.ApplyBatch(accepted)
		return err
	})
	if err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}

	if cmd.dryRun {
		fmt.Println(buf.Text())
		return nil
	}

	if err := writeDocument(cmd.document, buf.Text()); err != nil {
		return err
	}

	log.Info().
		Str("document", cmd.document).
		Int("applied", len(applied.AppliedIDs)).
		Int("violations", len(violations)).
		Msg("batch applied")

	return iojson.Write(ApplyReport{
		Document:   cmd.document,
		AppliedIDs: applied.AppliedIDs,
		Violations: violations,
		Label:      applied.TransactionLabel,
	})
}
