package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/apply"
	"github.com/colonyops/redline/internal/core/buffer"
	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/eventbus"
	"github.com/colonyops/redline/internal/core/logging"
	"github.com/colonyops/redline/internal/core/queue"
	"github.com/colonyops/redline/internal/tui"
	"github.com/colonyops/redline/pkg/iojson"
)

type ReviewCmd struct {
	flags *Flags

	reader   iojson.FileReader[edit.Batch]
	document string
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Review a batch of edits interactively",
		UsageText: "redline review --document <path> [-f batch.json]",
		Description: `Opens an interactive session over the document: pending edits appear
in a sliding window, each can be accepted or rejected in any order,
and A accepts everything at once. Accepted edits are applied to an in
memory copy of the document, which is written back on exit if anything
was applied.`,
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

func (cmd *ReviewCmd) run(ctx context.Context, _ *cli.Command) error {
	log := logging.Component("review")

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
	for _, v := range result.Violations {
		log.Warn().
			Str("edit_id", v.Edit.ID).
			Str("kind", string(v.Kind)).
			Str("reason", v.Reason).
			Msg("candidate rejected during validation")
	}
	if len(result.Accepted) == 0 {
		return cli.Exit("no edits passed validation", 1)
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
	ctx = logging.WithSessionID(logging.WithDocument(ctx, cmd.document), session.ID())

	applier := apply.New(buf, bus)
	model := tui.New(tui.Options{
		Session: session,
		Applier: applier,
		Buffer:  buf,
		Sync:    apply.NewDecorationSync(buf),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("review session: %w", err)
	}

	if buf.TransactionCount() == 0 {
		log.Info().Ctx(ctx).Msg("no edits applied")
		return nil
	}

	if err := writeDocument(cmd.document, buf.Text()); err != nil {
		return err
	}

	log.Info().
		Ctx(ctx).
		Int("transactions", buf.TransactionCount()).
		Int("pending", session.TotalPending()).
		Msg("review session finished")
	return nil
}
