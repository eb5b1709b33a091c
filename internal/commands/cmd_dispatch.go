package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/pkg/iojson"
)

// DispatchCmd sends raw actions read as JSON through the store.
type DispatchCmd struct {
	flags *Flags
	input iojson.FileReader[[]action.Envelope]
}

// NewDispatchCmd creates a new dispatch command.
func NewDispatchCmd(flags *Flags) *DispatchCmd {
	return &DispatchCmd{flags: flags}
}

// Register adds the dispatch command to the application.
func (cmd *DispatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dispatch",
		Usage:     "Dispatch actions from JSON",
		UsageText: "organizer dispatch [-f file]",
		Description: `Reads a JSON array of actions and dispatches them in order.

Each element is {"type": "...", "payload": {...}}. Every action is validated
before the first one is dispatched. Unknown types are passed through.

Examples:
  echo '[{"type":"SET_TASK_COMPLETE","payload":{"taskId":"T1","isComplete":true}}]' | organizer dispatch
  organizer dispatch -f actions.json`,
		Flags:  []cli.Flag{cmd.input.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *DispatchCmd) run(ctx context.Context, c *cli.Command) error {
	envs, err := cmd.input.Read()
	if err != nil {
		return err
	}

	actions, err := decodeAll(envs)
	if err != nil {
		return err
	}

	app, err := cmd.flags.Open(ctx)
	if err != nil {
		return err
	}

	for _, a := range actions {
		app.Dispatch(a)
	}

	return iojson.WriteLine(c.Root().Writer, map[string]int{"dispatched": len(actions)})
}

// decodeAll decodes and validates every envelope, reporting all failures.
func decodeAll(envs []action.Envelope) ([]action.Action, error) {
	actions := make([]action.Action, 0, len(envs))
	var errs []error

	for i, env := range envs {
		a, err := action.Decode(env)
		if err == nil {
			err = action.Validate(a)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("action %d (%s): %w", i, env.Type, err))
			continue
		}
		actions = append(actions, a)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return actions, nil
}
