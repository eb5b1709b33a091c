package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/organizer/pkg/iojson"
)

type StateCmd struct {
	flags *Flags
}

// NewStateCmd creates a new state command.
func NewStateCmd(flags *Flags) *StateCmd {
	return &StateCmd{flags: flags}
}

// Register adds the state command to the application.
func (cmd *StateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "state",
		Usage:     "Print the whole state as JSON",
		UsageText: "organizer state",
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := cmd.flags.Open(ctx)
			if err != nil {
				return err
			}
			return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, app.GetState())
		},
	})

	return app
}
