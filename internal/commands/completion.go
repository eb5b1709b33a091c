package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests open task ids as
// positional completions, with the task name as description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		app, err := flags.Open(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range app.GetState().Tasks {
			if t == nil || t.IsComplete {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s:%s\n", t.ID, t.Name)
		}
	}
}
