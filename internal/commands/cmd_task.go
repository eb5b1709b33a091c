package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/pkg/iojson"
)

// TaskCmd implements the organizer task command group.
type TaskCmd struct {
	flags *Flags

	// create flags
	createGroup string
	createOwner string

	// list flags
	listGroup string
	listMatch string
	listOpen  bool

	// complete flags
	completeUndo bool

	// move flags
	moveGroup string
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags) *TaskCmd {
	return &TaskCmd{flags: flags}
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Create, list and edit tasks",
		Description: `Task commands dispatch actions through the store.

Every task is printed as a JSON line.

Examples:
  organizer task create --group G1             # new task in "To Do"
  organizer task list --open --match "*test*"  # open tasks by name
  organizer task complete T1                   # mark complete
  organizer task move T1 --group G3            # move to "Done"`,
		Commands: []*cli.Command{
			cmd.createCmd(),
			cmd.listCmd(),
			cmd.completeCmd(),
			cmd.renameCmd(),
			cmd.moveCmd(),
		},
	})

	return app
}

func (cmd *TaskCmd) createCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"new"},
		Usage:     "Create a task",
		UsageText: "organizer task create --group <id> [--owner <id>]",
		Description: `Requests a new task and waits until its id is allocated.

The owner defaults to the session user. The wait is bounded by the
commit_timeout configuration value.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "group to file the task under",
				Required:    true,
				Destination: &cmd.createGroup,
			},
			&cli.StringFlag{
				Name:        "owner",
				Aliases:     []string{"o"},
				Usage:       "owner of the task (defaults to the session user)",
				Destination: &cmd.createOwner,
			},
		},
		Action: cmd.runCreate,
	}
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "organizer task list [--group <id>] [--match <glob>] [--open]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "only tasks in this group",
				Destination: &cmd.listGroup,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "only tasks whose name matches the glob",
				Destination: &cmd.listMatch,
			},
			&cli.BoolFlag{
				Name:        "open",
				Usage:       "hide completed tasks",
				Destination: &cmd.listOpen,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) completeCmd() *cli.Command {
	return &cli.Command{
		Name:          "complete",
		Aliases:       []string{"done"},
		Usage:         "Mark a task complete",
		UsageText:     "organizer task complete <id> [--undo]",
		ShellComplete: TaskIDCompleter(cmd.flags),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "undo",
				Usage:       "mark the task open again",
				Destination: &cmd.completeUndo,
			},
		},
		Action: cmd.runComplete,
	}
}

func (cmd *TaskCmd) renameCmd() *cli.Command {
	return &cli.Command{
		Name:          "rename",
		Usage:         "Rename a task",
		UsageText:     "organizer task rename <id> <name>",
		ShellComplete: TaskIDCompleter(cmd.flags),
		Action:        cmd.runRename,
	}
}

func (cmd *TaskCmd) moveCmd() *cli.Command {
	return &cli.Command{
		Name:          "move",
		Aliases:       []string{"mv"},
		Usage:         "Move a task to another group",
		UsageText:     "organizer task move <id> --group <id>",
		ShellComplete: TaskIDCompleter(cmd.flags),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "destination group",
				Required:    true,
				Destination: &cmd.moveGroup,
			},
		},
		Action: cmd.runMove,
	}
}

func (cmd *TaskCmd) runCreate(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.Open(ctx)
	if err != nil {
		return err
	}

	if timeout := app.Config.CommitTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t, err := app.CreateTask(ctx, cmd.createGroup, cmd.createOwner)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return iojson.WriteLine(c.Root().Writer, t)
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.Open(ctx)
	if err != nil {
		return err
	}

	st := app.GetState()
	tasks := st.Tasks
	if cmd.listGroup != "" {
		tasks = task.ByGroup(st, cmd.listGroup)
	}
	if cmd.listOpen {
		tasks = task.Open(tasks)
	}
	if cmd.listMatch != "" {
		tasks, err = task.Matching(tasks, cmd.listMatch)
		if err != nil {
			return err
		}
	}

	for _, t := range tasks {
		if err := iojson.WriteLine(c.Root().Writer, t); err != nil {
			return err
		}
	}

	return nil
}

func (cmd *TaskCmd) runComplete(ctx context.Context, c *cli.Command) error {
	id, err := requireArgs(c, 1)
	if err != nil {
		return err
	}

	return cmd.edit(ctx, c, id[0], func(app editor) error {
		return app.SetComplete(id[0], !cmd.completeUndo)
	})
}

func (cmd *TaskCmd) runRename(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c, 2)
	if err != nil {
		return err
	}

	return cmd.edit(ctx, c, args[0], func(app editor) error {
		return app.Rename(args[0], args[1])
	})
}

func (cmd *TaskCmd) runMove(ctx context.Context, c *cli.Command) error {
	id, err := requireArgs(c, 1)
	if err != nil {
		return err
	}

	return cmd.edit(ctx, c, id[0], func(app editor) error {
		return app.Move(id[0], cmd.moveGroup)
	})
}

type editor interface {
	SetComplete(id string, complete bool) error
	Rename(id, name string) error
	Move(id, groupID string) error
}

// edit applies fn and prints the edited task. A missing task is not an
// error: the action was dispatched and left the state unchanged.
func (cmd *TaskCmd) edit(ctx context.Context, c *cli.Command, id string, fn func(editor) error) error {
	app, err := cmd.flags.Open(ctx)
	if err != nil {
		return err
	}

	err = fn(app)
	if errors.Is(err, task.ErrNotFound) {
		log.Warn().Str("task", id).Msg("task not found, nothing changed")
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "warning: task %s not found\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	t, err := task.Find(app.GetState(), id)
	if err != nil {
		return err
	}
	return iojson.WriteLine(c.Root().Writer, t)
}

func requireArgs(c *cli.Command, n int) ([]string, error) {
	args := c.Args().Slice()
	if len(args) != n {
		return nil, fmt.Errorf("expected %d argument(s), got %d. Usage: %s", n, len(args), c.UsageText)
	}
	return args, nil
}
