package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookcatalog/internal/config"
)

// ShellCommand runs the interactive catalog shell on stdin and stdout.
type ShellCommand struct {
	Database DatabaseFlags
	defaults *config.Config
}

func NewShellCommand(cfg *config.Config) *ShellCommand {
	return &ShellCommand{defaults: cfg}
}

func (cmd *ShellCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	cmd.Database.register(fs, cmd.defaults.Database)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s shell [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage authors, books and tags interactively. Type Help for the command list.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ShellCommand) Run(ctx context.Context) error {
	return cmd.RunWith(ctx, os.Stdin, os.Stdout)
}

// RunWith runs the shell over the given streams until in is exhausted.
func (cmd *ShellCommand) RunWith(ctx context.Context, in io.Reader, out io.Writer) error {
	cat, err := openCatalog(cmd.Database)
	if err != nil {
		return err
	}
	defer cat.Close()

	menu := NewMenu(in, out)
	NewView(menu, cat.uc)
	menu.ShowInstructions()
	return menu.Run(ctx)
}
