package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/config"
)

// SweepCommand deletes orphan tags and books once, in a single transaction.
type SweepCommand struct {
	Database DatabaseFlags
	defaults *config.Config
}

func NewSweepCommand(cfg *config.Config) *SweepCommand {
	return &SweepCommand{defaults: cfg}
}

func (cmd *SweepCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cmd.Database.register(fs, cmd.defaults.Database)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete tags whose book is gone and books whose author is gone.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SweepCommand) Run(ctx context.Context) error {
	return cmd.RunWith(ctx, os.Stdout)
}

func (cmd *SweepCommand) RunWith(ctx context.Context, out io.Writer) error {
	cat, err := openCatalog(cmd.Database)
	if err != nil {
		return err
	}
	defer cat.Close()

	result, err := app.SweepOrphans(ctx, cat.factory)
	if err != nil {
		return err
	}

	log.Info().Int64("books", result.Books).Int64("tags", result.Tags).Msg("Sweep finished")
	fmt.Fprintf(out, "Deleted %d orphan books and %d orphan tags\n", result.Books, result.Tags)
	return nil
}
