package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/dashboard"
	"github.com/julianstephens/theseus/internal/tui"
)

// DashboardCmd prints the overview once and exits.
type DashboardCmd struct {
	Local bool `help:"Read the local database even when a server is running."`
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	var (
		src    dashboard.Source
		source string
	)
	if c.Local {
		if err := ctx.Store.Load(); err != nil {
			return err
		}
		src, source = ctx.Local(), "local"
	} else {
		backend, name, err := ctx.Backend(context.Background())
		if err != nil {
			return err
		}
		src, source = backend, name
	}

	snap := dashboard.LoadAt(context.Background(), src, ctx.Today())
	fmt.Println(tui.RenderSnapshot(snap))
	fmt.Printf("\nsource: %s\n", source)
	return nil
}
