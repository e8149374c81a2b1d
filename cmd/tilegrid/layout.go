package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samuelreed/tilegrid/internal/config"
	"github.com/samuelreed/tilegrid/internal/layout"
)

// layoutDump is the YAML report of `tilegrid layout`.
type layoutDump struct {
	Config    config.LayoutConfig `yaml:"config"`
	Surface   layout.Size         `yaml:"surface"`
	PageCount int                 `yaml:"page_count"`
	Pages     []pageDump          `yaml:"pages"`
	PanelGrid *panelGridDump      `yaml:"panel_grid,omitempty"`
}

type pageDump struct {
	Page  int        `yaml:"page"`
	Grid  []string   `yaml:"grid"`
	Panes []paneDump `yaml:"panes"`
}

type paneDump struct {
	ID       string          `yaml:"id"`
	Position layout.Position `yaml:"position"`
	Bounds   layout.Bounds   `yaml:"bounds"`
}

type panelGridDump struct {
	Nav      []string   `yaml:"nav"`
	Children []paneDump `yaml:"children"`
}

func newLayoutCmd(root *rootOptions) *cobra.Command {
	var (
		width, height int
		children      []string
	)

	cmd := &cobra.Command{
		Use:   "layout <panes>",
		Short: "Print the page maps and pane bounds for a pane count",
		Long: "Builds the page maps the configured layout produces for the given number of\n" +
			"panes and prints every placement as YAML. With --children it also tiles a\n" +
			"maximized panel grid holding those child keys.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid pane count: %s", args[0])
			}

			cfg, err := config.NewLoader(root.configPath, nil).Load()
			if err != nil {
				return err
			}
			lc, err := cfg.Layout.ToLayout()
			if err != nil {
				return err
			}

			dump, err := buildLayoutDump(lc, cfg.PanelOrder(), layout.Size{Width: width, Height: height}, n, children)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(dump)
		},
	}

	cmd.Flags().IntVar(&width, "width", 120, "surface width in cells")
	cmd.Flags().IntVar(&height, "height", 40, "surface height in cells")
	cmd.Flags().StringSliceVar(&children, "children", nil, "child keys of a maximized panel grid")
	return cmd
}

// paneIDs names panes p1..pn.
func paneIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "p" + strconv.Itoa(i+1)
	}
	return ids
}

func buildLayoutDump(lc layout.Config, order layout.PanelOrder, surface layout.Size, n int, children []string) (*layoutDump, error) {
	res, err := layout.NewCalculator(lc).Build(paneIDs(n), surface)
	if err != nil {
		return nil, err
	}

	dump := &layoutDump{
		Config:    config.FromLayout(lc),
		Surface:   surface,
		PageCount: res.PageCount(),
	}
	for i, page := range res.Pages {
		pd := pageDump{Page: i, Grid: gridRows(page)}
		for _, id := range res.OnPage(i) {
			pl, _ := res.Placement(id)
			pd.Panes = append(pd.Panes, paneDump{ID: id, Position: pl.Position, Bounds: pl.Rect.Resolve(surface)})
		}
		dump.Pages = append(dump.Pages, pd)
	}

	if len(children) > 0 {
		grid, err := layout.BuildPanelGrid(children, lc, order, surface)
		if err != nil {
			return nil, err
		}
		pg := &panelGridDump{Nav: gridRows(grid.Nav)}
		for _, key := range grid.Keys {
			pl := grid.Placements[key]
			pg.Children = append(pg.Children, paneDump{ID: key, Position: pl.Position, Bounds: pl.Rect.Resolve(surface)})
		}
		dump.PanelGrid = pg
	}
	return dump, nil
}

// gridRows renders an occupancy matrix one row per line, "." for empty.
func gridRows(page layout.Page) []string {
	rows := make([]string, len(page))
	for r, row := range page {
		cells := make([]string, len(row))
		for c, id := range row {
			if id == "" {
				id = "."
			}
			cells[c] = id
		}
		rows[r] = strings.Join(cells, " ")
	}
	return rows
}
