package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-yaml/yaml"

	"github.com/voidshard/glitch"
)

const desc = `Lists runs recorded in a glitch journal database, newest first.`

var cli struct {
	// where to find the journal
	Input string `short:"i" help:"journal database file (required)"`

	Tool  string `short:"t" help:"only list runs of this tool"`
	Limit int    `short:"n" default:"20" help:"list at most this many runs (0 for all)"`
	ID    string `help:"show a single run"`

	YAML bool `name:"yaml" help:"print runs as yaml"`
}

// entry is how a run is printed as yaml
type entry struct {
	ID      string                 `yaml:"id"`
	Tool    string                 `yaml:"tool"`
	Input   string                 `yaml:"input"`
	Output  string                 `yaml:"output"`
	Seed    int64                  `yaml:"seed,omitempty"`
	Created string                 `yaml:"created"`
	Params  map[string]interface{} `yaml:"params,omitempty"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("journal"), kong.Description(desc))

	fpath, err := glitch.ExpandPath(cli.Input)
	ctx.FatalIfErrorf(err)

	if !glitch.FileExists(fpath) {
		ctx.Fatalf("journal not found: %q", cli.Input)
	}

	j, err := glitch.OpenJournal(fpath)
	ctx.FatalIfErrorf(err)
	defer j.Close()

	var runs []*glitch.Run
	if cli.ID != "" {
		r, err := j.Run(cli.ID)
		ctx.FatalIfErrorf(err)
		if r == nil {
			ctx.Fatalf("no run %q", cli.ID)
		}
		runs = append(runs, r)
	} else {
		runs, err = j.Runs(cli.Tool, cli.Limit)
		ctx.FatalIfErrorf(err)
	}

	if cli.YAML {
		entries := make([]entry, len(runs))
		for i, r := range runs {
			entries[i] = entry{
				ID:      r.ID,
				Tool:    r.Tool,
				Input:   r.Input,
				Output:  r.Output,
				Seed:    r.Seed,
				Created: r.Created.Format("2006-01-02 15:04:05"),
				Params:  r.Params.Map(),
			}
		}

		data, err := yaml.Marshal(entries)
		ctx.FatalIfErrorf(err)
		os.Stdout.Write(data)
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %-18s %s -> %s", r.Created.Format("2006-01-02 15:04:05"), r.Tool, r.Input, r.Output)
		if r.Seed != 0 {
			fmt.Printf("  seed=%d", r.Seed)
		}
		if r.Params.Len() > 0 {
			fmt.Printf("  %s", r.Params)
		}
		fmt.Println()
	}
}
