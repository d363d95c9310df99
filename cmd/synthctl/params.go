package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-synth/preset"
	"github.com/cwbudde/algo-synth/synth"
)

func runParams(_ context.Context, args []string) error {
	var (
		ef     engineFlags
		asJSON bool
		name   string
		save   string
	)

	fs := newFlagSet("params", "[flags]")
	ef.register(fs)
	fs.BoolVar(&asJSON, "json", false, "print the parameter set as a preset document")
	fs.StringVar(&name, "name", "", "preset name for -save")
	fs.StringVar(&save, "save", "", "save the parameter set as a preset in this directory")
	if err := parse(fs, args); err != nil {
		return err
	}

	if ef.random && ef.seed == 0 {
		// Print the seed so a draw can be reproduced.
		ef.seed = rand.Int63()
		fmt.Fprintf(os.Stderr, "seed %d\n", ef.seed)
	}

	p, _, err := ef.params()
	if err != nil {
		return err
	}

	if save != "" {
		if name == "" {
			return fmt.Errorf("params: -save needs -name")
		}
		pr := preset.New(name)
		pr.Params = p
		path, err := preset.Save(save, pr)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	if asJSON {
		pr := preset.New(name)
		pr.Params = p
		return preset.Encode(os.Stdout, pr)
	}

	defaults := synth.DefaultParams().Values()
	values := p.Values()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Key\tValue\tDefault\n---\t-----\t-------\n"); err != nil {
		return err
	}
	for _, key := range synth.Keys() {
		if _, err := fmt.Fprintf(tw, "%s\t%v\t%v\n", key, values[key], defaults[key]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
