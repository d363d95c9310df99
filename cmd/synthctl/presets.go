package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-synth/preset"
)

func runPresets(_ context.Context, args []string) error {
	var (
		dir     string
		export  string
		imports string
	)

	fs := newFlagSet("presets", "[flags]")
	fs.StringVar(&dir, "dir", "presets", "preset directory")
	fs.StringVar(&export, "export", "", "write the whole directory as one bank file")
	fs.StringVar(&imports, "import", "", "unpack a bank file into the directory")
	if err := parse(fs, args); err != nil {
		return err
	}

	if imports != "" {
		return importBank(imports, dir)
	}

	bank, err := preset.LoadDir(dir)
	if err != nil {
		// The bank still holds every preset that loaded.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if export != "" {
		f, err := os.Create(export)
		if err != nil {
			return err
		}
		if err := preset.ExportBank(f, bank); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Preset\tShapes\tFrequency\tExtra keys\n------\t------\t---------\t----------\n"); err != nil {
		return err
	}
	for _, name := range bank.Names() {
		p := bank[name]
		if _, err := fmt.Fprintf(tw, "%s\t%s/%s\t%.1f Hz\t%d\n",
			name, p.Params.Shape1, p.Params.Shape2, p.Params.Frequency, len(p.Extra)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func importBank(path, dir string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bank, err := preset.ImportBank(f)
	if err != nil {
		return err
	}
	for _, name := range bank.Names() {
		out, err := preset.Save(dir, bank[name])
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}
