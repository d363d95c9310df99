package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-synth/analysis"
	"github.com/cwbudde/algo-synth/wavio"
)

func runInspect(_ context.Context, args []string) error {
	var (
		ef        engineFlags
		in        string
		harmonics int
	)

	fs := newFlagSet("inspect", "[flags]")
	ef.register(fs)
	fs.StringVar(&in, "in", "", "analyze this WAV file instead of a render")
	fs.IntVar(&harmonics, "harmonics", analysis.DefaultHarmonics, "number of partials to measure")
	if err := parse(fs, args); err != nil {
		return err
	}

	var (
		buf        []float64
		sampleRate float64
		stages     []string
	)

	if in != "" {
		audio, err := wavio.ReadFile(in)
		if err != nil {
			return err
		}
		buf, sampleRate = audio.Data, audio.SampleRate
	} else {
		s, err := ef.synthesizer()
		if err != nil {
			return err
		}
		p, _, err := ef.params()
		if err != nil {
			return err
		}
		if stages, err = s.ActiveStages(p); err != nil {
			return err
		}
		if buf, err = s.Render(p, ef.rng()); err != nil {
			return err
		}
		sampleRate = s.Config().SampleRate
	}

	r, err := analysis.Analyze(buf, sampleRate, analysis.WithHarmonics(harmonics))
	if err != nil {
		return err
	}
	return printReport(r, stages)
}

func printReport(r analysis.Report, stages []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Samples", fmt.Sprintf("%d", r.Level.Length)},
		{"Sample rate", fmt.Sprintf("%.0f Hz", r.SampleRate)},
		{"Peak", fmt.Sprintf("%.4f (%.2f dB)", r.Level.Peak, analysis.DB(r.Level.Peak))},
		{"RMS", fmt.Sprintf("%.4f (%.2f dB)", r.Level.RMS, analysis.DB(r.Level.RMS))},
		{"Crest factor", fmt.Sprintf("%.3f", r.Level.CrestFactor)},
		{"DC", fmt.Sprintf("%.5f", r.Level.DC)},
		{"Crossing rate", fmt.Sprintf("%.1f Hz", r.Level.CrossingRate(r.SampleRate))},
		{"Centroid", fmt.Sprintf("%.1f Hz", r.Timbre.Centroid)},
		{"Spread", fmt.Sprintf("%.1f Hz", r.Timbre.Spread)},
		{"Flatness", fmt.Sprintf("%.4f", r.Timbre.Flatness)},
		{"Rolloff", fmt.Sprintf("%.1f Hz", r.Timbre.Rolloff)},
		{"Bandwidth", fmt.Sprintf("%.2f Hz", r.Timbre.Bandwidth)},
	}
	if len(stages) > 0 {
		rows = append(rows, [2]string{"Stages", strings.Join(stages, " ")})
	}
	if r.Fundamental > 0 {
		rows = append(rows,
			[2]string{"Fundamental", fmt.Sprintf("%.2f Hz", r.Fundamental)},
			[2]string{"Note", fmt.Sprintf("%d (%+.1f cents)", r.Note, r.Cents)},
			[2]string{"THD", fmt.Sprintf("%.2f%%", 100*r.THD)},
		)
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}

	if len(r.Harmonics) > 0 {
		if _, err := fmt.Fprintf(tw, "\nHarmonic\tFrequency\tLevel\tRelative [dB]\n--------\t---------\t-----\t-------------\n"); err != nil {
			return err
		}
		for i, h := range r.Harmonics {
			rel := analysis.DB(h / r.Harmonics[0])
			if _, err := fmt.Fprintf(tw, "%d\t%.1f Hz\t%.4f\t%.1f\n", i+1, r.Fundamental*float64(i+1), h, rel); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}
