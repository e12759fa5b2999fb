package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/cardfx/card"
)

var (
	colorName   = lipgloss.Color("#7aa2f7")
	colorMuted  = lipgloss.Color("#a9b1d6")
	colorAccent = lipgloss.Color("#bd93f9")

	styleHeader = lipgloss.NewStyle().Foreground(colorName).Bold(true)
	styleName   = lipgloss.NewStyle().Foreground(colorName).Width(8)
	styleCount  = lipgloss.NewStyle().Foreground(colorAccent).Width(10)
	styleDesc   = lipgloss.NewStyle().Foreground(colorMuted)
)

func runPresets(args []string, stdout, stderr io.Writer) error {
	var plain bool
	fs := pflag.NewFlagSet("presets", pflag.ContinueOnError)
	fs.BoolVar(&plain, "plain", false, "names only, one per line")
	if err := parse(fs, args, stderr); err != nil {
		return err
	}

	if plain {
		for _, name := range card.PresetNames() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}
	fmt.Fprintln(stdout, presetTable())
	return nil
}

// presetTable renders one styled row per preset
func presetTable() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("presets"))
	for _, name := range card.PresetNames() {
		cfg, _ := card.Preset(name)
		flags := fmt.Sprintf("%dp %db", cfg.Particles.Count, cfg.Bolts.Count)
		if cfg.Burst.Enabled() {
			flags += " +"
		}
		b.WriteByte('\n')
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			styleName.Render(name),
			styleCount.Render(flags),
			styleDesc.Render(cfg.Description),
		))
	}
	return b.String()
}
