package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/optrhq/optr/internal/core"
)

// Renderer writes discovery reports. When Plain is set (non-TTY or --no-color)
// all styling is stripped so the output pipes cleanly.
type Renderer struct {
	Out     io.Writer
	Plain   bool
	Verbose bool
}

// RenderPhase1 prints the local-only results and announces the upcoming
// gate. An empty result is expected output, not an error.
func (r *Renderer) RenderPhase1(report *core.Report) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("optr discover") + "\n\n")
	b.WriteString(sectionHeaderStyle.Render("LOCAL TOOLS") + "\n")

	if len(report.Tools) == 0 {
		b.WriteString(mutedStyle.Render("  No matching tools in project or global directories.") + "\n")
	} else {
		r.writeTools(&b, report.Tools, toolNameStyle)
	}

	r.writeCounts(&b, report)
	r.writeWarnings(&b, report)

	r.flush(b.String())
}

// RenderFinal prints the full result split into ready-to-use and
// installable sections.
func (r *Renderer) RenderFinal(report *core.Report) {
	var b strings.Builder

	ready := report.ReadyToUse()
	b.WriteString(sectionHeaderStyle.Render("READY TO USE") + "\n")
	if len(ready) == 0 {
		b.WriteString(mutedStyle.Render("  (none)") + "\n")
	} else {
		r.writeTools(&b, ready, toolNameStyle)
	}

	installable := report.Installables()
	b.WriteString("\n" + sectionHeaderStyle.Render("AVAILABLE TO INSTALL") + "\n")
	if len(installable) == 0 {
		b.WriteString(mutedStyle.Render("  (none)") + "\n")
	} else {
		for _, tool := range installable {
			fmt.Fprintf(&b, "  %s %s\n",
				installableNameStyle.Render(tool.Name),
				scoreStyle.Render(fmt.Sprintf("(score %d)", tool.FinalScore)))
			if tool.Description != "" {
				b.WriteString(mutedStyle.Render("    "+tool.Description) + "\n")
			}
			b.WriteString("    install: " + tool.InstallCommand + "\n")
		}
	}

	r.writeCounts(&b, report)
	r.writeWarnings(&b, report)

	r.flush(b.String())
}

func (r *Renderer) writeTools(b *strings.Builder, tools []core.MatchedTool, nameStyle interface{ Render(...string) string }) {
	for _, tool := range tools {
		fmt.Fprintf(b, "  %s %s\n",
			nameStyle.Render(tool.Name),
			scoreStyle.Render(fmt.Sprintf("(score %d)", tool.FinalScore)))
		if tool.Description != "" {
			b.WriteString(mutedStyle.Render("    "+tool.Description) + "\n")
		}
		if r.Verbose && tool.Path != "" {
			b.WriteString(mutedStyle.Render("    "+tool.Path) + "\n")
		}
	}
}

func (r *Renderer) writeCounts(b *strings.Builder, report *core.Report) {
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf(
		"Sources: project=%d global=%d registry=%d",
		report.Counts[core.SourceProject],
		report.Counts[core.SourceGlobal],
		report.Counts[core.SourceRegistry])) + "\n")
}

func (r *Renderer) writeWarnings(b *strings.Builder, report *core.Report) {
	for _, warning := range report.Warnings {
		b.WriteString(warningStyle.Render("Warning: "+warning.Error()) + "\n")
	}
}

func (r *Renderer) flush(s string) {
	if r.Plain {
		s = ansi.Strip(s)
	}
	fmt.Fprint(r.Out, s)
}
