package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/optrhq/optr/internal/core"
)

func sampleReport() *core.Report {
	return &core.Report{
		Tools: []core.MatchedTool{
			{
				ToolCandidate: core.ToolCandidate{
					Name:        "db-helper",
					Description: "Database migrations",
					Source:      core.SourceProject,
					Path:        "/proj/tools/db-helper/TOOL.md",
				},
				FinalScore: 12,
			},
			{
				ToolCandidate: core.ToolCandidate{
					Name:           "reg-tool",
					Description:    "From the registry",
					Source:         core.SourceRegistry,
					InstallCommand: "optr-registry install reg-tool",
				},
				FinalScore: 8,
			},
		},
		Counts: map[core.Source]int{
			core.SourceProject:  1,
			core.SourceRegistry: 1,
		},
	}
}

func TestRenderer_Phase1(t *testing.T) {
	var out strings.Builder
	r := &Renderer{Out: &out, Plain: true}

	r.RenderPhase1(sampleReport())
	got := out.String()

	for _, want := range []string{"LOCAL TOOLS", "db-helper", "(score 12)", "project=1"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Error("plain output should carry no ANSI sequences")
	}
}

func TestRenderer_Phase1_Empty(t *testing.T) {
	var out strings.Builder
	r := &Renderer{Out: &out, Plain: true}

	r.RenderPhase1(&core.Report{Counts: map[core.Source]int{}})

	if !strings.Contains(out.String(), "No matching tools") {
		t.Errorf("empty result needs an explicit message:\n%s", out.String())
	}
}

func TestRenderer_Final(t *testing.T) {
	var out strings.Builder
	r := &Renderer{Out: &out, Plain: true}

	r.RenderFinal(sampleReport())
	got := out.String()

	for _, want := range []string{
		"READY TO USE",
		"AVAILABLE TO INSTALL",
		"install: optr-registry install reg-tool",
		"registry=1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderer_Warnings(t *testing.T) {
	var out strings.Builder
	r := &Renderer{Out: &out, Plain: true}

	report := sampleReport()
	report.Warnings = append(report.Warnings, errors.New("registry unavailable"))
	r.RenderFinal(report)

	if !strings.Contains(out.String(), "Warning: registry unavailable") {
		t.Errorf("warnings should be rendered:\n%s", out.String())
	}
}

func TestRenderer_Verbose(t *testing.T) {
	var out strings.Builder
	r := &Renderer{Out: &out, Plain: true, Verbose: true}

	r.RenderPhase1(sampleReport())

	if !strings.Contains(out.String(), "/proj/tools/db-helper/TOOL.md") {
		t.Errorf("verbose output should include descriptor paths:\n%s", out.String())
	}
}
