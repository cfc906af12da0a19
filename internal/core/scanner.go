package core

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	toolFileName = "TOOL.md"

	// Source-tier base scores. Project-local tools always outrank global
	// installs before keyword overlap is even considered.
	projectBaseScore = 10
	globalBaseScore  = 5
)

// projectToolDirs are the conventional project-relative directories scanned
// for tool descriptors. Missing directories are not an error.
var projectToolDirs = []string{".optr/tools", "tools"}

// globalToolsDir is the user-level install location, relative to $HOME.
const globalToolsDir = ".optr/tools"

// Scanner produces tool candidates from a single origin.
type Scanner interface {
	// Name identifies the scanner's source for warnings and summaries.
	Name() Source

	// Scan returns the candidates found at this source. A missing source
	// (no directory, no registry) yields zero candidates, not an error.
	Scan(ctx context.Context) ([]ToolCandidate, error)
}

// ProjectScanner reads tool descriptors from conventional subdirectories of
// a project folder.
type ProjectScanner struct {
	Root string // project root; defaults to the working directory
}

func (s *ProjectScanner) Name() Source { return SourceProject }

func (s *ProjectScanner) Scan(ctx context.Context) ([]ToolCandidate, error) {
	root := s.Root
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		root = cwd
	}

	var candidates []ToolCandidate
	for _, dir := range projectToolDirs {
		found, err := scanToolDir(filepath.Join(root, dir), SourceProject, projectBaseScore)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, found...)
	}
	return candidates, nil
}

// GlobalScanner reads tool descriptors from the user-level install
// location (~/.optr/tools).
type GlobalScanner struct {
	Home string // home directory override, for tests
}

func (s *GlobalScanner) Name() Source { return SourceGlobal }

func (s *GlobalScanner) Scan(ctx context.Context) ([]ToolCandidate, error) {
	home := s.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		home = h
	}
	return scanToolDir(filepath.Join(home, globalToolsDir), SourceGlobal, globalBaseScore)
}

// scanToolDir reads every <dir>/<name>/TOOL.md descriptor. Entries without
// a valid descriptor are skipped silently; a missing dir yields nil, nil.
func scanToolDir(dir string, source Source, baseScore int) ([]ToolCandidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tools directory: %w", err)
	}

	var candidates []ToolCandidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		descPath := filepath.Join(dir, entry.Name(), toolFileName)
		meta, err := ParseToolFile(descPath)
		if err != nil {
			continue // Skip entries without a valid TOOL.md
		}

		candidates = append(candidates, ToolCandidate{
			Name:        meta.Name,
			Description: meta.Description,
			Source:      source,
			Keywords:    meta.keywordSet(),
			BaseScore:   baseScore,
			Relevance:   -1,
			Path:        descPath,
		})
	}

	return candidates, nil
}

// ToolMetadata is the YAML frontmatter parsed from a TOOL.md descriptor.
// Fields beyond name/description/keywords are ignored.
type ToolMetadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

// keywordSet returns the matchable token set for the tool: declared
// keywords when present, otherwise tokens extracted from name and
// description.
func (m *ToolMetadata) keywordSet() map[string]bool {
	if len(m.Keywords) > 0 {
		set := make(map[string]bool, len(m.Keywords))
		for _, k := range m.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				set[k] = true
			}
		}
		return set
	}
	return ExtractKeywords(m.Name + " " + m.Description)
}

// ParseToolFile reads and parses the YAML frontmatter from a TOOL.md file.
func ParseToolFile(path string) (*ToolMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Look for opening ---
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty file: %s", path)
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil, fmt.Errorf("no frontmatter in %s", path)
	}

	// Collect frontmatter lines until closing ---
	var frontmatter strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			break
		}
		frontmatter.WriteString(line)
		frontmatter.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var meta ToolMetadata
	if err := yaml.Unmarshal([]byte(frontmatter.String()), &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	if meta.Name == "" {
		return nil, fmt.Errorf("TOOL.md missing name field: %s", path)
	}

	return &meta, nil
}

// FindTool locates a tool descriptor by name, searching project directories
// first and then the global install location. Returns the descriptor path.
func FindTool(root, home, name string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(name))

	var dirs []string
	for _, d := range projectToolDirs {
		dirs = append(dirs, filepath.Join(root, d))
	}
	dirs = append(dirs, filepath.Join(home, globalToolsDir))

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			descPath := filepath.Join(dir, entry.Name(), toolFileName)
			meta, err := ParseToolFile(descPath)
			if err != nil {
				continue
			}
			if strings.ToLower(meta.Name) == want {
				return descPath, nil
			}
		}
	}

	return "", fmt.Errorf("tool %q not found in project or global directories", name)
}
