package formats

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"debatekeeper/internal/format"
	"debatekeeper/internal/logging"
	"debatekeeper/internal/parse"

	"golang.org/x/sync/errgroup"
)

// Manager loads debate format files from a directory.
type Manager struct {
	dir   string
	names *parse.Names
}

// FormatInfo describes one format file found in the directory.
type FormatInfo struct {
	Name string // file name without the .xml extension
	Path string
}

// ValidationResult is the outcome of validating one format file.
type ValidationResult struct {
	Info       FormatInfo
	FormatName string
	Speeches   int
	Errors     []string // non-fatal parse errors
	Err        error    // fatal: the file produced no usable format
}

// NewManager creates a Manager over the given directory. A nil names uses
// the standard element and attribute names.
func NewManager(dir string, names *parse.Names) *Manager {
	if names == nil {
		names = parse.DefaultNames()
	}
	return &Manager{dir: dir, names: names}
}

// Dir returns the directory the manager reads from.
func (m *Manager) Dir() string {
	return m.dir
}

// List returns the format files in the directory, sorted by name.
func (m *Manager) List() ([]FormatInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read formats dir: %w", err)
	}

	var infos []FormatInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		infos = append(infos, FormatInfo{
			Name: strings.TrimSuffix(entry.Name(), ".xml"),
			Path: filepath.Join(m.dir, entry.Name()),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Load parses the named format file. name is the file name without the
// .xml extension, as returned by List. Non-fatal parse errors are
// returned alongside the format.
func (m *Manager) Load(name string) (*format.DebateFormat, []string, error) {
	path := filepath.Join(m.dir, name+".xml")
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open format %q: %w", name, err)
	}
	defer f.Close()

	p := parse.NewParser(m.names)
	df, err := p.Parse(f)
	if err != nil {
		return nil, p.Errors(), err
	}

	logging.Formats("loaded format %q (%d speeches, %d parse errors)",
		df.Name(), df.SpeechCount(), len(p.Errors()))
	return df, p.Errors(), nil
}

// ValidateAll parses every format file in the directory concurrently and
// returns one result per file. The results are in List order.
func (m *Manager) ValidateAll(ctx context.Context) ([]ValidationResult, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}

	results := make([]ValidationResult, len(infos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, info := range infos {
		i, info := i, info
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := ValidationResult{Info: info}
			df, errs, err := m.Load(info.Name)
			res.Errors = errs
			if err != nil {
				res.Err = err
			} else {
				res.FormatName = df.Name()
				res.Speeches = df.SpeechCount()
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
