package reports

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/schema"
	"github.com/spf13/afero"
)

// ResultDir is the folder inside a run directory that holds the copied report files.
const ResultDir = "cukeResult"

// DirSource reads runs from numbered directories below a root: <root>/<runID>/cukeResult/.
type DirSource struct {
	fs   afero.Fs
	root string
}

var _ contract.RunSource = &DirSource{} // Compile-time check

// NewDirSource returns a DirSource over root on fs.
func NewDirSource(fs afero.Fs, root string) *DirSource {
	return &DirSource{fs: fs, root: root}
}

// RunDir returns the directory of a run below root.
func RunDir(root string, runID int) string {
	return filepath.Join(root, strconv.Itoa(runID))
}

// RunResultDir returns the report folder of a run below root.
func RunResultDir(root string, runID int) string {
	return filepath.Join(RunDir(root, runID), ResultDir)
}

// RunIDs lists the runs found below the root in ascending order.
// Entries that are not directories named by a positive integer are ignored.
func (d *DirSource) RunIDs() ([]int, error) {
	entries, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs in %s: %w", d.root, err)
	}
	var ids []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id, err := strconv.Atoi(e.Name())
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Latest implements the RunSource interface.
func (d *DirSource) Latest(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ids, err := d.RunIDs()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("no runs in %s: %w", d.root, contract.ErrRunNotFound)
	}
	return ids[len(ids)-1], nil
}

// Previous implements the RunSource interface.
func (d *DirSource) Previous(ctx context.Context, runID int) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	ids, err := d.RunIDs()
	if err != nil {
		return 0, false, err
	}
	idx, _ := slices.BinarySearch(ids, runID)
	if idx == 0 {
		return 0, false, nil
	}
	return ids[idx-1], true, nil
}

// Load implements the RunSource interface.
func (d *DirSource) Load(ctx context.Context, runID int) (schema.RunReport, error) {
	if err := ctx.Err(); err != nil {
		return schema.RunReport{}, err
	}
	return LoadReport(d.fs, RunResultDir(d.root, runID), runID)
}
