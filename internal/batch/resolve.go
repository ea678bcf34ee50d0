package batch

import (
	"os"
	"path/filepath"

	"github.com/ironsheep/alphableed/internal/imaging"
)

// Rejection is a command-line argument that was not queued.
type Rejection struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Resolution is the outcome of expanding command-line arguments.
type Resolution struct {
	Files    []string    `json:"files"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// Unsupported returns the number of rejected arguments that exist on disk.
// Missing paths are not counted.
func (r *Resolution) Unsupported() int {
	n := 0
	for _, rej := range r.Rejected {
		if rej.Reason != reasonMissing {
			n++
		}
	}
	return n
}

const (
	reasonMissing     = "does not exist"
	reasonUnsupported = "only PNG and TIFF files are supported"
)

// Resolve expands arguments into the list of files to repair.
//
// Files with a supported extension are queued as given. Directories are
// expanded one level deep; unsupported files inside them are rejected and
// subdirectories are ignored. A file named twice is queued once, so two
// workers never write the same path.
func Resolve(args []string) *Resolution {
	res := &Resolution{}
	seen := make(map[string]bool)

	queue := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if seen[key] {
			return
		}
		seen[key] = true
		res.Files = append(res.Files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Path: arg, Reason: reasonMissing})
			continue
		}

		if !info.IsDir() {
			if imaging.IsSupported(arg) {
				queue(arg)
			} else {
				res.Rejected = append(res.Rejected, Rejection{Path: arg, Reason: reasonUnsupported})
			}
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Path: arg, Reason: err.Error()})
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(arg, entry.Name())
			if imaging.IsSupported(path) {
				queue(path)
			} else {
				res.Rejected = append(res.Rejected, Rejection{Path: path, Reason: reasonUnsupported})
			}
		}
	}

	return res
}
