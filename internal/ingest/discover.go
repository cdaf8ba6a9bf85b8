package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type SourceFile struct {
	Path string
}

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".svg":  {},
}

// DiscoverMarkdown lists the regular files under root whose extension is
// one of exts, sorted by path. Only root itself is read unless recursive.
func DiscoverMarkdown(root string, recursive bool, exts []string) ([]SourceFile, error) {
	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = struct{}{}
	}

	paths, err := collect(root, recursive, func(path string) bool {
		_, ok := want[filepath.Ext(path)]
		return ok
	})
	if err != nil {
		return nil, err
	}

	out := make([]SourceFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, SourceFile{Path: p})
	}
	return out, nil
}

// DiscoverImages walks root recursively for image files, sorted by path.
func DiscoverImages(root string) ([]string, error) {
	return collect(root, true, IsImageFile)
}

func IsImageFile(path string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Exclude drops files whose path contains any of the patterns.
func Exclude(files []SourceFile, patterns []string) (kept, skipped []SourceFile) {
	for _, f := range files {
		if matchesAny(f.Path, patterns) {
			skipped = append(skipped, f)
			continue
		}
		kept = append(kept, f)
	}
	return kept, skipped
}

func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func collect(root string, recursive bool, keep func(string) bool) ([]string, error) {
	var out []string

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			path := filepath.Join(root, e.Name())
			if isRegular(path, e) && keep(path) {
				out = append(out, path)
			}
		}
		sortPaths(out)
		return out, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// 读不了的条目直接跳过
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if isRegular(path, d) && keep(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPaths(out)
	return out, nil
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// sortPaths orders paths component by component, so "a/b.md" sorts
// before "a-c.md".
func sortPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return lessPath(paths[i], paths[j])
	})
}

func lessPath(a, b string) bool {
	ap := strings.Split(filepath.ToSlash(a), "/")
	bp := strings.Split(filepath.ToSlash(b), "/")
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if ap[i] != bp[i] {
			return ap[i] < bp[i]
		}
	}
	return len(ap) < len(bp)
}
