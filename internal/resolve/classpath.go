package resolve

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadClasspath returns the JDK model extended with the opaque types named
// by entries. An entry is a directory of .class files, a .jar archive, or a
// .txt file listing one qualified type name per line.
func LoadClasspath(entries []string) (*Library, error) {
	lib, err := JDK()
	if err != nil {
		return nil, fmt.Errorf("building jdk model: %w", err)
	}
	for _, e := range entries {
		var names []string
		switch {
		case strings.HasSuffix(e, ".jar"):
			names, err = jarClasses(e)
		case strings.HasSuffix(e, ".txt"):
			names, err = listedClasses(e)
		default:
			names, err = dirClasses(e)
		}
		if err != nil {
			return nil, fmt.Errorf("loading classpath entry %s: %w", e, err)
		}
		for _, n := range names {
			lib.Add(&LibType{Name: n, Opaque: true})
		}
	}
	return lib, nil
}

// classFileName maps "a/b/C$D.class" to "a.b.C.D". Anonymous and local
// classes (a numeric segment after '$') are skipped.
func classFileName(rel string) (string, bool) {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".class")
	if rel == "module-info" || strings.HasSuffix(rel, "/package-info") {
		return "", false
	}
	parts := strings.Split(rel, "$")
	for _, p := range parts[1:] {
		if p == "" || (p[0] >= '0' && p[0] <= '9') {
			return "", false
		}
	}
	return strings.ReplaceAll(strings.Join(parts, "."), "/", "."), true
}

func jarClasses(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var out []string
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".class") || strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}
		if n, ok := classFileName(f.Name); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func dirClasses(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if n, ok := classFileName(rel); ok {
			out = append(out, n)
		}
		return nil
	})
	return out, err
}

func listedClasses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
