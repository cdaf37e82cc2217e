// Command redirects patches calls to runtime functions that cannot work
// without an OS (such as runtime.gopanic) so that they jump to kernel
// replacements instead.
//
// Replacements are declared with a "//go:redirect-from <symbol>" directive in
// the doc comment of the replacing function. The tool has two commands:
//
//	redirects count
//	redirects populate-table <kernel image>
//
// count prints the number of directives so the linker script can size the
// .goredirectstbl section; populate-table fills that section with
// (source, destination) address pairs that the rt0 code installs at boot.
package main

import (
	"bufio"
	"debug/elf"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	directive    = "//go:redirect-from"
	tableSection = ".goredirectstbl"
)

// scanRoots are the source trees that may declare redirects.
var scanRoots = []string{"kernel", "device"}

type redirect struct {
	src string
	dst string

	srcVMA uint64
	dstVMA uint64
}

// modulePath returns the module path declared by the go.mod file in dir.
func modulePath(dir string) (string, error) {
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "module" {
			return fields[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("%s: no module directive", filepath.Join(dir, "go.mod"))
}

// collectGoFiles returns the non-test Go files below each root, relative to
// base. Missing roots are skipped.
func collectGoFiles(base string, roots ...string) ([]string, error) {
	var goFiles []string
	for _, root := range roots {
		rootPath := filepath.Join(base, root)
		if _, err := os.Stat(rootPath); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}

			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			goFiles = append(goFiles, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return goFiles, nil
}

// findRedirects parses goFiles (relative to base) and returns one entry per
// redirect directive. Destinations are named the way the linker names them.
func findRedirects(base, module string, goFiles []string) ([]*redirect, error) {
	var redirects []*redirect

	for _, goFile := range goFiles {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, filepath.Join(base, goFile), nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}

		for _, decl := range f.Decls {
			fnDecl, ok := decl.(*ast.FuncDecl)
			if !ok || fnDecl.Doc == nil || fnDecl.Recv != nil {
				continue
			}

			for _, comment := range fnDecl.Doc.List {
				if !strings.HasPrefix(comment.Text, directive) {
					continue
				}

				dst := fmt.Sprintf("%s/%s.%s", module, filepath.ToSlash(filepath.Dir(goFile)), fnDecl.Name.Name)
				fields := strings.Fields(comment.Text)
				if len(fields) != 2 || fields[0] != directive {
					return nil, fmt.Errorf("%s: malformed %s directive for %q", fset.Position(comment.Pos()), directive, dst)
				}

				redirects = append(redirects, &redirect{src: fields[1], dst: dst})
			}
		}
	}

	return redirects, nil
}

// resolveSymbols looks up the addresses of both ends of every redirect.
func resolveSymbols(redirects []*redirect, symbols []elf.Symbol) error {
	addr := make(map[string]uint64, len(symbols))
	for _, sym := range symbols {
		addr[sym.Name] = sym.Value
	}

	for _, r := range redirects {
		r.srcVMA, r.dstVMA = addr[r.src], addr[r.dst]
		switch {
		case r.srcVMA == 0:
			return fmt.Errorf("could not locate address of %q", r.src)
		case r.dstVMA == 0:
			return fmt.Errorf("could not locate address of %q", r.dst)
		}
	}

	return nil
}

// writeTable stores the redirect table at offset.
func writeTable(w io.WriterAt, offset int64, redirects []*redirect) error {
	entry := make([]byte, 16)
	for i, r := range redirects {
		binary.LittleEndian.PutUint64(entry[0:], r.srcVMA)
		binary.LittleEndian.PutUint64(entry[8:], r.dstVMA)
		if _, err := w.WriteAt(entry, offset+int64(i*len(entry))); err != nil {
			return err
		}
	}
	return nil
}

func populateTable(imgFile string, redirects []*redirect) error {
	img, err := elf.Open(imgFile)
	if err != nil {
		return err
	}
	defer img.Close()

	section := img.Section(tableSection)
	if section == nil {
		return fmt.Errorf("%s: missing %s section", imgFile, tableSection)
	}
	if need := uint64(len(redirects) * 16); section.Size < need {
		return fmt.Errorf("%s: %s section holds %d bytes; need %d", imgFile, tableSection, section.Size, need)
	}

	symbols, err := img.Symbols()
	if err != nil {
		return err
	}
	if err := resolveSymbols(redirects, symbols); err != nil {
		return fmt.Errorf("%s: %w", imgFile, err)
	}

	f, err := os.OpenFile(imgFile, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeTable(f, int64(section.Offset), redirects)
}

func runTool(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}

	cmd := args[0]
	switch {
	case cmd == "count" && len(args) == 1:
	case cmd == "populate-table" && len(args) == 2:
	case cmd == "populate-table":
		return errors.New("populate-table requires the path to the kernel image as an argument")
	default:
		return fmt.Errorf("unknown command %q", strings.Join(args, " "))
	}

	module, err := modulePath(".")
	if err != nil {
		return fmt.Errorf("this tool must be run from the module root: %w", err)
	}

	goFiles, err := collectGoFiles(".", scanRoots...)
	if err != nil {
		return err
	}

	redirects, err := findRedirects(".", module, goFiles)
	if err != nil {
		return err
	}

	if cmd == "count" {
		fmt.Fprintf(out, "%d", len(redirects))
		return nil
	}

	return populateTable(args[1], redirects)
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("[redirects] ")

	if err := runTool(flag.Args(), os.Stdout); err != nil {
		log.Fatalf("error: %v", err)
	}
}
