package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
)

// unitgen reads a *.unit.json file naming a customizable unit and the Go types of its
// required dependencies, and writes a typed bindings struct plus Wire<Name> and
// MustWire<Name>, so a factory of the wrong type fails to compile.
//
// The owner file (the one carrying the go:generate line) supplies import aliases. Only
// the imports a dependency type actually references are copied; the di import is
// always present. Output is gofmt-formatted and replaced atomically.

const (
	defaultDIImport = "github.com/sghaida/unitwire/di"

	// ownerMarker identifies the go:generate line that owns the generated file.
	ownerMarker = "cmd/unitgen"
)

// Dep is one required dependency of the unit.
type Dep struct {
	// Name becomes the bindings field and the suffix of the key constant.
	Name string `json:"name"`

	// Key is the dependency name the unit declares.
	Key string `json:"key"`

	// Type is the Go type the factory returns.
	Type string `json:"type"`
}

// Imports overrides import paths used by the generated code.
type Imports struct {
	DI string `json:"di"`
}

// Spec is the contents of a *.unit.json file.
type Spec struct {
	Package string `json:"package"`

	// Unit is the package-level *di.Unit[ImplType] variable.
	Unit     string `json:"unit"`
	ImplType string `json:"implType"`

	// Name prefixes generated identifiers. Defaults to ImplType.
	Name string `json:"name"`

	Imports  Imports `json:"imports"`
	Required []Dep   `json:"required"`
}

// applyDefaults fills optional fields.
func (s *Spec) applyDefaults() {
	if strings.TrimSpace(s.Name) == "" {
		s.Name = s.ImplType
	}
	if strings.TrimSpace(s.Imports.DI) == "" {
		s.Imports.DI = defaultDIImport
	}
}

// ImportSpec is one import line of the generated file.
type ImportSpec struct {
	Alias string
	Path  string
}

type templateData struct {
	Spec        Spec
	ImportsList []ImportSpec
	DI          string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run is main without os.Exit. Invalid input panics, as go generate reports it verbatim.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("unitgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	specFlag := fs.String("spec", "", "path to the *.unit.json file")
	outFlag := fs.String("out", "", "path of the generated *.gen.go file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*specFlag) == "" || strings.TrimSpace(*outFlag) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: unitgen -spec <file.unit.json> -out <file.gen.go>")
		return 2
	}

	spec := loadSpec(*specFlag)
	outPath := filepath.Clean(*outFlag)

	// No owner file is fine when every dependency type is local to the package.
	owner, err := findOwnerGoGenerateFile(filepath.Dir(outPath))
	if err != nil {
		owner = ""
	}
	imports, diIdent := resolveImports(owner, &spec)

	src, err := render(templateData{Spec: spec, ImportsList: imports, DI: diIdent})
	must(err)
	must(writeFileAtomic(outPath, src, 0o644))
	return 0
}

// loadSpec reads, validates and defaults the spec at p.
func loadSpec(p string) Spec {
	raw, err := os.ReadFile(p)
	must(err)

	var spec Spec
	must(json.Unmarshal(raw, &spec))
	validateSpec(&spec)
	spec.applyDefaults()
	return spec
}

func validateSpec(spec *Spec) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"package", spec.Package},
		{"unit", spec.Unit},
		{"implType", spec.ImplType},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(spec.Required) == 0 {
		missing = append(missing, "required (must have at least 1)")
	}
	if len(missing) > 0 {
		panic(fmt.Errorf("spec missing required fields: %v", missing))
	}

	if spec.Name != "" && !token.IsIdentifier(spec.Name) {
		panic(fmt.Errorf("name %q is not a valid Go identifier", spec.Name))
	}

	names := make(map[string]bool, len(spec.Required))
	keys := make(map[string]bool, len(spec.Required))
	for _, dep := range spec.Required {
		if dep.Name == "" || strings.TrimSpace(dep.Key) == "" || dep.Type == "" {
			panic(fmt.Errorf("each dep must have name/key/type; got: %+v", dep))
		}
		if !token.IsIdentifier(dep.Name) || !token.IsExported(dep.Name) {
			panic(fmt.Errorf("dep name %q must be an exported Go identifier", dep.Name))
		}
		if names[dep.Name] {
			panic(fmt.Errorf("duplicate dep name: %s", dep.Name))
		}
		// di compares keys trimmed and lower-cased.
		key := strings.ToLower(strings.TrimSpace(dep.Key))
		if keys[key] {
			panic(fmt.Errorf("duplicate dep key: %s", dep.Key))
		}
		names[dep.Name] = true
		keys[key] = true
	}
}

// isOwnerCandidate reports whether name is a hand-written, non-test Go file.
func isOwnerCandidate(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, ".gen.go")
}

// findOwnerGoGenerateFile returns the file in dir whose go:generate line runs unitgen.
// Unreadable files are skipped.
func findOwnerGoGenerateFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() || !isOwnerCandidate(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		src, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if bytes.Contains(src, []byte("go:generate")) && bytes.Contains(src, []byte(ownerMarker)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("could not find owner file with go:generate invoking %s in %s", ownerMarker, dir)
}

func readImportsFromFile(p string) ([]ImportSpec, error) {
	f, err := parser.ParseFile(token.NewFileSet(), p, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	out := make([]ImportSpec, 0, len(f.Imports))
	for _, imp := range f.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, err
		}
		spec := ImportSpec{Path: importPath}
		if imp.Name != nil {
			spec.Alias = imp.Name.Name
		}
		out = append(out, spec)
	}
	return out, nil
}

// ensureImport appends imp unless its path is already imported (under any alias).
func ensureImport(imports *[]ImportSpec, imp ImportSpec) {
	if !containsPath(*imports, imp.Path) {
		*imports = append(*imports, imp)
	}
}

func containsPath(imports []ImportSpec, importPath string) bool {
	return slices.ContainsFunc(imports, func(imp ImportSpec) bool { return imp.Path == importPath })
}

// importDefaultIdent is the package identifier an unaliased import gets.
func importDefaultIdent(importPath string) string {
	return path.Base(strings.TrimSpace(importPath))
}

func importIdent(imp ImportSpec) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	return importDefaultIdent(imp.Path)
}

func isTypeRune(r rune) bool {
	return r == '_' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// referencesIdent reports whether any dependency type is qualified by ident.
func referencesIdent(deps []Dep, ident string) bool {
	prefix := ident + "."
	for _, dep := range deps {
		for _, word := range strings.FieldsFunc(dep.Type, func(r rune) bool { return !isTypeRune(r) }) {
			if strings.HasPrefix(word, prefix) {
				return true
			}
		}
	}
	return false
}

// resolveImports returns the generated file's imports and the identifier for the di
// package. Owner imports survive only when a dependency type uses them; blank and dot
// imports never do. An owner alias for di is kept.
func resolveImports(owner string, spec *Spec) ([]ImportSpec, string) {
	var ownerImports []ImportSpec
	if strings.TrimSpace(owner) != "" {
		// A broken owner file leaves only the di import.
		ownerImports, _ = readImportsFromFile(owner)
	}

	diIdent := importDefaultIdent(spec.Imports.DI)
	out := make([]ImportSpec, 0, len(ownerImports)+1)
	for _, imp := range ownerImports {
		hidden := imp.Alias == "_" || imp.Alias == "."
		switch {
		case imp.Path == spec.Imports.DI:
			if imp.Alias != "" && !hidden {
				diIdent = imp.Alias
				out = append(out, imp)
			}
		case hidden:
		case referencesIdent(spec.Required, importIdent(imp)):
			out = append(out, imp)
		}
	}
	ensureImport(&out, ImportSpec{Path: spec.Imports.DI})
	return out, diIdent
}

func render(data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// genTemplate is the Go source template used to generate the typed wiring code.
var genTemplate = template.Must(
	template.New("unitgen").Parse(`// Code generated by unitgen; DO NOT EDIT.

package {{.Spec.Package}}

import (
{{- range .ImportsList}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// Dependency keys required by {{.Spec.Unit}}.
const (
{{- range .Spec.Required}}
	{{$.Spec.Name}}Key{{.Name}} {{$.DI}}.DependencyKey = {{printf "%q" .Key}}
{{- end}}
)

// {{.Spec.Name}}Bindings holds one typed factory per dependency {{.Spec.Unit}} requires.
type {{.Spec.Name}}Bindings struct {
{{- range .Spec.Required}}
	{{.Name}} func(args {{$.DI}}.Args) ({{.Type}}, error)
{{- end}}
}

// Wire{{.Spec.Name}} binds b to {{.Spec.Unit}}. A nil field fails with {{.DI}}.NilFactoryError.
func Wire{{.Spec.Name}}(b {{.Spec.Name}}Bindings) (*{{.DI}}.Wired[{{.Spec.ImplType}}], error) {
	return {{.DI}}.Wire({{.Spec.Unit}},
{{- range .Spec.Required}}
		{{$.DI}}.Bind({{$.Spec.Name}}Key{{.Name}}, {{$.DI}}.Provide(b.{{.Name}})),
{{- end}}
	)
}

// MustWire{{.Spec.Name}} is Wire{{.Spec.Name}} that panics on invalid wiring.
func MustWire{{.Spec.Name}}(b {{.Spec.Name}}Bindings) *{{.DI}}.Wired[{{.Spec.ImplType}}] {
	w, err := Wire{{.Spec.Name}}(b)
	if err != nil {
		panic(err)
	}
	return w
}
`),
)

// tempFile is the subset of *os.File writeFileAtomic uses.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// Filesystem seams; tests replace them.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic stages data in a hidden temp file next to target and renames it into
// place. The temp file is removed on any failure.
func writeFileAtomic(target string, data []byte, perm os.FileMode) error {
	tmp, err := createTempFile(filepath.Dir(target), "."+filepath.Base(target)+"-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = removeFile(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := chmodFile(tmp.Name(), perm); err != nil {
		return err
	}
	if err := renameFile(tmp.Name(), target); err != nil {
		return err
	}
	committed = true
	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
