// Command layoutgen scans a Go package for a struct type and emits a
// generated internal/layout.Descriptor for it, deriving pointer
// offsets from the struct's fields instead of requiring a caller to
// hand-count byte offsets.
//
// A field contributes a pointer offset when it is tagged `gc:"ptr"`;
// a tagged field must be 8 bytes wide, and the field's type is not
// otherwise checked. Such fields are normally uintptr: this GC's
// objects live in an mmap'd region and are addressed by uintptr, not
// by ordinary Go pointers, so the struct being scanned is a plan of an
// object's shape, not the object itself.
package main

import (
	"errors"
	"flag"
	"fmt"
	"go/format"
	"go/types"
	"os"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/tools/go/packages"

	"github.com/orizon-lang/orizon-gc/internal/layout"
)

func main() {
	typeName := flag.String("type", "", "name of the struct type to scan (required)")
	outPath := flag.String("o", "", "output file (default stdout)")
	modPath := flag.String("module", "", "module path stamped into the generated file's header comment")
	flag.Parse()

	if *typeName == "" {
		fmt.Fprintln(os.Stderr, "layoutgen: -type is required")
		os.Exit(1)
	}

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	code, err := run(*typeName, *modPath, patterns)
	if err != nil {
		fmt.Fprintln(os.Stderr, "layoutgen:", err)
		os.Exit(1)
	}

	if *outPath == "" {
		fmt.Print(code)

		return
	}

	if err := os.WriteFile(*outPath, []byte(code), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "layoutgen:", err)
		os.Exit(1)
	}
}

func run(typeName, modPath string, patterns []string) (string, error) {
	if modPath != "" {
		if err := module.CheckPath(modPath); err != nil {
			return "", fmt.Errorf("invalid -module %q: %w", modPath, err)
		}
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return "", err
	}

	if packages.PrintErrors(pkgs) > 0 {
		return "", errors.New("failed to load packages")
	}

	st, pkgName, err := findStruct(pkgs, typeName)
	if err != nil {
		return "", err
	}

	fields, err := scanFields(st)
	if err != nil {
		return "", err
	}

	calc := layout.NewLayoutCalculator()

	sl, err := calc.CalculateStructLayout(typeName, fields)
	if err != nil {
		return "", err
	}

	desc, err := sl.DeriveDescriptor()
	if err != nil {
		return "", err
	}

	return render(pkgName, typeName, modPath, desc)
}

func findStruct(pkgs []*packages.Package, typeName string) (*types.Struct, string, error) {
	for _, p := range pkgs {
		if p.Types == nil || p.Types.Scope() == nil {
			continue
		}

		obj := p.Types.Scope().Lookup(typeName)
		if obj == nil {
			continue
		}

		st, ok := obj.Type().Underlying().(*types.Struct)
		if !ok {
			return nil, "", fmt.Errorf("%s is not a struct type", typeName)
		}

		return st, p.Name, nil
	}

	return nil, "", fmt.Errorf("type %q not found in provided source patterns", typeName)
}

// sizes pins the scan to amd64 layout rules explicitly, matching
// layout.LayoutCalculator's fixed TargetPointerSize, rather than
// trusting whatever architecture this tool happens to be built for.
var sizes = types.SizesFor("gc", "amd64")

func scanFields(st *types.Struct) ([]layout.FieldInfo, error) {
	fields := make([]layout.FieldInfo, 0, st.NumFields())

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := st.Tag(i)
		isPtr := hasPtrTag(tag)

		size := sizes.Sizeof(f.Type())
		if isPtr && size != 8 {
			return nil, fmt.Errorf("field %s tagged gc:\"ptr\" but has size %d, want 8", f.Name(), size)
		}

		fields = append(fields, layout.FieldInfo{
			Name:      f.Name(),
			Type:      f.Type().String(),
			Size:      size,
			Alignment: sizes.Alignof(f.Type()),
			IsPointer: isPtr,
		})
	}

	return fields, nil
}

func hasPtrTag(tag string) bool {
	return reflectLookup(tag, "gc") == "ptr"
}

// reflectLookup extracts a struct tag value without importing reflect,
// since go/types hands us the raw tag string, not a reflect.StructTag.
func reflectLookup(tag, key string) string {
	want := key + `:"`

	idx := strings.Index(tag, want)
	if idx < 0 {
		return ""
	}

	rest := tag[idx+len(want):]

	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}

	return rest[:end]
}

func render(pkgName, typeName, modPath string, desc *layout.Descriptor) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by layoutgen")

	if modPath != "" {
		fmt.Fprintf(&b, " for %s", modPath)
	}

	fmt.Fprintf(&b, ". DO NOT EDIT.\n\npackage %s\n\n", pkgName)
	b.WriteString("import \"github.com/orizon-lang/orizon-gc/internal/layout\"\n\n")
	fmt.Fprintf(&b, "var %sLayout = &layout.Descriptor{\n\tSize: %d,\n\tPtrOffsets: []uintptr{", typeName, desc.Size)

	for i, off := range desc.PtrOffsets {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%d", off)
	}

	b.WriteString("},\n}\n")

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return b.String(), nil
	}

	return string(formatted), nil
}
