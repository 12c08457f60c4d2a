package gen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/syssam/mbgen"
)

// DefaultEncoding is the Java source encoding used when the request has none.
const DefaultEncoding = "UTF-8"

// ObjectPlaceholder is replaced by the domain object name in root class and
// root interface templates.
const ObjectPlaceholder = "{object}"

// Layer is the output location of one generated layer.
type Layer struct {
	// Package is the dotted Java package, e.g. "com.acme.model".
	Package string `yaml:"package,omitempty"`
	// Folder is the source folder relative to the project folder, e.g. "src/main/java".
	Folder string `yaml:"folder"`
}

// PackagePath returns the package as a slash separated path.
func (l Layer) PackagePath() string {
	return strings.ReplaceAll(l.Package, ".", "/")
}

// Dir returns the directory the layer is written to under the project folder.
func (l Layer) Dir(project string) string {
	return filepath.Join(project, l.Folder, filepath.FromSlash(l.PackagePath()))
}

// AccessorStrategy selects how model accessors, equality and string
// rendering are generated. The strategies are mutually exclusive.
type AccessorStrategy uint8

const (
	// AccessorPlain keeps the engine's own accessor generation.
	AccessorPlain AccessorStrategy = iota
	// AccessorLombok generates Lombok annotations instead of accessors.
	AccessorLombok
	// AccessorEqualsHashCodeToString adds equals, hashCode and toString methods.
	AccessorEqualsHashCodeToString
)

var accessorNames = [...]string{
	AccessorPlain:                  "plain",
	AccessorLombok:                 "lombok",
	AccessorEqualsHashCodeToString: "equals-hashcode-tostring",
}

// String implements the fmt.Stringer interface.
func (a AccessorStrategy) String() string {
	if int(a) < len(accessorNames) {
		return accessorNames[a]
	}
	return fmt.Sprintf("AccessorStrategy(%d)", a)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (a AccessorStrategy) MarshalText() ([]byte, error) {
	if int(a) >= len(accessorNames) {
		return nil, fmt.Errorf("gen: invalid accessor strategy %d", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (a *AccessorStrategy) UnmarshalText(text []byte) error {
	s, err := ParseAccessorStrategy(string(text))
	if err != nil {
		return err
	}
	*a = s
	return nil
}

// ParseAccessorStrategy parses the name of an accessor strategy. The empty
// string is the plain strategy.
func ParseAccessorStrategy(name string) (AccessorStrategy, error) {
	if name == "" {
		return AccessorPlain, nil
	}
	for i, n := range accessorNames {
		if strings.EqualFold(name, n) {
			return AccessorStrategy(i), nil
		}
	}
	return 0, mbgen.NewConfigError("Accessors", name, "unknown accessor strategy; use plain, lombok or equals-hashcode-tostring")
}

// AccessorsFor maps the two independent accessor toggles onto one strategy.
// Lombok is evaluated first and wins when both are set.
func AccessorsFor(lombok, equalsHashCodeToString bool) AccessorStrategy {
	switch {
	case lombok:
		return AccessorLombok
	case equalsHashCodeToString:
		return AccessorEqualsHashCodeToString
	default:
		return AccessorPlain
	}
}

// Flags is the closed set of generation toggles. A toggle is a request: it
// is honored only where the dialect supports it.
type Flags struct {
	SchemaPrefix         bool             `yaml:"schema_prefix,omitempty"`
	ActualColumnNames    bool             `yaml:"actual_column_names,omitempty"`
	TableAlias           bool             `yaml:"table_alias,omitempty"`
	OptimisticLockColumn string           `yaml:"optimistic_lock_column,omitempty"`
	LogicDeleteColumn    string           `yaml:"logic_delete_column,omitempty"`
	Comment              bool             `yaml:"comment,omitempty"`
	Accessors            AccessorStrategy `yaml:"accessors"`
	OffsetLimit          bool             `yaml:"offset_limit,omitempty"`
	ForUpdate            bool             `yaml:"for_update,omitempty"`
	JSR310               bool             `yaml:"jsr310,omitempty"`
	CustomDAO            bool             `yaml:"custom_dao,omitempty"`
	UseExample           bool             `yaml:"use_example,omitempty"`
	OverwriteMapping     bool             `yaml:"overwrite_mapping,omitempty"`
}

// DefaultFlags returns the flags used when a request does not set them.
func DefaultFlags() Flags {
	return Flags{CustomDAO: true}
}

// Request is a database agnostic description of one table generation.
// It is owned by the caller and never modified by this package.
type Request struct {
	TableName     string `yaml:"table"`
	ObjectName    string `yaml:"object,omitempty"`
	ProjectFolder string `yaml:"project"`
	Model         Layer  `yaml:"model"`
	Mapper        Layer  `yaml:"mapper"`
	Mapping       Layer  `yaml:"mapping"`
	Encoding      string `yaml:"encoding,omitempty"`
	// ModelRootClass and MapperRootInterface are optional templates that may
	// reference the domain object name through ObjectPlaceholder.
	ModelRootClass      string `yaml:"model_root_class,omitempty"`
	MapperRootInterface string `yaml:"mapper_root_interface,omitempty"`
	Flags               Flags  `yaml:"flags"`
}

// Normalize validates the request and returns a copy with defaults applied.
func (r Request) Normalize() (Request, error) {
	r.TableName = strings.TrimSpace(r.TableName)
	if r.TableName == "" {
		return r, mbgen.NewConfigError("TableName", nil, "table name is required")
	}
	if r.ObjectName == "" {
		r.ObjectName = ObjectNameOf(r.TableName)
	}
	if r.ProjectFolder == "" {
		return r, mbgen.NewConfigError("ProjectFolder", nil, "project folder is required")
	}
	for _, l := range []struct {
		name  string
		layer Layer
		pkg   bool
	}{
		{"Model", r.Model, true},
		{"Mapper", r.Mapper, true},
		{"Mapping", r.Mapping, false},
	} {
		if l.pkg && l.layer.Package == "" {
			return r, mbgen.NewConfigError(l.name+".Package", nil, "package is required")
		}
		if l.layer.Folder == "" {
			return r, mbgen.NewConfigError(l.name+".Folder", nil, "target folder is required")
		}
		if strings.Contains(l.layer.Package, "/") {
			return r, mbgen.NewConfigError(l.name+".Package", l.layer.Package, "package must be dot separated")
		}
	}
	enc, err := CanonicalEncoding(r.Encoding)
	if err != nil {
		return r, err
	}
	r.Encoding = enc
	return r, nil
}

// MappingFile returns the path of the generated mapping descriptor:
// {project}/{folder}/{package as path}/{object}Mapper.xml. The package
// segment is omitted when the mapping package is empty. The request must
// be normalized.
func (r Request) MappingFile() string {
	return filepath.Join(r.Mapping.Dir(r.ProjectFolder), r.ObjectName+"Mapper.xml")
}

// ObjectNameOf derives a domain object name from a table name,
// e.g. "user_info" becomes "UserInfo".
func ObjectNameOf(table string) string {
	return inflect.Camelize(strings.ToLower(table))
}

// javaCharsets maps charset aliases accepted by Java but unknown to the
// IANA registry.
var javaCharsets = map[string]string{
	"utf8":      "UTF-8",
	"utf16":     "UTF-16",
	"latin1":    "ISO-8859-1",
	"iso8859_1": "ISO-8859-1",
	"ascii":     "US-ASCII",
	"cp1252":    "windows-1252",
}

// CanonicalEncoding checks the given encoding against the IANA registry and
// the common Java aliases. A registered name is returned as given, with only
// its case corrected when it spells the preferred name. The empty name is
// the default encoding.
func CanonicalEncoding(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultEncoding, nil
	}
	if alias, ok := javaCharsets[strings.ToLower(name)]; ok {
		return alias, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return "", mbgen.NewConfigError("Encoding", name, "unknown character encoding")
	}
	// Known to the index, but without an implementation.
	if enc == nil {
		return name, nil
	}
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if preferred, err := index.Name(enc); err == nil && strings.EqualFold(preferred, name) {
			return preferred, nil
		}
	}
	return name, nil
}

func expand(template, object string) string {
	return strings.ReplaceAll(template, ObjectPlaceholder, object)
}
