// Package fixture loads type universes and expected query answers from
// YAML. Loading runs in two passes: every declaration name is registered
// first, then type expressions are resolved, so declarations may refer to
// each other in any order.
package fixture

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/query"
	"github.com/orizon-lang/conceptcheck/internal/typeexpr"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// SchemaConstraint is the range of fixture schema versions this package
// reads.
const SchemaConstraint = "^1"

// Fixture is the decoded document.
type Fixture struct {
	Schema          string           `yaml:"schema"`
	DataModel       string           `yaml:"data_model,omitempty"`
	Types           []TypeDecl       `yaml:"types,omitempty"`
	Functions       []FunctionDecl   `yaml:"functions,omitempty"`
	Aliases         []AliasDecl      `yaml:"aliases,omitempty"`
	CommonTypes     []CommonTypeDecl `yaml:"common_types,omitempty"`
	DifferenceTypes []DifferenceDecl `yaml:"difference_types,omitempty"`
	Queries         []Expectation    `yaml:"queries,omitempty"`

	path string
}

// TypeDecl declares a class, union or enum.
type TypeDecl struct {
	Name        string            `yaml:"name"`
	Kind        string            `yaml:"kind,omitempty"` // class (default), union, enum
	Bases       []string          `yaml:"bases,omitempty"`
	Nested      map[string]string `yaml:"nested,omitempty"`
	Methods     []MethodDecl      `yaml:"methods,omitempty"`
	Ctors       []CtorDecl        `yaml:"ctors,omitempty"`
	Conversions []ConversionDecl  `yaml:"conversions,omitempty"`
	Scope       []FunctionDecl    `yaml:"scope,omitempty"`

	// Deleted removes special members; Throwing clears their nothrow bit.
	Deleted  []string `yaml:"deleted,omitempty"`
	Throwing []string `yaml:"throwing,omitempty"`
	Flags    []string `yaml:"flags,omitempty"`

	Underlying string `yaml:"underlying,omitempty"`
	Scoped     bool   `yaml:"scoped,omitempty"`
}

type MethodDecl struct {
	Name     string   `yaml:"name"`
	Params   []string `yaml:"params,omitempty"`
	Result   string   `yaml:"result,omitempty"` // empty means void
	Const    bool     `yaml:"const,omitempty"`
	Ref      string   `yaml:"ref,omitempty"` // "", "&" or "&&"
	Static   bool     `yaml:"static,omitempty"`
	Noexcept bool     `yaml:"noexcept,omitempty"`
}

type CtorDecl struct {
	Params   []string `yaml:"params,omitempty"`
	Explicit bool     `yaml:"explicit,omitempty"`
	Noexcept bool     `yaml:"noexcept,omitempty"`
}

type ConversionDecl struct {
	To       string `yaml:"to"`
	Explicit bool   `yaml:"explicit,omitempty"`
}

type FunctionDecl struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
	Result string   `yaml:"result,omitempty"`
}

type AliasDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// CommonTypeDecl specializes common_type for a pair of types.
type CommonTypeDecl struct {
	Types  []string `yaml:"types,flow"`
	Result string   `yaml:"result"`
}

// DifferenceDecl overrides the difference type of a type.
type DifferenceDecl struct {
	Type       string `yaml:"type"`
	Difference string `yaml:"difference"`
}

// Expectation is a query with its expected rendered answer.
type Expectation struct {
	query.Query `yaml:",inline"`
	Expect      string `yaml:"expect" json:"expect"`
}

var specialNames = map[string]types.Specials{
	"default_ctor": types.SpecialDefaultCtor,
	"copy_ctor":    types.SpecialCopyCtor,
	"move_ctor":    types.SpecialMoveCtor,
	"copy_assign":  types.SpecialCopyAssign,
	"move_assign":  types.SpecialMoveAssign,
	"destructor":   types.SpecialDestructor,
}

var flagNames = map[string]types.ClassFlags{
	"trivial":            types.FlagTrivial,
	"standard_layout":    types.FlagStandardLayout,
	"empty":              types.FlagEmpty,
	"polymorphic":        types.FlagPolymorphic,
	"abstract":           types.FlagAbstract,
	"virtual_destructor": types.FlagVirtualDestructor,
}

// Load reads and decodes the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	return f, nil
}

// Parse decodes a fixture document and checks its schema version.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewStandardError(errors.CategoryFixture, errors.CodeInvalidDecl,
			"malformed fixture", nil).Wrap(err)
	}
	if err := checkSchema(f.Schema); err != nil {
		return nil, err
	}
	return &f, nil
}

func checkSchema(version string) error {
	c, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil || !c.Check(v) {
		return errors.SchemaVersion(version, SchemaConstraint)
	}
	return nil
}

// Path returns the file the fixture was loaded from, if any.
func (f *Fixture) Path() string { return f.path }

// Model returns the data model the fixture names, or fallback when it
// names none.
func (f *Fixture) Model(fallback types.DataModel) (types.DataModel, error) {
	if f.DataModel == "" {
		return fallback, nil
	}
	m, err := types.ModelByName(f.DataModel)
	if err != nil {
		return types.DataModel{}, errors.NewStandardError(errors.CategoryFixture, errors.CodeInvalidDecl,
			"data_model", nil).Wrap(err)
	}
	return m, nil
}

// Build constructs the universe the fixture describes over model.
func (f *Fixture) Build(model types.DataModel) (*types.Universe, error) {
	u := types.NewUniverse(model)
	b := &builder{u: u, decls: make(map[string]*types.Decl, len(f.Types))}

	for _, td := range f.Types {
		if err := b.declare(td); err != nil {
			return nil, err
		}
	}
	for _, a := range f.Aliases {
		t, err := b.parse(a.Name, a.Type)
		if err != nil {
			return nil, err
		}
		if err := u.Alias(a.Name, t); err != nil {
			return nil, errors.InvalidDecl(a.Name, err.Error())
		}
	}
	for _, td := range f.Types {
		if err := b.define(td); err != nil {
			return nil, err
		}
	}
	for _, fd := range f.Functions {
		fn, err := b.function(fd.Name, fd)
		if err != nil {
			return nil, err
		}
		u.AddFunction(fn)
	}
	for _, c := range f.CommonTypes {
		if len(c.Types) != 2 {
			return nil, errors.InvalidDecl("common_type", "needs exactly two types")
		}
		where := "common_type<" + c.Types[0] + ", " + c.Types[1] + ">"
		ts, err := b.parseAll(where, []string{c.Types[0], c.Types[1], c.Result})
		if err != nil {
			return nil, err
		}
		u.SpecializeCommonType(ts[0], ts[1], ts[2])
	}
	for _, d := range f.DifferenceTypes {
		ts, err := b.parseAll("difference_type<"+d.Type+">", []string{d.Type, d.Difference})
		if err != nil {
			return nil, err
		}
		u.OverrideDifferenceType(ts[0], ts[1])
	}
	return u, nil
}

type builder struct {
	u     *types.Universe
	decls map[string]*types.Decl
}

func (b *builder) declare(td TypeDecl) error {
	var d *types.Decl
	switch strings.ToLower(td.Kind) {
	case "", "class", "struct":
		d = types.NewClass(td.Name)
	case "union":
		d = types.NewUnion(td.Name)
	case "enum":
		d = types.NewEnum(td.Name, nil, td.Scoped)
	default:
		return errors.InvalidDecl(td.Name, fmt.Sprintf("unknown kind %q", td.Kind))
	}
	if err := b.u.Declare(d); err != nil {
		return errors.InvalidDecl(td.Name, err.Error())
	}
	b.decls[td.Name] = d
	return nil
}

func (b *builder) parse(where, src string) (*types.Type, error) {
	t, err := typeexpr.Parse(b.u, src)
	if err != nil {
		return nil, errors.InvalidDecl(where, "type "+src).Wrap(err)
	}
	return t, nil
}

func (b *builder) parseAll(where string, srcs []string) ([]*types.Type, error) {
	out := make([]*types.Type, len(srcs))
	for i, s := range srcs {
		t, err := b.parse(where, s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// result parses an optional result type; empty means void.
func (b *builder) result(where, src string) (*types.Type, error) {
	if src == "" {
		return types.Void(), nil
	}
	return b.parse(where, src)
}

func (b *builder) function(where string, fd FunctionDecl) (*types.Function, error) {
	params, err := b.parseAll(where, fd.Params)
	if err != nil {
		return nil, err
	}
	res, err := b.result(where, fd.Result)
	if err != nil {
		return nil, err
	}
	return &types.Function{Name: fd.Name, Params: params, Result: res}, nil
}

func (b *builder) define(td TypeDecl) error {
	d := b.decls[td.Name]
	where := td.Name

	if d.Kind == types.DeclEnum {
		if td.Underlying != "" {
			t, err := b.parse(where, td.Underlying)
			if err != nil {
				return err
			}
			if !t.Kind.IsIntegral() {
				return errors.InvalidDecl(where, "enum underlying type must be integral")
			}
			d.Underlying = t
		}
		return nil
	}

	for _, name := range td.Bases {
		base, ok := b.u.Decl(name)
		if !ok || base.Kind != types.DeclClass {
			return errors.InvalidDecl(where, fmt.Sprintf("base %q is not a declared class", name))
		}
		d.Bases = append(d.Bases, base)
	}
	for slot, src := range td.Nested {
		t, err := b.parse(where+"::"+slot, src)
		if err != nil {
			return err
		}
		d.SetNested(slot, t)
	}
	for _, md := range td.Methods {
		m, err := b.method(where+"::"+md.Name, md)
		if err != nil {
			return err
		}
		d.AddMethod(m)
	}
	for _, cd := range td.Ctors {
		params, err := b.parseAll(where+" constructor", cd.Params)
		if err != nil {
			return err
		}
		d.Ctors = append(d.Ctors, &types.Ctor{Params: params, Explicit: cd.Explicit, Noexcept: cd.Noexcept})
	}
	for _, cd := range td.Conversions {
		to, err := b.parse(where+" conversion", cd.To)
		if err != nil {
			return err
		}
		d.Conversions = append(d.Conversions, &types.Conversion{To: to, Explicit: cd.Explicit})
	}
	for _, fd := range td.Scope {
		fn, err := b.function(where+" scope "+fd.Name, fd)
		if err != nil {
			return err
		}
		d.AddScope(fn)
	}

	deleted, err := specials(where, td.Deleted)
	if err != nil {
		return err
	}
	throwing, err := specials(where, td.Throwing)
	if err != nil {
		return err
	}
	d.Specials &^= deleted
	d.Nothrow &^= deleted | throwing
	for _, name := range td.Flags {
		f, ok := flagNames[strings.ToLower(name)]
		if !ok {
			return errors.InvalidDecl(where, fmt.Sprintf("unknown flag %q", name))
		}
		d.Flags |= f
	}
	return nil
}

func specials(where string, names []string) (types.Specials, error) {
	var s types.Specials
	for _, name := range names {
		m, ok := specialNames[strings.ToLower(name)]
		if !ok {
			return 0, errors.InvalidDecl(where, fmt.Sprintf("unknown special member %q", name))
		}
		s |= m
	}
	return s, nil
}

func (b *builder) method(where string, md MethodDecl) (*types.Method, error) {
	params, err := b.parseAll(where, md.Params)
	if err != nil {
		return nil, err
	}
	res, err := b.result(where, md.Result)
	if err != nil {
		return nil, err
	}
	m := &types.Method{
		Name:     md.Name,
		Params:   params,
		Result:   res,
		Const:    md.Const,
		Static:   md.Static,
		Noexcept: md.Noexcept,
	}
	switch md.Ref {
	case "":
	case "&":
		m.RefQual = types.RefLValue
	case "&&":
		m.RefQual = types.RefRValue
	default:
		return nil, errors.InvalidDecl(where, fmt.Sprintf("unknown ref qualifier %q", md.Ref))
	}
	return m, nil
}
