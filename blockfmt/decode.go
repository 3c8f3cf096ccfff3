package blockfmt

import (
	"io"
	"strconv"
	"strings"

	"github.com/jakecoffman/rigid"
	"github.com/pkg/errors"
)

var (
	ErrSyntax       = errors.New("malformed block")
	ErrUnknownType  = errors.New("unknown block type")
	ErrMissingKey   = errors.New("missing key")
	ErrBadValue     = errors.New("bad value")
	ErrReservedName = errors.New("body name contains a reserved character or surrounding space")
)

// Block is one parsed `Type{key:value;...}` block.
type Block struct {
	Type   string
	Fields map[string]string
	// Line where the block starts, from 1.
	Line int
}

// Scene is the decoded content of a block stream.
type Scene struct {
	Bodies      []rigid.Body
	Constraints []rigid.Constraint
}

// Populate adds the scene's bodies and constraints to world.
func (s *Scene) Populate(world *rigid.World) error {
	for _, body := range s.Bodies {
		if err := world.AddBody(body); err != nil {
			return err
		}
	}
	for _, c := range s.Constraints {
		if err := world.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// Body looks a decoded body up by name.
func (s *Scene) Body(name string) (rigid.Body, bool) {
	for _, body := range s.Bodies {
		if body.Name() == name {
			return body, true
		}
	}
	return nil, false
}

// Parse splits the input into blocks without interpreting them.
func Parse(input string) ([]Block, error) {
	var blocks []Block
	line := 1
	rest := input

	for {
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		line += strings.Count(rest[:len(rest)-len(trimmed)], "\n")
		rest = trimmed
		if rest == "" {
			return blocks, nil
		}

		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return nil, errors.Wrapf(ErrSyntax, "line %d: expected '{'", line)
		}
		closing := strings.IndexByte(rest, '}')
		if closing < open {
			return nil, errors.Wrapf(ErrSyntax, "line %d: expected '}'", line)
		}

		block := Block{
			Type:   strings.TrimSpace(rest[:open]),
			Fields: map[string]string{},
			Line:   line,
		}
		if block.Type == "" {
			return nil, errors.Wrapf(ErrSyntax, "line %d: block without a type", line)
		}

		body := rest[open+1 : closing]
		for _, entry := range strings.Split(body, ";") {
			if strings.TrimSpace(entry) == "" {
				continue
			}
			key, value, ok := strings.Cut(entry, ":")
			if !ok {
				return nil, errors.Wrapf(ErrSyntax, "line %d: entry %q has no ':'", line, strings.TrimSpace(entry))
			}
			block.Fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}

		blocks = append(blocks, block)
		line += strings.Count(rest[:closing+1], "\n")
		rest = rest[closing+1:]
	}
}

// Decode reads a whole block stream. Bodies are built first so constraints can
// refer to bodies declared anywhere in the stream.
func Decode(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading blocks")
	}
	blocks, err := Parse(string(data))
	if err != nil {
		return nil, err
	}

	scene := &Scene{}
	names := map[string]rigid.Body{}
	var constraints []Block

	for _, block := range blocks {
		switch block.Type {
		case TypeCircle, TypePolygon:
			body, err := DecodeBody(block)
			if err != nil {
				return nil, err
			}
			if _, ok := names[body.Name()]; ok {
				return nil, errors.Wrapf(rigid.ErrDuplicateBody, "line %d: body %q", block.Line, body.Name())
			}
			names[body.Name()] = body
			scene.Bodies = append(scene.Bodies, body)
		case TypeSpring, TypeString:
			constraints = append(constraints, block)
		default:
			return nil, errors.Wrapf(ErrUnknownType, "line %d: %q", block.Line, block.Type)
		}
	}

	for _, block := range constraints {
		c, err := DecodeConstraint(block, func(name string) (rigid.Body, bool) {
			body, ok := names[name]
			return body, ok
		})
		if err != nil {
			return nil, err
		}
		scene.Constraints = append(scene.Constraints, c)
	}

	return scene, nil
}

// DecodeBody builds a Circle or Polygon from its block.
func DecodeBody(block Block) (rigid.Body, error) {
	d := decoder{block: block}

	name := d.string(KeyName)
	mass := d.float(KeyMass)
	center := d.vector(KeyCenterPoint)
	velocity := d.vector(KeyVelocity)
	angle := d.float(KeyAngle)
	movable := d.bool(KeyMoveable)
	collidable := true
	if _, ok := block.Fields[KeyCollidable]; ok {
		collidable = d.bool(KeyCollidable)
	}

	opts := []rigid.BodyOption{
		rigid.WithVelocity(velocity),
		rigid.WithAngle(angle),
		rigid.WithCollidable(collidable),
	}
	if !movable {
		opts = append(opts, rigid.WithStatic())
	}

	var body rigid.Body
	var err error
	switch block.Type {
	case TypeCircle:
		radius := d.float(KeyRadius)
		if d.err != nil {
			return nil, d.err
		}
		body, err = rigid.NewCircle(name, mass, center, radius, opts...)
	case TypePolygon:
		verts := d.vertices(KeyVertices)
		if d.err != nil {
			return nil, d.err
		}
		opts = append(opts, rigid.WithPivot(center))
		body, err = rigid.NewPolygon(name, mass, verts, opts...)
	default:
		return nil, errors.Wrapf(ErrUnknownType, "line %d: %q is not a body", block.Line, block.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "line %d", block.Line)
	}
	return body, nil
}

// DecodeConstraint builds a Spring or String, resolving attached bodies
// through lookup.
func DecodeConstraint(block Block, lookup func(name string) (rigid.Body, bool)) (rigid.Constraint, error) {
	d := decoder{block: block}

	nameA, nameB := d.attached(KeyBodiesAttached)
	length := d.float(KeyLength)
	var k float64
	if block.Type == TypeSpring {
		k = d.float(KeyKValue)
	}
	if d.err != nil {
		return nil, d.err
	}

	a, ok := lookup(nameA)
	if !ok {
		return nil, errors.Wrapf(rigid.ErrBodyNotFound, "line %d: %q", block.Line, nameA)
	}
	b, ok := lookup(nameB)
	if !ok {
		return nil, errors.Wrapf(rigid.ErrBodyNotFound, "line %d: %q", block.Line, nameB)
	}

	var c rigid.Constraint
	var err error
	switch block.Type {
	case TypeSpring:
		c, err = rigid.NewSpring(a, b, length, k)
	case TypeString:
		c, err = rigid.NewString(a, b, length)
	default:
		return nil, errors.Wrapf(ErrUnknownType, "line %d: %q is not a constraint", block.Line, block.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "line %d", block.Line)
	}
	return c, nil
}

// decoder reads typed values out of a block and keeps the first error.
type decoder struct {
	block Block
	err   error
}

func (d *decoder) raw(key string) (string, bool) {
	if d.err != nil {
		return "", false
	}
	value, ok := d.block.Fields[key]
	if !ok {
		d.err = errors.Wrapf(ErrMissingKey, "line %d: %s block needs %q", d.block.Line, d.block.Type, key)
	}
	return value, ok
}

func (d *decoder) fail(key, value string) {
	d.err = errors.Wrapf(ErrBadValue, "line %d: %s %q", d.block.Line, key, value)
}

func (d *decoder) string(key string) string {
	value, _ := d.raw(key)
	return value
}

func (d *decoder) float(key string) float64 {
	value, ok := d.raw(key)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		d.fail(key, value)
	}
	return f
}

func (d *decoder) bool(key string) bool {
	value, ok := d.raw(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		d.fail(key, value)
	}
	return b
}

func parseVector(s string) (rigid.Vector, bool) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return rigid.Vector{}, false
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return rigid.Vector{}, false
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return rigid.Vector{}, false
	}
	return rigid.Vector{X: x, Y: y}, true
}

func (d *decoder) vector(key string) rigid.Vector {
	value, ok := d.raw(key)
	if !ok {
		return rigid.Vector{}
	}
	v, ok := parseVector(value)
	if !ok {
		d.fail(key, value)
	}
	return v
}

func (d *decoder) vertices(key string) []rigid.Vector {
	value, ok := d.raw(key)
	if !ok {
		return nil
	}
	parts := strings.Split(value, ",")
	verts := make([]rigid.Vector, 0, len(parts))
	for _, part := range parts {
		v, ok := parseVector(part)
		if !ok {
			d.fail(key, value)
			return nil
		}
		verts = append(verts, v)
	}
	return verts
}

// attached parses "[a][b]".
func (d *decoder) attached(key string) (string, string) {
	value, ok := d.raw(key)
	if !ok {
		return "", ""
	}
	if !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
		d.fail(key, value)
		return "", ""
	}
	a, b, ok := strings.Cut(value[1:len(value)-1], "][")
	if !ok || a == "" || b == "" {
		d.fail(key, value)
		return "", ""
	}
	return a, b
}
