// Package blockfmt reads and writes bodies and constraints as text blocks of
// the form
//
//	Circle{Name:ball;Mass:1;CenterPoint:10 10;Velocity:0 0;Angle:0;Is Moveable:true;Is Collidable:true;Radius:5;}
//
// one block per body or constraint. Constraints name their bodies in
// BodiesAttached, so a scene is decoded as a whole.
package blockfmt

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jakecoffman/rigid"
	"github.com/pkg/errors"
)

// Block types.
const (
	TypeCircle  = "Circle"
	TypePolygon = "Polygon"
	TypeSpring  = "Spring"
	TypeString  = "String"
)

// Keys.
const (
	KeyName           = "Name"
	KeyMass           = "Mass"
	KeyCenterPoint    = "CenterPoint"
	KeyVelocity       = "Velocity"
	KeyAngle          = "Angle"
	KeyMoveable       = "Is Moveable"
	KeyCollidable     = "Is Collidable"
	KeyRadius         = "Radius"
	KeyVertices       = "Vertices"
	KeyBodiesAttached = "BodiesAttached"
	KeyLength         = "Length"
	KeyKValue         = "KValue"
)

const reserved = "{};[]"

type field struct {
	key, value string
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatVector(v rigid.Vector) string {
	return formatFloat(v.X) + " " + formatFloat(v.Y)
}

func writeBlock(sb *strings.Builder, typ string, fields []field) {
	sb.WriteString(typ)
	sb.WriteByte('{')
	for _, f := range fields {
		sb.WriteString(f.key)
		sb.WriteByte(':')
		sb.WriteString(f.value)
		sb.WriteByte(';')
	}
	sb.WriteByte('}')
}

func checkName(name string) error {
	if strings.ContainsAny(name, reserved) || strings.TrimSpace(name) != name {
		return errors.Wrapf(ErrReservedName, "%q", name)
	}
	return nil
}

// EncodeBody writes a single body block.
func EncodeBody(body rigid.Body) (string, error) {
	if body == nil {
		return "", rigid.ErrNilBody
	}
	if err := checkName(body.Name()); err != nil {
		return "", err
	}

	fields := []field{
		{KeyName, body.Name()},
		{KeyMass, formatFloat(body.Mass())},
		{KeyCenterPoint, formatVector(body.Center())},
		{KeyVelocity, formatVector(body.Velocity())},
		{KeyAngle, formatFloat(body.Angle())},
		{KeyMoveable, strconv.FormatBool(body.Movable())},
		{KeyCollidable, strconv.FormatBool(body.Collidable())},
	}

	var typ string
	switch body := body.(type) {
	case *rigid.Circle:
		typ = TypeCircle
		fields = append(fields, field{KeyRadius, formatFloat(body.Radius())})
	case *rigid.Polygon:
		typ = TypePolygon
		verts := body.Vertices()
		parts := make([]string, len(verts))
		for i, v := range verts {
			parts[i] = formatVector(v)
		}
		fields = append(fields, field{KeyVertices, strings.Join(parts, ",")})
	default:
		panic(errors.Errorf("blockfmt: unknown body %T", body))
	}

	var sb strings.Builder
	writeBlock(&sb, typ, fields)
	return sb.String(), nil
}

// EncodeConstraint writes a single constraint block.
func EncodeConstraint(c rigid.Constraint) (string, error) {
	if c == nil {
		return "", rigid.ErrNilConstraint
	}
	a, b := c.Bodies()
	for _, body := range [2]rigid.Body{a, b} {
		if err := checkName(body.Name()); err != nil {
			return "", err
		}
	}

	fields := []field{
		{KeyBodiesAttached, "[" + a.Name() + "][" + b.Name() + "]"},
		{KeyLength, formatFloat(c.Length())},
	}

	var typ string
	switch c := c.(type) {
	case *rigid.Spring:
		typ = TypeSpring
		fields = append(fields, field{KeyKValue, formatFloat(c.KValue())})
	case *rigid.String:
		typ = TypeString
	default:
		panic(errors.Errorf("blockfmt: unknown constraint %T", c))
	}

	var sb strings.Builder
	writeBlock(&sb, typ, fields)
	return sb.String(), nil
}

// Encode writes every body of the world followed by every constraint, one
// block per line.
func Encode(w io.Writer, world *rigid.World) error {
	bw := bufio.NewWriter(w)

	for _, body := range world.Bodies() {
		block, err := EncodeBody(body)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(block + "\n"); err != nil {
			return errors.Wrap(err, "writing body")
		}
	}
	for _, c := range world.Constraints() {
		block, err := EncodeConstraint(c)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(block + "\n"); err != nil {
			return errors.Wrap(err, "writing constraint")
		}
	}

	return errors.Wrap(bw.Flush(), "flushing blocks")
}
