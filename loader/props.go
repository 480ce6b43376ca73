package loader

import (
	"strconv"
	"strings"

	"github.com/plus3/embark/geom"
	"go.uber.org/zap"
)

// propReader parses typed values out of an object's string properties.
// Malformed values are logged and replaced by the caller's default.
type propReader struct {
	props  map[string]string
	object int
	log    *zap.Logger
}

// flag reports whether name is present and true. An empty value counts as
// true so bare markers work.
func (p propReader) flag(name string) bool {
	v, ok := p.props[name]
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.bad(name, v)
		return false
	}
	return b
}

func (p propReader) float(name string, def float64) float64 {
	v, ok := p.props[name]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.bad(name, v)
		return def
	}
	return f
}

// vec parses "x,y". A single number sets both coordinates.
func (p propReader) vec(name string) geom.Vec2 {
	v := p.props[name]
	parts := strings.Split(v, ",")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		p.bad(name, v)
		return geom.Vec2{}
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		p.bad(name, v)
		return geom.Vec2{}
	}
	return geom.Vec2{X: x, Y: y}
}

func (p propReader) bad(name, value string) {
	p.log.Warn("bad property value",
		zap.Int("object", p.object),
		zap.String("property", name),
		zap.String("value", value))
}
