// Package tmx reads Tiled TMX maps and TSX tilesets: orthogonal maps with
// CSV or XML encoded tile layers, object groups, per-tile collision shapes
// and custom properties.
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported layer encoding")
	ErrLayerSize           = errors.New("layer data does not match layer size")
)

// GID is a global tile id with the flip flags in its top three bits.
type GID uint32

const (
	flippedH GID = 1 << 31
	flippedV GID = 1 << 30
	flippedD GID = 1 << 29

	flagMask = flippedH | flippedV | flippedD
)

// ID strips the flip flags. Zero means no tile.
func (g GID) ID() uint32 { return uint32(g &^ flagMask) }

func (g GID) FlippedH() bool { return g&flippedH != 0 }
func (g GID) FlippedV() bool { return g&flippedV != 0 }
func (g GID) FlippedD() bool { return g&flippedD != 0 }

type Map struct {
	Orientation  string        `xml:"orientation,attr"`
	Width        int           `xml:"width,attr"`
	Height       int           `xml:"height,attr"`
	TileWidth    int           `xml:"tilewidth,attr"`
	TileHeight   int           `xml:"tileheight,attr"`
	Properties   Properties    `xml:"properties>property"`
	Tilesets     []*Tileset    `xml:"tileset"`
	Layers       []*Layer      `xml:"layer"`
	ObjectGroups []ObjectGroup `xml:"objectgroup"`
}

// PixelSize is the map extent in pixels.
func (m *Map) PixelSize() (int, int) {
	return m.Width * m.TileWidth, m.Height * m.TileHeight
}

// TilesetFor returns the tileset that owns gid and the tile's local id
// within it.
func (m *Map) TilesetFor(gid GID) (*Tileset, int, bool) {
	id := int(gid.ID())
	if id == 0 {
		return nil, 0, false
	}
	var owner *Tileset
	for _, ts := range m.Tilesets {
		if ts.FirstGID <= id && (owner == nil || ts.FirstGID > owner.FirstGID) {
			owner = ts
		}
	}
	if owner == nil {
		return nil, 0, false
	}
	return owner, id - owner.FirstGID, true
}

type Tileset struct {
	FirstGID   int        `xml:"firstgid,attr"`
	Source     string     `xml:"source,attr"`
	Name       string     `xml:"name,attr"`
	TileWidth  int        `xml:"tilewidth,attr"`
	TileHeight int        `xml:"tileheight,attr"`
	Spacing    int        `xml:"spacing,attr"`
	Margin     int        `xml:"margin,attr"`
	TileCount  int        `xml:"tilecount,attr"`
	Columns    int        `xml:"columns,attr"`
	Properties Properties `xml:"properties>property"`
	Image      Image      `xml:"image"`
	Tiles      []Tile     `xml:"tile"`
}

// Tile returns the per-tile data authored for a local id.
func (ts *Tileset) Tile(id int) (*Tile, bool) {
	for i := range ts.Tiles {
		if ts.Tiles[i].ID == id {
			return &ts.Tiles[i], true
		}
	}
	return nil, false
}

// Image is a tileset's source image. After Load, Source is a path joined
// onto the directory of the file that referenced it.
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type Tile struct {
	ID          int          `xml:"id,attr"`
	Properties  Properties   `xml:"properties>property"`
	ObjectGroup *ObjectGroup `xml:"objectgroup"`
}

type Layer struct {
	ID         int        `xml:"id,attr"`
	Name       string     `xml:"name,attr"`
	Width      int        `xml:"width,attr"`
	Height     int        `xml:"height,attr"`
	Visible    *int       `xml:"visible,attr"`
	Properties Properties `xml:"properties>property"`
	Data       Data       `xml:"data"`

	// GIDs holds Width*Height tiles in row-major order once decoded.
	GIDs []GID `xml:"-"`
}

// Hidden reports whether the layer was saved invisible.
func (l *Layer) Hidden() bool {
	return l.Visible != nil && *l.Visible == 0
}

// At returns the tile at column x, row y.
func (l *Layer) At(x, y int) GID {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0
	}
	return l.GIDs[y*l.Width+x]
}

type Data struct {
	Encoding    string     `xml:"encoding,attr"`
	Compression string     `xml:"compression,attr"`
	Text        string     `xml:",chardata"`
	Tiles       []DataTile `xml:"tile"`
}

type DataTile struct {
	GID GID `xml:"gid,attr"`
}

type ObjectGroup struct {
	ID         int        `xml:"id,attr"`
	Name       string     `xml:"name,attr"`
	Properties Properties `xml:"properties>property"`
	Objects    []Object   `xml:"object"`
}

type Object struct {
	ID         int        `xml:"id,attr"`
	Name       string     `xml:"name,attr"`
	Type       string     `xml:"type,attr"`
	Class      string     `xml:"class,attr"`
	X          float64    `xml:"x,attr"`
	Y          float64    `xml:"y,attr"`
	Width      float64    `xml:"width,attr"`
	Height     float64    `xml:"height,attr"`
	GID        GID        `xml:"gid,attr"`
	Properties Properties `xml:"properties>property"`
}

// Kind returns the object's class, falling back to the pre-1.9 type
// attribute.
func (o *Object) Kind() string {
	if o.Class != "" {
		return o.Class
	}
	return o.Type
}

type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

// String returns the value, which multi-line properties store as text.
func (p Property) String() string {
	if p.Value == "" {
		return strings.TrimSpace(p.Text)
	}
	return p.Value
}

type Properties []Property

// Get returns the named property's value.
func (ps Properties) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.String(), true
		}
	}
	return "", false
}

// Load reads a TMX file and any external tilesets it references.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode map %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, ts := range m.Tilesets {
		if ts.Source == "" {
			ts.Image.Source = joinPath(dir, ts.Image.Source)
			continue
		}
		external, err := LoadTileset(joinPath(dir, ts.Source))
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", path, err)
		}
		external.FirstGID = ts.FirstGID
		external.Source = ts.Source
		m.Tilesets[i] = external
	}
	return m, nil
}

// LoadTileset reads a TSX file.
func LoadTileset(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tileset %s: %w", path, err)
	}
	var ts Tileset
	if err := xml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("decode tileset %s: %w", path, err)
	}
	ts.Image.Source = joinPath(filepath.Dir(path), ts.Image.Source)
	return &ts, nil
}

// Decode parses a TMX document and decodes its tile layers. External
// tilesets are left unresolved.
func Decode(r io.Reader) (*Map, error) {
	var m Map
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	for _, l := range m.Layers {
		if err := l.decode(); err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name, err)
		}
	}
	return &m, nil
}

func (l *Layer) decode() error {
	want := l.Width * l.Height
	switch l.Data.Encoding {
	case "csv":
		if l.Data.Compression != "" {
			return fmt.Errorf("%w: csv with %s compression", ErrUnsupportedEncoding, l.Data.Compression)
		}
		fields := strings.FieldsFunc(l.Data.Text, func(r rune) bool {
			return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
		})
		l.GIDs = make([]GID, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return fmt.Errorf("tile %d: %w", len(l.GIDs), err)
			}
			l.GIDs = append(l.GIDs, GID(v))
		}
	case "":
		l.GIDs = make([]GID, len(l.Data.Tiles))
		for i, t := range l.Data.Tiles {
			l.GIDs[i] = t.GID
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, l.Data.Encoding)
	}
	if len(l.GIDs) != want {
		return fmt.Errorf("%w: got %d tiles, want %dx%d", ErrLayerSize, len(l.GIDs), l.Width, l.Height)
	}
	return nil
}

func joinPath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
