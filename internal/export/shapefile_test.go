package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"

	"bridge-platform/internal/models"
)

func TestWriteStructurePoints(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	built := int64(1962)

	structures := []*models.Structure{
		{Number: str("100"), StateCode: str("48"), Latitude: num(32.7555), Longitude: num(-97.3308), Built: &built},
		{Number: str("200"), StateCode: str("48")},
		{Number: str("300"), Latitude: num(30.2672), Longitude: num(-97.7431), Length: num(120.5)},
	}

	path := filepath.Join(t.TempDir(), "structures.shp")
	written, err := WriteStructurePoints(structures, path)
	if err != nil {
		t.Fatalf("WriteStructurePoints() error = %v", err)
	}
	if written != 2 {
		t.Fatalf("written = %d, want 2 (structure without coordinates skipped)", written)
	}

	dir := filepath.Dir(path)
	for _, name := range []string{"structures.shp", "structures.shx", "structures.dbf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "structuresdbf")); !os.IsNotExist(err) {
		t.Errorf("attribute table left at structuresdbf (stat error = %v)", err)
	}

	r, err := shp.Open(path)
	if err != nil {
		t.Fatalf("shp.Open() error = %v", err)
	}
	defer r.Close()

	if fields := r.Fields(); len(fields) != len(structureFields) {
		t.Fatalf("read %d attribute fields, want %d", len(fields), len(structureFields))
	}

	type point struct {
		number, built string
		x, y          float64
	}
	var got []point
	for r.Next() {
		n, shape := r.Shape()
		p, ok := shape.(*shp.Point)
		if !ok {
			t.Fatalf("shape %d is %T, want *shp.Point", n, shape)
		}
		got = append(got, point{
			number: strings.Trim(r.ReadAttribute(n, 0), " \x00"),
			built:  strings.Trim(r.ReadAttribute(n, 4), " \x00"),
			x:      p.X,
			y:      p.Y,
		})
	}

	if len(got) != 2 {
		t.Fatalf("read %d points, want 2", len(got))
	}
	if got[0].number != "100" || got[0].built != "1962" || got[0].x != -97.3308 || got[0].y != 32.7555 {
		t.Errorf("first point = %+v", got[0])
	}
	if got[1].number != "300" {
		t.Errorf("second point number = %q, want 300", got[1].number)
	}
}

func TestWriteStructurePoints_AddsExtension(t *testing.T) {
	lat, lon := 32.7555, -97.3308
	number := "100"
	dir := t.TempDir()

	written, err := WriteStructurePoints([]*models.Structure{
		{Number: &number, Latitude: &lat, Longitude: &lon},
	}, filepath.Join(dir, "out", "points"))
	if err != nil {
		t.Fatalf("WriteStructurePoints() error = %v", err)
	}
	if written != 1 {
		t.Errorf("written = %d, want 1", written)
	}

	for _, name := range []string{"points.shp", "points.shx", "points.dbf"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestWriteStructurePoints_NoCoordinates(t *testing.T) {
	number := "200"
	path := filepath.Join(t.TempDir(), "empty.shp")

	written, err := WriteStructurePoints([]*models.Structure{{Number: &number}}, path)
	if err != nil {
		t.Fatalf("WriteStructurePoints() error = %v", err)
	}
	if written != 0 {
		t.Errorf("written = %d, want 0", written)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "empty.dbf")); err != nil {
		t.Errorf("empty.dbf missing: %v", err)
	}
}
