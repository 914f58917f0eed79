package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"

	"bridge-platform/internal/models"
)

// Shapefile attribute columns. DBF field names are limited to ten characters.
var structureFields = []shp.Field{
	shp.StringField("NUMBER", 64),
	shp.StringField("STATE", 8),
	shp.StringField("COUNTY", 8),
	shp.StringField("PLACE", 16),
	shp.NumberField("BUILT", 6),
	shp.NumberField("SKEW", 4),
	shp.FloatField("LENGTH", 12, 1),
	shp.FloatField("DECKAREA", 14, 1),
}

// WriteStructurePoints writes one point per structure with known coordinates
// to the shapefile at path (.shp, .shx and .dbf siblings). A path without the
// .shp extension gets one. Structures without latitude or longitude are
// skipped. It returns the number of points written.
func WriteStructurePoints(structures []*models.Structure, path string) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".shp") {
		path += ".shp"
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, fmt.Errorf("failed to create shapefile: %w", err)
	}

	// Close writes the headers, so it has to run before the .dbf is moved.
	written, err := writePoints(w, structures)
	w.Close()
	if err != nil {
		return written, err
	}

	if err := placeAttributeFile(path); err != nil {
		return written, err
	}
	return written, nil
}

func writePoints(w *shp.Writer, structures []*models.Structure) (int, error) {
	if err := w.SetFields(structureFields); err != nil {
		return 0, fmt.Errorf("failed to set shapefile fields: %w", err)
	}

	written := 0
	for _, s := range structures {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}

		row := int(w.Write(&shp.Point{X: *s.Longitude, Y: *s.Latitude}))
		attrs := []interface{}{
			textAttr(s.Number),
			textAttr(s.StateCode),
			textAttr(s.CountyCode),
			textAttr(s.PlaceCode),
			intAttr(s.Built),
			intAttr(s.Skew),
			floatAttr(s.Length),
			floatAttr(s.DeckArea),
		}
		for field, v := range attrs {
			if err := w.WriteAttribute(row, field, v); err != nil {
				return written, fmt.Errorf("failed to write attribute %d of structure %s: %w",
					field, models.KeyOf(s.Number), err)
			}
		}
		written++
	}

	return written, nil
}

// placeAttributeFile moves the attribute table next to the .shp. go-shp
// v0.1.1 names it "<base>dbf" without the dot.
func placeAttributeFile(path string) error {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	misplaced := base + "dbf"
	if _, err := os.Stat(misplaced); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(misplaced, base+".dbf"); err != nil {
		return fmt.Errorf("failed to move shapefile attributes: %w", err)
	}
	return nil
}

// DBF has no null; missing values are written as empty text.
func textAttr(v *string) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func intAttr(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return int(*v)
}

func floatAttr(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
