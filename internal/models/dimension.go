package models

// Target table names.
const (
	TableState           = "State"
	TableCounty          = "County"
	TablePlace           = "Place"
	TableDesign          = "Design"
	TableMaterial        = "Material"
	TableOwnerAgency     = "OwnerAgency"
	TableConditionRating = "ConditionRating"
	TableStructure       = "Structure"
	TableInspection      = "Inspection"
	TableMetadata        = "Metadata"
)

// DimensionEntry is one row of a lookup table.
type DimensionEntry struct {
	Code string  `json:"code" db:"code"`
	Name *string `json:"name" db:"name"`
}

// Dimension is an ordered, read-only lookup table. Entries keep the order in
// which they were first seen in the source data.
type Dimension struct {
	table   string
	entries []DimensionEntry
	byCode  map[string]int
	byName  map[Key]string
}

// NewDimension indexes entries by code and by name. When several entries share
// a name, the first one owns it.
func NewDimension(table string, entries []DimensionEntry) *Dimension {
	d := &Dimension{
		table:   table,
		entries: make([]DimensionEntry, len(entries)),
		byCode:  make(map[string]int, len(entries)),
		byName:  make(map[Key]string, len(entries)),
	}
	copy(d.entries, entries)

	for i, e := range d.entries {
		if _, ok := d.byCode[e.Code]; !ok {
			d.byCode[e.Code] = i
		}
		key := KeyOf(e.Name)
		if _, ok := d.byName[key]; !ok {
			d.byName[key] = e.Code
		}
	}

	return d
}

// Table returns the target table name.
func (d *Dimension) Table() string {
	return d.table
}

// Len returns the number of entries.
func (d *Dimension) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in insertion order.
func (d *Dimension) Entries() []DimensionEntry {
	out := make([]DimensionEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// CodeFor resolves a name to its code.
func (d *Dimension) CodeFor(name *string) (string, bool) {
	code, ok := d.byName[KeyOf(name)]
	return code, ok
}

// Contains reports whether code is present.
func (d *Dimension) Contains(code string) bool {
	_, ok := d.byCode[code]
	return ok
}

// Dimensions groups the six lookup tables derived from one source scan.
type Dimensions struct {
	State       *Dimension
	County      *Dimension
	Place       *Dimension
	Design      *Dimension
	Material    *Dimension
	OwnerAgency *Dimension
}

// All returns the dimensions in insert order.
func (d Dimensions) All() []*Dimension {
	return []*Dimension{d.State, d.County, d.Place, d.Design, d.Material, d.OwnerAgency}
}

// ConditionRating is the static NBI rating reference row.
type ConditionRating struct {
	Code        int     `json:"code" db:"code"`
	Description string  `json:"description" db:"description"`
	Detail      *string `json:"detail,omitempty" db:"detail"`
}

// ColumnMetadata documents one column of the normalized schema.
type ColumnMetadata struct {
	Table       string  `json:"table" db:"table"`
	Column      string  `json:"column" db:"column"`
	Unit        *string `json:"unit,omitempty" db:"unit"`
	Description string  `json:"description" db:"description"`
}
