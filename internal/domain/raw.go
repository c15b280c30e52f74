package domain

// RawRecord is one untyped row as read from a source: column name to scalar
// value (string, float64, int64, bool, time.Time or nil).
type RawRecord map[string]interface{}

// RawDataset is the untyped result of a load, before the preprocessor types
// and enriches it. Column order follows the source.
type RawDataset struct {
	Source  string      `json:"source"`
	Columns []string    `json:"columns"`
	Rows    []RawRecord `json:"rows"`
}

// EmptyRaw returns a dataset with no columns and no rows for the given source.
func EmptyRaw(source string) *RawDataset {
	return &RawDataset{Source: source, Columns: []string{}, Rows: []RawRecord{}}
}

func (r *RawDataset) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

func (r *RawDataset) Empty() bool {
	return r.Len() == 0
}

func (r *RawDataset) Has(col string) bool {
	if r == nil {
		return false
	}
	for _, c := range r.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares nothing mutable with r. Row values are
// scalars, so copying each map is enough.
func (r *RawDataset) Clone() *RawDataset {
	if r == nil {
		return nil
	}
	out := &RawDataset{
		Source:  r.Source,
		Columns: make([]string, len(r.Columns)),
		Rows:    make([]RawRecord, len(r.Rows)),
	}
	copy(out.Columns, r.Columns)
	for i, row := range r.Rows {
		cp := make(RawRecord, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}
