package annotation

import "slices"

// rawBucket holds unannotated rows with their annotation state in lockstep.
type rawBucket struct {
	rows   []Row
	states []*rowState
}

func (b *rawBucket) size() int {
	return len(b.rows)
}

func (b *rawBucket) push(r Row) {
	b.rows = append(b.rows, r)
	b.states = append(b.states, newRowState())
}

// remove deletes the row at i, shifting later rows and their state down by
// one position in a single step.
func (b *rawBucket) remove(i int) Row {
	r := b.rows[i]
	b.rows = slices.Delete(b.rows, i, i+1)
	b.states = slices.Delete(b.states, i, i+1)
	return r
}

func (b *rawBucket) reset() {
	b.rows = nil
	b.states = nil
}

// outcomes holds the qualified and partial buckets.
type outcomes struct {
	qualified []AnnotatedRow
	partial   []AnnotatedRow
}

// AnnotatedRow is a row flattened with one category's qualification.
type AnnotatedRow struct {
	RowID    uint64 `json:"row_id"`
	Category string `json:"category"`
	Fields   Fields `json:"fields"`
}

func (o *outcomes) bucket(name BucketName) *[]AnnotatedRow {
	if name == Qualified {
		return &o.qualified
	}
	return &o.partial
}

// upsert removes any entry for the same (row, category) from both outcome
// buckets before appending a to the chosen one.
func (o *outcomes) upsert(name BucketName, a AnnotatedRow) {
	match := func(e AnnotatedRow) bool {
		return e.RowID == a.RowID && e.Category == a.Category
	}
	o.qualified = slices.DeleteFunc(o.qualified, match)
	o.partial = slices.DeleteFunc(o.partial, match)
	b := o.bucket(name)
	*b = append(*b, a)
}

func (o *outcomes) all() []AnnotatedRow {
	out := make([]AnnotatedRow, 0, len(o.qualified)+len(o.partial))
	out = append(out, o.qualified...)
	return append(out, o.partial...)
}
