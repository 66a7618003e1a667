package annotation

import "fmt"

// Workspace is the per-session annotation state: the five buckets, the
// preview pointers, and each raw row's annotation state.
type Workspace struct {
	bank     Bank
	observer Observer

	uploaded bool
	filename string
	nextID   uint64

	raw      map[BucketName]*rawBucket
	outcomes outcomes

	preview   BucketName
	rowPtr    int
	bucketPtr int
	notice    string
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithObserver registers an Observer for outcome and disposition events.
func WithObserver(o Observer) Option {
	return func(w *Workspace) {
		if o != nil {
			w.observer = o
		}
	}
}

// New creates an empty Workspace backed by the given option bank.
func New(bank Bank, opts ...Option) *Workspace {
	w := &Workspace{
		bank:     bank,
		observer: nopObserver{},
		nextID:   1,
		raw: map[BucketName]*rawBucket{
			Active:      {},
			ToBeDecided: {},
			Deleted:     {},
		},
		preview: Active,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load replaces the active set with freshly ingested rows. The outcome,
// to-be-decided, and deleted buckets carry over from earlier files.
func (w *Workspace) Load(filename string, records []Fields) error {
	if w.uploaded {
		return ErrAlreadyUploaded
	}
	if len(records) == 0 {
		return ErrEmptyUpload
	}

	active := w.raw[Active]
	active.reset()
	for _, fields := range records {
		active.push(Row{ID: w.nextID, Fields: fields.Clone()})
		w.nextID++
	}

	w.uploaded = true
	w.filename = filename
	w.preview = Active
	w.rowPtr = 0
	w.bucketPtr = 0
	w.notice = ""
	return nil
}

// Uploaded reports whether a file is loaded.
func (w *Workspace) Uploaded() bool {
	return w.uploaded
}

// Filename returns the name of the loaded file.
func (w *Workspace) Filename() string {
	return w.filename
}

// Rows returns a copy of the rows in a raw bucket.
func (w *Workspace) Rows(name BucketName) ([]Row, error) {
	b, ok := w.raw[name]
	if !ok {
		return nil, ErrInvalidBucket
	}
	out := make([]Row, b.size())
	for i, r := range b.rows {
		out[i] = r.clone()
	}
	return out, nil
}

// Outcomes returns a copy of an outcome bucket.
func (w *Workspace) Outcomes(name BucketName) ([]AnnotatedRow, error) {
	if name != Qualified && name != Partial {
		return nil, ErrInvalidBucket
	}
	src := *w.outcomes.bucket(name)
	out := make([]AnnotatedRow, len(src))
	for i, a := range src {
		out[i] = AnnotatedRow{RowID: a.RowID, Category: a.Category, Fields: a.Fields.Clone()}
	}
	return out, nil
}

// ExportRows returns the qualified entries followed by the partial entries.
func (w *Workspace) ExportRows() []Fields {
	all := w.outcomes.all()
	out := make([]Fields, len(all))
	for i, a := range all {
		out[i] = a.Fields.Clone()
	}
	return out
}

// Count returns the number of entries in a bucket.
func (w *Workspace) Count(name BucketName) int {
	if b, ok := w.raw[name]; ok {
		return b.size()
	}
	switch name {
	case Qualified:
		return len(w.outcomes.qualified)
	case Partial:
		return len(w.outcomes.partial)
	}
	return 0
}

// SelectPreview switches the row source to a raw bucket. Active returns to
// the uploaded set.
func (w *Workspace) SelectPreview(name BucketName) error {
	if !name.Raw() {
		return ErrInvalidBucket
	}
	w.preview = name
	w.bucketPtr = 0
	w.notice = ""
	if b, i, ok := w.current(); ok {
		b.states[i].reenter()
	}
	return nil
}

// Navigate moves the preview pointer by delta within a previewed bucket,
// clamping at both ends.
func (w *Workspace) Navigate(delta int) error {
	if w.preview == Active {
		return ErrNotPreviewing
	}
	b, i, ok := w.current()
	if !ok {
		return ErrNoCurrentRow
	}
	next := min(max(i+delta, 0), b.size()-1)
	w.notice = ""
	if next != i {
		w.bucketPtr = next
		b.states[next].reenter()
	}
	return nil
}

// Advance disposes of the current row and moves to the next one.
//
// ConsumeAndNext requires confirmed categories and persists the current
// category's draft, if any, through the outcome classifier. SendToBeDecided
// moves the row to the to-be-decided bucket. Delete moves an active row to
// the deleted bucket; deleting while previewing a bucket discards the row.
func (w *Workspace) Advance(d Disposition) error {
	if _, err := ParseDisposition(string(d)); err != nil {
		return err
	}
	b, i, ok := w.current()
	if !ok {
		return ErrNoCurrentRow
	}
	st := b.states[i]

	if d == ConsumeAndNext {
		if !st.confirmed {
			return ErrNotConfirmed
		}
		if st.walking() {
			if q, ok := st.qualifications[st.current()]; ok {
				w.record(b.rows[i], st, q)
			}
		}
	}

	source := w.preview
	row := b.remove(i)

	switch {
	case d == SendToBeDecided:
		w.raw[ToBeDecided].push(row)
	case d == Delete && source == Active:
		w.raw[Deleted].push(row)
	}
	w.observer.Disposed(d, source)

	w.settle(source, i)
	return nil
}

// settle repositions the pointers after a removal at position i of source.
func (w *Workspace) settle(source BucketName, i int) {
	n := w.raw[source].size()

	if source == Active {
		w.notice = ""
		if n == 0 {
			w.uploaded = false
			w.rowPtr = 0
			w.bucketPtr = 0
			return
		}
		w.rowPtr = min(i, n-1)
		w.raw[Active].states[w.rowPtr].reenter()
		return
	}

	if n == 0 {
		w.preview = Active
		w.bucketPtr = 0
		w.notice = fmt.Sprintf("No more records in the selected preview bucket ('%s').", source)
		if b, j, ok := w.current(); ok {
			b.states[j].reenter()
		}
		return
	}

	w.notice = ""
	w.bucketPtr = min(i, n-1)
	w.raw[source].states[w.bucketPtr].reenter()
}

// current returns the bucket and position of the row being annotated.
func (w *Workspace) current() (*rawBucket, int, bool) {
	if !w.uploaded {
		return nil, 0, false
	}
	b := w.raw[w.preview]
	i := w.rowPtr
	if w.preview != Active {
		i = w.bucketPtr
	}
	if i < 0 || i >= b.size() {
		return nil, 0, false
	}
	return b, i, true
}

func (w *Workspace) currentState() (*rawBucket, int, *rowState, error) {
	b, i, ok := w.current()
	if !ok {
		return nil, 0, nil, ErrNoCurrentRow
	}
	return b, i, b.states[i], nil
}
