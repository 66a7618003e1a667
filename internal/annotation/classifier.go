package annotation

// Classify decides the outcome bucket for a completed qualification and
// builds the flattened row stored there.
func Classify(r Row, q Qualification) (BucketName, AnnotatedRow) {
	q = q.normalize()
	bucket := Qualified
	if q.Partial() {
		bucket = Partial
	}
	return bucket, AnnotatedRow{
		RowID:    r.ID,
		Category: q.Category,
		Fields:   q.Flatten(r.Fields),
	}
}

// record classifies q and upserts it into the outcome buckets, marking the
// category as qualified on the row.
func (w *Workspace) record(r Row, st *rowState, q Qualification) BucketName {
	bucket, annotated := Classify(r, q)
	w.outcomes.upsert(bucket, annotated)
	st.qualifications[q.Category] = q
	st.markQualified(q.Category)
	w.observer.Classified(bucket, q.Category)
	return bucket
}
