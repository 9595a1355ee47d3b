package transition

// ApplyResult summarizes the ledger rewrite performed by applying a plan.
type ApplyResult struct {
	RecordsClosed  int
	RecordsCreated int
}
