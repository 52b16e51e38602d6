package unpaker

// Stats surfaces the diagnostics spec.md's Open Questions asked to be
// preserved rather than silently absorbed: a substituted UE entry-count
// cap, a resync recovery, and the count of entries discarded to per-entry
// corruption during decode.
type Stats struct {
	// DiscardedEntries counts entries rejected during decode for failing
	// per-entry validation (bad terminator, invalid characters, truncated
	// metadata) — spec.md §7's Malformed, counted but non-fatal.
	DiscardedEntries int
	// EntryCountCapped is true when a UE PAK's footer-declared entry count
	// exceeded the cap and was substituted with the safety value
	// (spec.md §9, Open Question (a)).
	EntryCountCapped bool
	// ResyncUsed is true when the VPK directory-only decoder had to scan
	// for a plausible tree start because tree_size was zero or implausible.
	ResyncUsed bool
	// ResyncOffset is the byte offset where the resync scan found a
	// plausible restart point, valid only when ResyncUsed is true.
	ResyncOffset int64
}
