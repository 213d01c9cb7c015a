package model

// Checkpoint records unfinished work when a run is blocked on quota.
// Remaining holds the keywords never attempted; FoundNames holds the
// canonical names already materialized, so a resumed run treats them as
// known and never double-builds a record.
type Checkpoint struct {
	Remaining  []Keyword `json:"remaining"`
	FoundNames []string  `json:"found_names"`
}
