package ledger

// Schema DDL for the ledger database.
const (
	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    entry_id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    boat TEXT NOT NULL,
    amount TEXT NOT NULL,
    balance TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	idxEntriesBoat    = `CREATE INDEX IF NOT EXISTS idx_entries_boat ON entries(boat COLLATE NOCASE);`
	idxEntriesSession = `CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id);`
)

// schemaDDL lists the statements run on Open, in order.
var schemaDDL = []string{
	createEntries,
	idxEntriesBoat,
	idxEntriesSession,
}
