package types

import "encoding/json"

// Table names as they appear in export documents.
const (
	TimersTable  = "timers"
	EntriesTable = "entries"
	TripsTable   = "trips"
	RoutesTable  = "routes"
	StateTable   = "state"
)

// StandardTableNames lists every table in export order.
var StandardTableNames = []string{
	TimersTable,
	EntriesTable,
	TripsTable,
	RoutesTable,
	StateTable,
}

// TableDump is one table block of an export document.
type TableDump struct {
	TableName string            `json:"tableName"`
	Contents  []json.RawMessage `json:"contents"`
}

// Export is the whole-store interchange document: one block per table.
type Export []TableDump

// Table returns the block for name, or false if the document has none.
func (e Export) Table(name string) (TableDump, bool) {
	for _, d := range e {
		if d.TableName == name {
			return d, true
		}
	}
	return TableDump{}, false
}
