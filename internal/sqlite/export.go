// This file implements whole-store export and import.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// column pairs a SQLite column with its field name in export documents.
type column struct {
	sql  string
	json string
}

// tableMap maps one export table name to its SQLite table and columns.
// The first column is the primary key.
type tableMap struct {
	name    string
	table   string
	columns []column
}

// tableMapping lists every table in export order.
var tableMapping = []tableMap{
	{types.TimersTable, "timers", []column{
		{"timer_running", "timerRunning"}, {"trip", "trip"}, {"route", "route"}, {"departure_time", "departureTime"},
	}},
	{types.EntriesTable, "entries", []column{
		{"id", "id"}, {"trip", "trip"}, {"route", "route"},
		{"departure_time", "departureTime"}, {"arrival_time", "arrivalTime"}, {"duration", "duration"},
	}},
	{types.TripsTable, "trips", []column{
		{"id", "id"}, {"name", "name"},
	}},
	{types.RoutesTable, "routes", []column{
		{"id", "id"}, {"name", "name"}, {"parent_trip", "parentTrip"},
	}},
	{types.StateTable, "ui_state", []column{
		{"id", "id"}, {"trip", "trip"}, {"route", "route"},
	}},
}

// Export dumps every table inside one transaction so the document reflects
// a single consistent state of the store.
func (b *Backend) Export(ctx context.Context) (types.Export, error) {
	doc := make(types.Export, 0, len(tableMapping))
	err := b.withTx(ctx, "exporting", func(tx *sql.Tx) error {
		for _, m := range tableMapping {
			contents, err := dumpTable(ctx, tx, m.table, m.columns)
			if err != nil {
				return err
			}
			doc = append(doc, types.TableDump{TableName: m.name, Contents: contents})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// dumpTable reads every row of table as a JSON object keyed by export names.
func dumpTable(ctx context.Context, tx *sql.Tx, table string, columns []column) ([]json.RawMessage, error) {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.sql
	}
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s", strings.Join(names, ", "), table, columns[0].sql))
	if err != nil {
		return nil, storeErr("dumping "+table, err)
	}
	defer rows.Close()

	contents := []json.RawMessage{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, storeErr("scanning "+table, err)
		}

		obj := make(map[string]any, len(columns))
		for i, c := range columns {
			obj[c.json] = values[i]
		}
		rec, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encoding %s row: %w", table, err)
		}
		contents = append(contents, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("dumping "+table, err)
	}
	return contents, nil
}

// Import replaces the contents of every table with doc in one transaction.
// Rows keep their IDs, so importing an export reproduces the exported store.
// Tables absent from doc end up empty. Returns ErrUnknownTable for a block
// naming no known table and ErrInvalidDoc for rows that cannot be stored;
// in both cases the store is left unchanged.
func (b *Backend) Import(ctx context.Context, doc types.Export) error {
	for _, d := range doc {
		if _, ok := lookupMapping(d.TableName); !ok {
			return fmt.Errorf("table %q: %w", d.TableName, types.ErrUnknownTable)
		}
	}

	return b.withTx(ctx, "importing", func(tx *sql.Tx) error {
		for _, m := range tableMapping {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+m.table); err != nil {
				return storeErr("clearing "+m.table, err)
			}
		}
		for _, d := range doc {
			m, _ := lookupMapping(d.TableName)
			if err := insertRecords(ctx, tx, m.table, m.columns, d.Contents); err != nil {
				return err
			}
		}
		return checkIntegrity(ctx, tx)
	})
}

// integrityChecks find imported rows that a running store could never hold:
// a second timer, a selection row other than the singleton, a trip or route
// that does not exist, or a route that belongs to a different trip.
var integrityChecks = []struct{ what, query string }{
	{"timer key other than " + strconv.Itoa(types.TimerKey),
		"SELECT 1 FROM timers WHERE timer_running <> " + strconv.Itoa(types.TimerKey) + " LIMIT 1"},
	{"ui state id other than " + strconv.Itoa(types.UIStateID),
		"SELECT 1 FROM ui_state WHERE id <> " + strconv.Itoa(types.UIStateID) + " LIMIT 1"},
	{"route without trip", `SELECT 1 FROM routes r
		LEFT JOIN trips t ON t.id = r.parent_trip WHERE t.id IS NULL LIMIT 1`},
	{"entry without route in its trip", `SELECT 1 FROM entries e
		LEFT JOIN routes r ON r.id = e.route AND r.parent_trip = e.trip WHERE r.id IS NULL LIMIT 1`},
	{"timer without route in its trip", `SELECT 1 FROM timers tm
		LEFT JOIN routes r ON r.id = tm.route AND r.parent_trip = tm.trip WHERE r.id IS NULL LIMIT 1`},
}

// checkIntegrity rejects an import that would break a table invariant or
// leave dangling references.
func checkIntegrity(ctx context.Context, tx *sql.Tx) error {
	for _, c := range integrityChecks {
		found, err := rowExists(ctx, tx, c.query)
		if err != nil {
			return storeErr("checking imported rows", err)
		}
		if found {
			return fmt.Errorf("%w: %s", types.ErrInvalidDoc, c.what)
		}
	}
	return nil
}

func lookupMapping(name string) (tableMap, bool) {
	for _, m := range tableMapping {
		if m.name == name {
			return m, true
		}
	}
	return tableMap{}, false
}

// insertRecords inserts export rows into table. Unknown fields are ignored;
// a missing or non-integer value for an integer column rejects the document.
func insertRecords(ctx context.Context, tx *sql.Tx, table string, columns []column, records []json.RawMessage) error {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.sql
		placeholders[i] = "?"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return storeErr("preparing insert for "+table, err)
	}
	defer stmt.Close()

	for n, rec := range records {
		args, err := recordArgs(rec, columns)
		if err != nil {
			return fmt.Errorf("%s row %d: %w: %w", table, n, types.ErrInvalidDoc, err)
		}
		if table == "entries" && args[5].(int64) != args[4].(int64)-args[3].(int64) {
			return fmt.Errorf("entries row %d: %w: duration does not match arrival minus departure", n, types.ErrInvalidDoc)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%s row %d: %w: %w", table, n, types.ErrInvalidDoc, err)
		}
	}
	return nil
}

// recordArgs extracts column values from one JSON row in column order.
func recordArgs(rec json.RawMessage, columns []column) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}

	args := make([]any, len(columns))
	for i, c := range columns {
		val, ok := obj[c.json]
		if !ok {
			return nil, fmt.Errorf("missing field %q", c.json)
		}
		if c.sql == "name" {
			name, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("field %q: expected a string", c.json)
			}
			args[i] = name
			continue
		}
		switch v := val.(type) {
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", c.json, err)
			}
			args[i] = n
		default:
			return nil, fmt.Errorf("field %q: unsupported value %v", c.json, val)
		}
	}
	return args, nil
}
