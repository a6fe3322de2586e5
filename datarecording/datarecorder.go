// Package datarecording stores simulation output in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table with the given name, using the fields
	// of the sample entry as columns.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes a same-type entry into a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing the names of all tables.
	ListTables() []string

	// Flush flushes all the buffered entries into the database.
	Flush()
}

// New creates a new DataRecorder backed by an SQLite database at path. If
// path is empty, a unique name is generated.
func New(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	dbName    string
	tables    map[string]*table
	batchSize int
}

// init establishes a connection to the database.
func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "mesisim_data_recording_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func (t *sqliteWriter) columnType(kind reflect.Kind) string {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		panic(fmt.Errorf("field kind %s cannot be recorded", kind))
	}
}

// CreateTable creates a table whose columns are the exported fields of the
// sample entry. The sample entry must be a flat struct of numbers, strings,
// and booleans.
func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if _, ok := t.tables[tableName]; ok {
		panic(fmt.Errorf("table %s already exists", tableName))
	}

	structType := reflect.TypeOf(sampleEntry)
	if structType.Kind() != reflect.Struct {
		panic(fmt.Errorf("sample entry for table %s is not a struct",
			tableName))
	}

	columns := make([]string, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		columns = append(columns,
			field.Name+" "+t.columnType(field.Type.Kind()))
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)",
		tableName, strings.Join(columns, ", "))

	_, err := t.Exec(stmt)
	if err != nil {
		panic(err)
	}

	t.tables[tableName] = &table{structType: structType}
}

// InsertData buffers one entry for the table. Entries are written in
// batches; call Flush to force the buffered entries out.
func (t *sqliteWriter) InsertData(tableName string, entry any) {
	tbl, ok := t.tables[tableName]
	if !ok {
		panic(fmt.Errorf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != tbl.structType {
		panic(fmt.Errorf("entry type %T does not match table %s",
			entry, tableName))
	}

	tbl.entries = append(tbl.entries, entry)

	if len(tbl.entries) >= t.batchSize {
		t.Flush()
	}
}

// ListTables returns the names of all created tables.
func (t *sqliteWriter) ListTables() []string {
	names := make([]string, 0, len(t.tables))
	for name := range t.tables {
		names = append(names, name)
	}

	return names
}

// Flush writes all the buffered entries into the database in one
// transaction per table.
func (t *sqliteWriter) Flush() {
	for name, tbl := range t.tables {
		if len(tbl.entries) == 0 {
			continue
		}

		t.flushTable(name, tbl)
	}
}

func (t *sqliteWriter) flushTable(name string, tbl *table) {
	tx, err := t.Begin()
	if err != nil {
		panic(err)
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", tbl.structType.NumField()), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		panic(err)
	}

	for _, entry := range tbl.entries {
		value := reflect.ValueOf(entry)
		args := make([]any, value.NumField())
		for i := range args {
			args[i] = value.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	tbl.entries = nil
}
