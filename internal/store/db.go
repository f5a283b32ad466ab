package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"dictamen/internal"
)

// DB persists run history and the consolidated rows of the latest
// reconciliation, so an export can be re-emitted without re-reading
// the input stores.
type DB struct {
	conn *sql.DB
}

func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
  folio TEXT PRIMARY KEY,
  solicitud TEXT,
  cliente TEXT,
  contrato TEXT,
  rfc TEXT,
  curp TEXT,
  producto TEXT,
  marcas TEXT,
  norma TEXT,
  tipoDocumento TEXT,
  constancia TEXT,
  fechaDocumento TEXT,
  inspector TEXT,
  pedimento TEXT,
  fechaDesaduanamiento TEXT,
  fechaVisita TEXT,
  modelos TEXT,
  solicitudCorta TEXT,
  claveFirma TEXT,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_solicitud ON documents(solicitud);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID string, counts map[string]int, timings map[string]float64) error {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, countsJson, timingsJson) VALUES (?, ?, ?)`,
		traceID, string(countsJSON), string(timingsJSON))
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, countsJson, timingsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var row internal.RunRow
		if err := rows.Scan(&row.ID, &row.TraceID, &row.CountsJSON, &row.TimingsJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpsertDocuments(docs []internal.ExportRow) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO documents (
  folio, solicitud, cliente, contrato, rfc, curp, producto, marcas, norma,
  tipoDocumento, constancia, fechaDocumento, inspector, pedimento,
  fechaDesaduanamiento, fechaVisita, modelos, solicitudCorta, claveFirma, updatedAt
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(folio) DO UPDATE SET
  solicitud=excluded.solicitud,
  cliente=excluded.cliente,
  contrato=excluded.contrato,
  rfc=excluded.rfc,
  curp=excluded.curp,
  producto=excluded.producto,
  marcas=excluded.marcas,
  norma=excluded.norma,
  tipoDocumento=excluded.tipoDocumento,
  constancia=excluded.constancia,
  fechaDocumento=excluded.fechaDocumento,
  inspector=excluded.inspector,
  pedimento=excluded.pedimento,
  fechaDesaduanamiento=excluded.fechaDesaduanamiento,
  fechaVisita=excluded.fechaVisita,
  modelos=excluded.modelos,
  solicitudCorta=excluded.solicitudCorta,
  claveFirma=excluded.claveFirma,
  updatedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, doc := range docs {
		if _, err := stmt.Exec(
			doc.Folio, doc.Solicitud, doc.Cliente, doc.Contrato, doc.RFC, doc.CURP,
			doc.Producto, doc.Marcas, doc.Norma, doc.TipoDocumento, doc.Constancia,
			doc.FechaDocumento, doc.Inspector, doc.Pedimento, doc.FechaDesaduanamiento,
			doc.FechaVisita, doc.Modelos, doc.SolicitudCorta, doc.ClaveFirma,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListDocuments() ([]internal.ExportRow, error) {
	rows, err := d.conn.Query(`
SELECT folio, solicitud, cliente, contrato, rfc, curp, producto, marcas, norma,
       tipoDocumento, constancia, fechaDocumento, inspector, pedimento,
       fechaDesaduanamiento, fechaVisita, modelos, solicitudCorta, claveFirma
FROM documents ORDER BY folio ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ExportRow
	for rows.Next() {
		var doc internal.ExportRow
		if err := rows.Scan(
			&doc.Folio, &doc.Solicitud, &doc.Cliente, &doc.Contrato, &doc.RFC, &doc.CURP,
			&doc.Producto, &doc.Marcas, &doc.Norma, &doc.TipoDocumento, &doc.Constancia,
			&doc.FechaDocumento, &doc.Inspector, &doc.Pedimento, &doc.FechaDesaduanamiento,
			&doc.FechaVisita, &doc.Modelos, &doc.SolicitudCorta, &doc.ClaveFirma,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
