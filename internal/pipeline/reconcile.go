package pipeline

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dictamen/internal"
	"dictamen/internal/config"
	"dictamen/internal/store"
	"dictamen/internal/xref"
)

// Service runs one reconciliation pass: load stores, build indices,
// group, consolidate, derive, filter, export. Every invocation rebuilds
// its indices from scratch; runs share no state.
type Service struct {
	cfg config.Config
	log *slog.Logger
	db  *store.DB
}

// NewService builds a reconciliation service. db may be nil; runs are
// then not persisted.
func NewService(cfg config.Config, log *slog.Logger, db *store.DB) *Service {
	return &Service{cfg: cfg, log: log, db: db}
}

type RunOptions struct {
	Start      *time.Time
	End        *time.Time
	OutputPath string
	Save       bool
}

type RunResult struct {
	TraceID    string
	RawRows    int
	Documents  int
	DetailHits int
	Exported   int
}

func (s *Service) Run(opts RunOptions) (RunResult, error) {
	started := time.Now()
	result := RunResult{TraceID: uuid.NewString()}

	loader := store.NewLoader(s.cfg.Stores, s.log)
	raws := loader.RelationRows()
	details := loader.DetailRecords()
	norms := loader.Norms()
	clients := loader.Clients()
	signatures := loader.Signatures()
	visits := loader.Visits()
	snapshots := loader.Snapshots()
	result.RawRows = len(raws)

	folioClients := xref.BuildFolioClients(visits, s.log)
	backupDates := xref.BuildBackupDates(snapshots)
	finder := xref.NewDetailFinder(details)

	docs := GroupDocuments(raws, finder, s.log)
	docs = Consolidate(docs, s.cfg.FolioPadWidth, s.log)
	for _, doc := range docs {
		doc.Cliente = folioClients[FolioValue(doc.Folio)]
		doc.FechaEntrada = backupDates[xref.MakePairKey(doc.Solicitud, doc.Folio)]
		if doc.Detail != nil {
			result.DetailHits++
		}
	}
	result.Documents = len(docs)

	docs = FilterByDateRange(docs, opts.Start, opts.End)

	deriver := NewDeriver(norms, clients, signatures, folioClients, backupDates, s.cfg.FolioPadWidth)
	rows := make([]internal.ExportRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, deriver.Row(doc))
	}
	result.Exported = len(rows)

	if opts.OutputPath != "" {
		if err := ExportRowsToXLSX(rows, opts.OutputPath); err != nil {
			return result, err
		}
	}

	if opts.Save && s.db != nil {
		if err := s.db.UpsertDocuments(rows); err != nil {
			return result, err
		}
	}
	if s.db != nil {
		counts := map[string]int{
			"rawRows":    result.RawRows,
			"documents":  result.Documents,
			"detailHits": result.DetailHits,
			"exported":   result.Exported,
		}
		timings := map[string]float64{"totalMs": float64(time.Since(started).Milliseconds())}
		if err := s.db.InsertRun(result.TraceID, counts, timings); err != nil {
			s.log.Warn("run not recorded", "trace", result.TraceID, "err", err)
		}
	}

	s.log.Info("reconcile done",
		"trace", result.TraceID,
		"rawRows", result.RawRows,
		"documents", result.Documents,
		"detailHits", result.DetailHits,
		"exported", result.Exported,
	)
	return result, nil
}
