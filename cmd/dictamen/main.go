package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"dictamen/internal/config"
	"dictamen/internal/evidence"
	"dictamen/internal/folioseq"
	"dictamen/internal/logging"
	"dictamen/internal/pipeline"
	"dictamen/internal/store"
	"dictamen/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		from := fs.String("from", "", "inclusive start date")
		to := fs.String("to", "", "inclusive end date")
		out := fs.String("out", "", "output xlsx path")
		save := fs.Bool("save", false, "persist consolidated rows")
		_ = fs.Parse(os.Args[2:])

		output := *out
		if strings.TrimSpace(output) == "" {
			output = filepath.Join(cfg.OutputDir, "reconciliacion-"+time.Now().Format("20060102-150405")+".xlsx")
		}

		db, err := store.OpenDB(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := pipeline.NewService(cfg, log, db)
		res, err := svc.Run(pipeline.RunOptions{
			Start:      parseBound(*from, "--from"),
			End:        parseBound(*to, "--to"),
			OutputPath: output,
			Save:       *save,
		})
		must(err)
		fmt.Printf("reconcile done rows=%d documents=%d detail=%d output=%s\n",
			res.RawRows, res.Documents, res.DetailHits, output)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		db, err := store.OpenDB(cfg.DBPath)
		must(err)
		defer db.Close()

		rows, err := db.ListDocuments()
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no persisted documents; run reconcile --save first"))
		}
		must(pipeline.ExportRowsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "evidence:match":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		codesArg := fs.String("codes", "", "comma-separated identifier codes")
		out := fs.String("out", "", "optional xlsx report path")
		_ = fs.Parse(os.Args[2:])

		codes := splitCodes(*codesArg)
		if len(codes) == 0 {
			must(fmt.Errorf("--codes is required"))
		}

		matcher := evidence.NewMatcher(cfg.Evidence.Groups, log)
		matches := matcher.Find(codes)
		for _, code := range codes {
			fmt.Printf("%s: %d\n", code, len(matches[code]))
		}
		if strings.TrimSpace(*out) != "" {
			must(evidence.ExportMatchesToXLSX(codes, matches, *out))
			fmt.Printf("report written to %s\n", *out)
		}
	case "folio:next":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		n := fs.Int("n", 1, "how many folios to issue")
		_ = fs.Parse(os.Args[2:])

		counter := folioseq.New(cfg.FolioCounterPath, cfg.FolioPadWidth)
		for i := 0; i < *n; i++ {
			folio, err := counter.Next()
			must(err)
			fmt.Println(folio)
		}
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to show")
		_ = fs.Parse(os.Args[2:])

		db, err := store.OpenDB(cfg.DBPath)
		must(err)
		defer db.Close()

		runs, err := db.ListRuns(*limit)
		must(err)

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"id", "trace", "counts", "created"})
		for _, run := range runs {
			tw.AppendRow(table.Row{run.ID, run.TraceID, run.CountsJSON, run.CreatedAt})
		}
		tw.Render()
	default:
		usage()
		os.Exit(1)
	}
}

func parseBound(value, name string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t := util.ParseDate(value)
	if t == nil {
		must(fmt.Errorf("%s: unrecognized date %q", name, value))
	}
	return t
}

func splitCodes(arg string) []string {
	parts := strings.Split(arg, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func usage() {
	fmt.Println("usage: dictamen <command>")
	fmt.Println("commands:")
	fmt.Println("  reconcile [--from=2025-01-01] [--to=2025-12-31] [--out=...xlsx] [--save]")
	fmt.Println("  export:xlsx --out=./out/reporte.xlsx")
	fmt.Println("  evidence:match --codes=K-I.154,ABC123 [--out=...xlsx]")
	fmt.Println("  folio:next [--n=1]")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
