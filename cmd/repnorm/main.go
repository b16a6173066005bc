package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"repnorm/internal"
	"repnorm/internal/config"
	"repnorm/internal/pipeline"
	"repnorm/internal/rules"
	"repnorm/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "report file (.csv, .xlsx, .html)")
		configPath := fs.String("config", cfg.ConfigPath, "rule workbook path")
		report := fs.String("report", cfg.ReportName, "report name filter in the rule workbook")
		policyFlag := fs.String("policy", cfg.Policy, "lenient|strict")
		xlsx := fs.Bool("xlsx", cfg.ExportXLSX, "also write a Processed/Ignored/Raw workbook")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		policy, err := internal.ParsePolicy(*policyFlag)
		must(err)

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		if prev, found, err := db.LastRunForInput(*input); err == nil && found {
			fmt.Printf("note: last processed at %s (%d rows)\n", prev.CreatedAt, prev.RowsOut)
		}

		svc := pipeline.NewService(db, cfg)
		res, err := svc.Run(pipeline.RunOptions{
			InputPath:  *input,
			ConfigPath: *configPath,
			ReportName: *report,
			Policy:     policy,
			ExportXLSX: *xlsx,
		})
		must(err)

		fmt.Printf("run done rows=%d mapped=%d passed=%d output=%s\n", res.RowsOut, res.Mapped, res.Passed, res.OutputPath)
		if res.WorkbookPath != "" {
			fmt.Printf("workbook written to %s\n", res.WorkbookPath)
		}
		for _, col := range res.Skipped {
			fmt.Printf("skipped rule: column %q not in report\n", col)
		}
	case "config:show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		configPath := fs.String("config", cfg.ConfigPath, "rule workbook path")
		report := fs.String("report", cfg.ReportName, "report name filter")
		_ = fs.Parse(os.Args[2:])

		ruleSet, err := rules.Load(*configPath, *report)
		must(err)
		fmt.Printf("%d rules from %s\n", len(ruleSet), *configPath)
		for _, r := range ruleSet {
			format := r.Format
			if format == "" {
				format = "-"
			}
			fmt.Printf("  %-30s -> %-30s %s\n", r.SourceColumn, r.TargetColumn, format)
		}
	case "history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to show")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		runs, err := db.ListRuns(*limit)
		must(err)
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %s -> %s rows=%d mapped=%d skipped=%d policy=%s\n",
				r.CreatedAt, r.InputPath, r.OutputPath, r.RowsOut, r.ColumnsMapped, r.RulesSkipped, r.Policy)
		}
		if lastConfig, ok, err := db.GetMetadata("lastConfigPath"); err == nil && ok {
			fmt.Printf("last config: %s\n", lastConfig)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: repnorm <command>")
	fmt.Println("commands:")
	fmt.Println("  run --input=report.csv [--config=rules.xlsx] [--report=NAME] [--policy=lenient|strict] [--xlsx]")
	fmt.Println("  config:show [--config=rules.xlsx] [--report=NAME]")
	fmt.Println("  history [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
