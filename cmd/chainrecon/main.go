// chainrecon ingests one batch of security events, reconstructs the attack
// narrative, and reports competing explanations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chainrecon/chainrecon/internal/source"
	"github.com/chainrecon/chainrecon/pkg/recon"
	"github.com/chainrecon/chainrecon/pkg/recon/config"
	"github.com/chainrecon/chainrecon/pkg/recon/event"
	"github.com/chainrecon/chainrecon/pkg/recon/render"
)

func main() {
	var (
		logsPath     = flag.String("logs", "", "Path to JSONL event batch")
		dbPath       = flag.String("db", "", "Path to SQLite event database (alternative to -logs)")
		rulesPath    = flag.String("rules", "", "Optional rule file (YAML); built-in rule set if omitted")
		evidencePath = flag.String("evidence", "", "Optional expected-evidence registry (YAML)")
		initialHost  = flag.String("initial-host", "A", "Intrusion entry host")
		maxVariants  = flag.Int("max-variants", 5, "Maximum competing narratives to keep")
		topN         = flag.Int("top", 3, "Narratives to display")
		dotPath      = flag.String("dot", "", "Optional path to write the causal graph in DOT form")
	)
	flag.Parse()

	if *logsPath == "" && *dbPath == "" {
		log.Fatal("one of -logs or -db required")
	}
	if *logsPath != "" && *dbPath != "" {
		log.Fatal("-logs and -db are mutually exclusive")
	}

	loader := config.Loader{
		RulesPath:    *rulesPath,
		EvidencePath: *evidencePath,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	var batch []event.Record
	if *logsPath != "" {
		batch, err = source.LoadJSONL(*logsPath)
	} else {
		batch, err = source.LoadSQLite(context.Background(), *dbPath)
	}
	if err != nil {
		log.Fatalf("load events: %v", err)
	}

	analyzer := recon.New(recon.Options{
		Rules:       components.Rules,
		Expected:    components.Expected,
		InitialHost: *initialHost,
		MaxVariants: *maxVariants,
	})

	analyzer.Ingest(batch)
	derived := analyzer.Infer()
	hypotheses := analyzer.ReconstructMissing()

	fmt.Printf("run %s: %d events, %d facts derived, %d hypotheses\n\n",
		analyzer.RunID(), len(batch), derived, hypotheses)

	narratives := analyzer.Narratives()
	render.WriteNarratives(os.Stdout, narratives, *topN)
	fmt.Println()
	render.WriteNarrative(os.Stdout, analyzer.Store())

	if *dotPath != "" {
		f, err := os.Create(*dotPath)
		if err != nil {
			log.Fatalf("create %s: %v", *dotPath, err)
		}
		if err := analyzer.Graph().WriteDOT(f); err != nil {
			f.Close()
			log.Fatalf("write graph: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("close %s: %v", *dotPath, err)
		}
	}
}
