package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/bootstrap"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/config"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

func main() {
	enqueue := flag.Bool("enqueue", false, "publish the run to the queue instead of executing inline")
	runID := flag.String("run-id", "", "evaluation run id (generated when empty)")
	flag.Parse()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "evaluate")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if *enqueue {
		id := *runID
		if id == "" {
			id = uuid.NewString()
		}
		if err := app.Queue.PublishRunRequested(ctx, id); err != nil {
			log.Fatalf("enqueue run error: %v", err)
		}
		fmt.Printf("run %s enqueued on %s\n", id, cfg.NATSSubject)
		return
	}

	report, err := app.RunUC.Run(ctx, *runID)
	switch {
	case err == nil:
	case domain.IsKind(err, domain.ErrEmptyQuestionSet):
		log.Printf("warning: %v", err)
	default:
		log.Fatalf("evaluation run error: %v", err)
	}

	printReport(report)
}

func printReport(report *domain.EvaluationReport) {
	fmt.Printf("run %s started %s took %s\n\n",
		report.RunID,
		report.StartedAt.Format("2006-01-02 15:04:05"),
		report.Duration.Round(time.Millisecond),
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tQUESTIONS\tFAILED\tSKIPPED\tHIT RATE\tMRR\tADJ HIT RATE\tADJ MRR\tMEAN LATENCY")
	for _, mode := range report.Modes {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
			mode.Mode,
			mode.QuestionCount,
			mode.FailedCount,
			mode.SkippedCount,
			mode.HitRate,
			mode.MRR,
			mode.AdjustedHitRate,
			mode.AdjustedMRR,
			mode.MeanLatency.Round(time.Millisecond),
		)
	}
	w.Flush()

	for _, mode := range report.Modes {
		for _, failure := range mode.Failures {
			fmt.Printf("failed [%s] question %s: %s\n", mode.Mode, failure.QuestionID, failure.Reason)
		}
	}
}
