package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/noah-isme/sma-registration-api/internal/repository"
	"github.com/noah-isme/sma-registration-api/pkg/config"
	"github.com/noah-isme/sma-registration-api/pkg/database"
)

func main() {
	studentID := flag.String("student", "", "student ID to look up")
	flag.Parse()
	if *studentID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	audits, err := repository.NewSubmissionAuditRepository(db).ListByStudentID(ctx, *studentID)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if len(audits) == 0 {
		fmt.Printf("no submissions recorded for %s\n", *studentID)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMITTED\tSTATUS\tROWS\tRANGE\tREQUEST\tERROR")
	for _, a := range audits {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			a.SubmittedAt.Format(time.RFC3339),
			a.Status,
			a.RowsAppended,
			a.RowsExpected,
			a.UpdatedRange,
			a.RequestID,
			a.ErrorMessage,
		)
	}
	_ = w.Flush()
}
