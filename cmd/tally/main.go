package main

import (
	"context"
	"flag"
	"log"
	"os"

	"evote/internal/config"
	"evote/internal/report"
	"evote/internal/store"
)

// Prints the tally of one election, or of every election when no id is given.
func main() {
	electionID := flag.String("election", "", "election id (all elections when empty)")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	if *electionID != "" {
		election, err := st.Elections.FindByID(ctx, *electionID)
		if err != nil {
			log.Fatalf("Failed to load election %s: %v", *electionID, err)
		}
		report.PrintTally(os.Stdout, election)
		return
	}

	elections, err := st.Elections.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list elections: %v", err)
	}
	for i := range elections {
		report.PrintTally(os.Stdout, &elections[i])
		os.Stdout.WriteString("\n")
	}
}
