package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fastbreakhq/fastbreak/go/clients/nbastats"
	"github.com/fastbreakhq/fastbreak/go/internal/db"
	"github.com/fastbreakhq/fastbreak/go/internal/dbconfig"
)

// Seeds the players table from the balldontlie API so draft picks can be
// joined against real NBA players. Safe to re-run: existing rows are
// updated in place.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded .env")
	}

	apiKey := os.Getenv("NBA_STATS_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "NBA_STATS_API_KEY environment variable is required")
		os.Exit(1)
	}

	cfg := dbconfig.NewConfigFromEnv()
	database, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.CreateSchema(database); err != nil {
		fmt.Fprintf(os.Stderr, "schema error: %v\n", err)
		os.Exit(1)
	}

	client := nbastats.NewNBAStatsClient(apiKey)

	// Free tier allows ~30 requests/min; walk the pages slowly.
	total, upserted, errs := 0, 0, 0
	cursor := 0
	for page := 0; page < 50; page++ {
		resp, err := client.GetPlayers(ctx, cursor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch players: %v\n", err)
			os.Exit(1)
		}

		for _, p := range resp.Data {
			total++
			_, err := database.ExecContext(ctx, `
                INSERT INTO players (id, first_name, last_name, position, team_abbreviation, updated_at)
                VALUES ($1, $2, $3, $4, $5, NOW())
                ON CONFLICT (id) DO UPDATE SET
                  first_name = EXCLUDED.first_name,
                  last_name = EXCLUDED.last_name,
                  position = EXCLUDED.position,
                  team_abbreviation = EXCLUDED.team_abbreviation,
                  updated_at = NOW()
            `, p.ID, p.FirstName, p.LastName, p.Position, p.Team.Abbreviation)
			if err != nil {
				errs++
				continue
			}
			upserted++
		}

		if resp.Meta.NextCursor == 0 || len(resp.Data) == 0 {
			break
		}
		cursor = resp.Meta.NextCursor
		time.Sleep(2 * time.Second)
	}

	fmt.Printf(
		"Players seed: total=%d upserted=%d errors=%d\n",
		total, upserted, errs,
	)
}
