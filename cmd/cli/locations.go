package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kosarica/compare-service/internal/location"
)

var (
	locationsQuery    string
	locationsDebounce time.Duration
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Search locations",
	Long: `Search locations with the configured geocoder, or with the cities of the
catalog's stores when no geocoder is configured. Without --query the command
reads one query per line from stdin; only the last query of a burst is sent.`,
	Example: `  compare-service locations --query austin
  compare-service locations --catalog ./data/catalog.json`,
	Args: cobra.NoArgs,
	RunE: runLocations,
}

func init() {
	rootCmd.AddCommand(locationsCmd)

	locationsCmd.Flags().StringVar(&locationsQuery, "query", "", "Run a single search and exit")
	locationsCmd.Flags().DurationVar(&locationsDebounce, "debounce", location.DefaultDebounce, "Delay before an interactive query is sent")
}

func newCLILocationService(ctx context.Context) (location.Service, error) {
	if cfg != nil && cfg.Geocoder.URL != "" && catalogPath == "" {
		return location.NewGeocoderClient(cfg.Geocoder, nil), nil
	}
	cat, err := loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	places := location.PlacesFromStores(cat.Stores)
	return location.NewStaticService(nil, func() []location.SearchResult { return places }), nil
}

func runLocations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newCLILocationService(ctx)
	if err != nil {
		return err
	}

	if locationsQuery != "" {
		results, err := svc.Search(ctx, locationsQuery)
		if err != nil {
			return err
		}
		printLocations(locationsQuery, results)
		return nil
	}

	applied := make(chan uint64, 1)
	searcher := location.NewSearcher(svc, locationsDebounce, func(r location.Result[[]location.SearchResult]) {
		if r.Err != nil {
			logger.Error().Err(r.Err).Msg("Search failed")
		} else {
			printLocations("", r.Value)
		}
		// Keep only the newest sequence number.
		select {
		case <-applied:
		default:
		}
		applied <- r.Seq
	})
	defer searcher.Stop()

	fmt.Fprintln(os.Stderr, "Type a city, state or ZIP code; Ctrl-D to quit.")
	var last uint64
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		last = searcher.Query(ctx, q)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if last == 0 {
		return nil
	}

	// Piped input ends before the last query fires; wait for it.
	timeout := time.After(locationsDebounce + 30*time.Second)
	for {
		select {
		case seq := <-applied:
			if seq == last {
				return nil
			}
		case <-timeout:
			return fmt.Errorf("timed out waiting for search results")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func printLocations(query string, results []location.SearchResult) {
	if query != "" {
		fmt.Printf("Results for %q:\n", query)
	}
	if len(results) == 0 {
		fmt.Println("  (no matches)")
		return
	}
	for _, r := range results {
		fmt.Printf("  %-40s %9.4f %10.4f\n", r.Label, r.Location.Coordinates.Latitude, r.Location.Coordinates.Longitude)
	}
}
