package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/parsers/csv"
)

// locationFlags are shared by the commands that compute against a location.
type locationFlags struct {
	city      string
	state     string
	zip       string
	latitude  float64
	longitude float64
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.city, "city", "", "User city")
	cmd.Flags().StringVar(&f.state, "state", "", "User state; without it the configured default location is used")
	cmd.Flags().StringVar(&f.zip, "zip", "", "User ZIP code")
	cmd.Flags().Float64Var(&f.latitude, "lat", 0, "User latitude")
	cmd.Flags().Float64Var(&f.longitude, "lon", 0, "User longitude")
}

// resolve returns the location given on the command line, then the configured
// default, then nil.
func (f *locationFlags) resolve() *compare.UserLocation {
	if f.state == "" {
		if cfg != nil {
			return cfg.DefaultLocation.UserLocation()
		}
		return nil
	}
	loc := &compare.UserLocation{
		City:        f.city,
		State:       f.state,
		Coordinates: compare.Coordinates{Latitude: f.latitude, Longitude: f.longitude},
	}
	if f.zip != "" {
		loc.ZipCode = &f.zip
	}
	return loc
}

var (
	compareLoc      locationFlags
	compareDistance float64
	compareQuery    string
	compareCategory string
	compareSort     string
	compareOutput   string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare item prices near a location",
	Long: `Compute the default comparison list for a location. When no store is
within the radius, the list falls back to an expanded radius and then to the
nearest in-state stores; the note column says which tier was used.`,
	Example: `  compare-service compare --catalog ./data/catalog.json --city Austin --state TX --lat 30.27 --lon -97.74
  compare-service compare --state TX --lat 30.27 --lon -97.74 --max-distance 5 --sort rating
  compare-service compare --query milk --output json`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

var (
	storesLoc        locationFlags
	storesSort       string
	storesIncludeFar bool
	storesDistance   float64
	storesOutput     string
)

var storesCmd = &cobra.Command{
	Use:     "stores <item-id>",
	Short:   "List every store carrying an item",
	Example: `  compare-service stores bananas --state TX --lat 30.27 --lon -97.74 --sort distance --include-far`,
	Args:    cobra.ExactArgs(1),
	RunE:    runStores,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(storesCmd)

	compareLoc.register(compareCmd)
	compareCmd.Flags().Float64Var(&compareDistance, "max-distance", 0, "Radius in miles (default from config)")
	compareCmd.Flags().StringVar(&compareQuery, "query", "", "Filter items by name, brand or tag")
	compareCmd.Flags().StringVar(&compareCategory, "category", "", "Filter items by category")
	compareCmd.Flags().StringVar(&compareSort, "sort", "price", "Sort: price, distance, name or rating")
	compareCmd.Flags().StringVar(&compareOutput, "output", "table", "Output format: table or json")

	storesLoc.register(storesCmd)
	storesCmd.Flags().StringVar(&storesSort, "sort", "price", "Sort: price or distance")
	storesCmd.Flags().BoolVar(&storesIncludeFar, "include-far", false, "Include stores beyond the radius")
	storesCmd.Flags().Float64Var(&storesDistance, "max-distance", 0, "Radius in miles (default from config)")
	storesCmd.Flags().StringVar(&storesOutput, "output", "table", "Output format: table or json")
}

func newEngine() *compare.Engine {
	if cfg == nil {
		return compare.NewEngine(nil, nil)
	}
	c := cfg.Compare
	return compare.NewEngine(&c, nil)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	filters := compare.Filters{
		MaxDistance: compareDistance,
		Query:       compareQuery,
		Category:    compareCategory,
		SortBy:      compare.SortKey(compareSort),
	}
	result, err := newEngine().Compare(ctx, cat, compareLoc.resolve(), filters)
	if err != nil {
		return err
	}

	switch strings.ToLower(compareOutput) {
	case "json":
		return writeJSON(compareOutputFrom(result))
	case "table":
		outputCompareTable(result)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", compareOutput)
	}
}

func runStores(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	opts := compare.StoresViewOptions{
		Sort:        compare.SortKey(storesSort),
		IncludeFar:  storesIncludeFar,
		MaxDistance: storesDistance,
	}
	entries, err := newEngine().Stores(ctx, cat, args[0], storesLoc.resolve(), opts)
	if errors.Is(err, compare.ErrItemNotFound) {
		return fmt.Errorf("unknown item %q", args[0])
	}
	if err != nil {
		return err
	}

	switch strings.ToLower(storesOutput) {
	case "json":
		return writeJSON(entries)
	case "table":
		outputStoresTable(args[0], entries)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", storesOutput)
	}
}

type comparisonOutput struct {
	Item            compare.Item          `json:"item"`
	Entries         []compare.PricedEntry `json:"entries"`
	LowestPrice     *compare.PricedEntry  `json:"lowestPrice,omitempty"`
	AveragePrice    int64                 `json:"averagePrice"`
	Savings         int64                 `json:"savings"`
	NearestDistance *float64              `json:"nearestDistance,omitempty"`
}

type compareResultOutput struct {
	Tier     string                `json:"tier"`
	Note     compare.FallbackNote  `json:"note"`
	Location *compare.UserLocation `json:"location"`
	List     []comparisonOutput    `json:"list"`
}

// compareOutputFrom drops the infinite nearest distance of unpriced items,
// which JSON cannot encode.
func compareOutputFrom(r *compare.ComparisonResult) compareResultOutput {
	out := compareResultOutput{Tier: r.Tier.String(), Note: r.Note, Location: r.Location, List: make([]comparisonOutput, 0, len(r.List))}
	for _, c := range r.List {
		co := comparisonOutput{
			Item:         c.Item,
			Entries:      c.Entries,
			LowestPrice:  c.LowestPrice,
			AveragePrice: c.AveragePrice,
			Savings:      c.Savings,
		}
		if !math.IsInf(c.NearestDistance, 0) {
			d := c.NearestDistance
			co.NearestDistance = &d
		}
		out.List = append(out.List, co)
	}
	return out
}

func outputCompareTable(result *compare.ComparisonResult) {
	where := "no location"
	if result.Location != nil {
		where = fmt.Sprintf("%s, %s", result.Location.City, result.Location.State)
	}
	fmt.Printf("\nComparison near %s (tier %s, note %s)\n", where, result.Tier, result.Note)
	fmt.Println(strings.Repeat("-", 72))

	if len(result.List) == 0 {
		fmt.Println("No items to compare.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Item\tLowest\tStore\tAverage\tSavings\tNearest\n")
	fmt.Fprintf(w, "----\t------\t-----\t-------\t-------\t-------\n")
	for _, c := range result.List {
		lowest, store := "-", "-"
		if c.LowestPrice != nil {
			lowest = csv.FormatCents(c.LowestPrice.EffectivePrice())
			if c.LowestPrice.OnSale() {
				lowest += " (sale)"
			}
			store = c.LowestPrice.Store.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Item.Name, lowest, store,
			csv.FormatCents(c.AveragePrice), csv.FormatCents(c.Savings),
			formatMiles(c.NearestDistance))
	}
	w.Flush()
}

func outputStoresTable(itemID string, entries []compare.PricedEntry) {
	fmt.Printf("\nStores carrying %s (%d)\n", itemID, len(entries))
	fmt.Println(strings.Repeat("-", 72))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Store\tCity\tPrice\tRegular\tDistance\tIn stock\n")
	fmt.Fprintf(w, "-----\t----\t-----\t-------\t--------\t--------\n")
	for _, e := range entries {
		regular := "-"
		if ref, ok := e.ReferencePrice(); ok {
			regular = csv.FormatCents(ref)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			e.Store.Name, e.Store.City,
			csv.FormatCents(e.EffectivePrice()), regular,
			formatMiles(e.Distance), e.InStock)
	}
	w.Flush()
}

func formatMiles(d float64) string {
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return "-"
	}
	return fmt.Sprintf("%.1f mi", d)
}

func writeJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
