package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/carefinderfl/geodirectory/internal/adapters/cache"
	"github.com/carefinderfl/geodirectory/internal/adapters/dataset"
	"github.com/carefinderfl/geodirectory/internal/adapters/events"
	"github.com/carefinderfl/geodirectory/internal/adapters/providers/geolocation"
	"github.com/carefinderfl/geodirectory/internal/application/services"
	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/clients/listingsapi"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/clients/postgres"
	redisclient "github.com/carefinderfl/geodirectory/internal/infrastructure/clients/redis"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/observability"
	"github.com/carefinderfl/geodirectory/pkg/config"
)

func main() {
	var (
		sourceKind string
		filePath   string
		query      string
		counties   string
		servicesF  string
		insurance  string
		kind       string
		radius     float64
		locate     bool
		useCache   bool
		asJSON     bool
		limit      int
	)
	flag.StringVar(&sourceKind, "source", "api", "listing source: api, postgres or file")
	flag.StringVar(&filePath, "file", "", "path to a JSON listing export (required with -source=file)")
	flag.StringVar(&query, "q", "", "free-text search term")
	flag.StringVar(&counties, "counties", "", "comma-separated county filter")
	flag.StringVar(&servicesF, "services", "", "comma-separated service filter")
	flag.StringVar(&insurance, "insurance", "", "comma-separated insurance filter")
	flag.StringVar(&kind, "kind", "", "record kind filter: provider, daycare or ppec")
	flag.Float64Var(&radius, "radius", 0, "search radius in miles (0 uses the default)")
	flag.BoolVar(&locate, "locate", false, "resolve the current position and restrict the map to the radius")
	flag.BoolVar(&useCache, "cache", false, "serve the snapshot from Redis when cached, refresh it otherwise")
	flag.BoolVar(&asJSON, "json", false, "emit results as JSON")
	flag.IntVar(&limit, "limit", 0, "stop printing after this many results (0 prints the visible page)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	observability.InitLogger(cfg.Service.Name, cfg.Service.Environment)

	ctx := context.Background()

	source, cleanup, err := buildSource(sourceKind, filePath, cfg)
	if err != nil {
		log.Fatalf("Failed to build listing source: %v", err)
	}
	defer cleanup()

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if useCache {
		redisClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		bus := events.NewRedisEventBus(redisClient)
		defer bus.Close()
		eventBus = bus
	}

	loader := services.NewDatasetService(source, cacheProvider, eventBus, cfg.ListingsAPI.PageSize)
	listings, err := loader.CachedSnapshot(ctx)
	if err != nil {
		listings, err = loader.LoadAll(ctx)
		if err != nil {
			log.Fatalf("Failed to load listings: %v", err)
		}
	}

	engine := services.NewSearchEngineService(cfg.Engine, buildGeolocation(cfg))
	engine.SetListings(listings)
	engine.SetSelection(buildSelection(query, counties, servicesF, insurance, kind))
	if radius > 0 {
		engine.SetSearchRadiusMiles(radius)
	}
	if locate {
		<-engine.RequestUserLocation(ctx)
		if engine.LocationStatus() == services.LocationStatusDenied {
			log.Printf("Position unavailable, searching without a radius")
		}
	}

	printResults(engine, asJSON, limit)
}

func buildSource(kind, filePath string, cfg *config.Config) (providers.ListingSource, func(), error) {
	noop := func() {}
	switch kind {
	case "api":
		return dataset.NewAPISource(listingsapi.NewHTTPClient(&cfg.ListingsAPI)), noop, nil
	case "postgres":
		client, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		return dataset.NewPostgresSource(client), func() { client.Close() }, nil
	case "file":
		if filePath == "" {
			return nil, noop, fmt.Errorf("-source=file requires -file")
		}
		source, err := dataset.NewFileSource(filePath)
		return source, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown source %q", kind)
	}
}

func buildGeolocation(cfg *config.Config) providers.GeolocationProvider {
	if cfg.Geolocation.Provider == "ip" {
		return geolocation.NewIPProvider(cfg.Geolocation.BaseURL, &http.Client{})
	}
	return geolocation.NewMockProvider()
}

func buildSelection(query, counties, servicesF, insurance, kind string) entities.FacetSelection {
	selection := entities.FacetSelection{
		SearchTerm: query,
		Counties:   splitCSV(counties),
		RecordKind: entities.RecordKind(kind),
	}
	tags := map[string][]string{}
	if values := splitCSV(servicesF); len(values) > 0 {
		tags[entities.TagCategoryServices] = values
	}
	if values := splitCSV(insurance); len(values) > 0 {
		tags[entities.TagCategoryInsurances] = values
	}
	if len(tags) > 0 {
		selection.TagValues = tags
	}
	return selection
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printResults(engine *services.SearchEngineService, asJSON bool, limit int) {
	visible := engine.VisibleListings()
	if limit > 0 && limit < len(visible) {
		visible = visible[:limit]
	}
	plan := engine.MapPlan()

	if asJSON {
		out, _ := json.MarshalIndent(map[string]interface{}{
			"total":     len(engine.FilteredListings()),
			"visible":   visible,
			"remaining": engine.Remaining(),
			"map": map[string]interface{}{
				"renderable": plan.Renderable,
				"cap":        plan.Cap,
				"mappable":   plan.TotalMappable,
			},
		}, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("%d listings match (%d shown, %d more available)\n",
		len(engine.FilteredListings()), len(visible), engine.Remaining())
	if center := engine.SearchCenter(); center != nil {
		fmt.Printf("Searching within %.0f miles of %.4f, %.4f\n",
			engine.SearchRadiusMiles(), center.Latitude, center.Longitude)
	}
	if plan.Renderable {
		fmt.Printf("Map: %d markers (cap %d)\n", plan.TotalMappable, plan.Cap)
	} else {
		fmt.Printf("Map: %d candidates exceed the %d marker cap, narrow the search to see the map\n",
			plan.TotalMappable, plan.Cap)
	}
	fmt.Println()

	for _, listing := range visible {
		location := listing.City
		if listing.County != "" {
			if location != "" {
				location += ", "
			}
			location += listing.County + " County"
		}
		marker := " "
		if listing.Mappable() {
			marker = "*"
		}
		fmt.Printf("%s %-40s %s\n", marker, listing.Name, location)
	}

	if len(visible) == 0 {
		fmt.Fprintln(os.Stderr, "No listings match the current filters")
	}
}
