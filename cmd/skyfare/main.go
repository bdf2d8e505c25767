package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avoronov/skyfare/internal/api"
	"github.com/avoronov/skyfare/internal/cache"
	"github.com/avoronov/skyfare/internal/cities"
	"github.com/avoronov/skyfare/internal/config"
	"github.com/avoronov/skyfare/internal/extract"
	"github.com/avoronov/skyfare/internal/fetch"
	"github.com/avoronov/skyfare/internal/query"
	"github.com/avoronov/skyfare/internal/search"
	"github.com/avoronov/skyfare/internal/storage/sqlite"
	"github.com/avoronov/skyfare/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "path to config file")
		serve      = flag.Bool("serve", false, "run the HTTP API server")

		from       = flag.String("from", "", "origin airport code")
		to         = flag.String("to", "", "destination airport code")
		fromCity   = flag.String("from-city", "", "origin city name (resolved to an airport)")
		toCity     = flag.String("to-city", "", "destination city name (resolved to an airport)")
		date       = flag.String("date", "", "departure date (YYYY-MM-DD)")
		returnDate = flag.String("return-date", "", "return date for round trips (YYYY-MM-DD)")

		adults        = flag.Int("adults", 1, "number of adults")
		children      = flag.Int("children", 0, "number of children")
		infantsInSeat = flag.Int("infants-in-seat", 0, "number of infants in seat")
		infantsOnLap  = flag.Int("infants-on-lap", 0, "number of infants on lap")

		class         = flag.String("class", "economy", "seat class (economy, premium-economy, business, first)")
		tripType      = flag.String("trip-type", "one-way", "trip type (one-way, round-trip)")
		maxStops      = flag.Int("max-stops", -1, "maximum number of stops (-1 for no limit)")
		airlines      = flag.String("airlines", "", "preferred airlines, comma-separated")
		departureTime = flag.String("departure-time", "", "departure time window (HH:MM-HH:MM)")
		arrivalTime   = flag.String("arrival-time", "", "arrival time window (HH:MM-HH:MM)")

		output = flag.String("output", "", "write JSON results to this file instead of stdout")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, cleanup, err := buildService(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	if *serve {
		if err := runServer(ctx, cfg, service, log); err != nil {
			log.Error("Server failed", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	opts := searchOptions{
		from:          *from,
		to:            *to,
		fromCity:      *fromCity,
		toCity:        *toCity,
		date:          *date,
		returnDate:    *returnDate,
		class:         *class,
		tripType:      *tripType,
		maxStops:      *maxStops,
		airlines:      *airlines,
		departureTime: *departureTime,
		arrivalTime:   *arrivalTime,
		output:        *output,
		passengers: query.Passengers{
			Adults:        *adults,
			Children:      *children,
			InfantsInSeat: *infantsInSeat,
			InfantsOnLap:  *infantsOnLap,
		},
	}
	if err := runSearch(ctx, service, opts, log); err != nil {
		log.Error("Search failed", logger.Error(err))
		os.Exit(1)
	}
}

// buildService wires the search stack from the configuration.
func buildService(ctx context.Context, cfg *config.Config, log *logger.Logger) (*search.Service, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var store cities.Store
	if cfg.Cities.DBPath != "" {
		db, err := sqlite.Open(cfg.Cities.DBPath)
		if err != nil {
			return nil, cleanup, err
		}
		cleanups = append(cleanups, func() { db.Close() })

		store, err = sqlite.NewCityStorage(db, log)
		if err != nil {
			return nil, cleanup, err
		}
	}

	var remote cities.RemoteLookup
	if cfg.Cities.LookupURL != "" {
		remote = cities.NewHTTPLookup(cfg.Cities.LookupURL, cfg.Cities.Timeout(), log)
	}

	resolver, err := cities.NewResolver(ctx, remote, store, log)
	if err != nil {
		return nil, cleanup, err
	}

	var resultCache cache.ResultCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL(),
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cleanups = append(cleanups, func() { redisCache.Close() })
		resultCache = redisCache
		log.Info("Result cache enabled",
			logger.String("addr", cfg.Cache.RedisAddr),
			logger.Duration("ttl", cfg.Cache.TTL()))
	} else {
		resultCache = cache.NewNoOpCache()
	}

	client := fetch.NewClient(cfg.Flights.BaseURL, cfg.Flights.UserAgent, cfg.Flights.Timeout(), log)
	extractor := extract.NewExtractor(log)

	return search.NewService(client, extractor, resolver, resultCache, log), cleanup, nil
}

func runServer(ctx context.Context, cfg *config.Config, service *search.Service, log *logger.Logger) error {
	router := api.NewRouter(service, cfg, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting API server", logger.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type searchOptions struct {
	from, to           string
	fromCity, toCity   string
	date, returnDate   string
	class, tripType    string
	maxStops           int
	airlines           string
	departureTime      string
	arrivalTime        string
	output             string
	passengers         query.Passengers
}

func runSearch(ctx context.Context, service *search.Service, opts searchOptions, log *logger.Logger) error {
	byCity := opts.fromCity != "" || opts.toCity != ""
	if byCity && (opts.from != "" || opts.to != "") {
		return fmt.Errorf("use either airport codes (-from/-to) or city names (-from-city/-to-city), not both")
	}
	if !byCity && (opts.from == "" || opts.to == "") {
		return fmt.Errorf("-from and -to (or -from-city and -to-city) are required")
	}
	if opts.date == "" {
		return fmt.Errorf("-date is required")
	}

	seat, err := query.ParseSeatClass(opts.class)
	if err != nil {
		return err
	}

	trip := query.TripType(0)
	if opts.returnDate != "" {
		trip = query.TripRoundTrip
	} else if trip, err = query.ParseTripType(opts.tripType); err != nil {
		return err
	}

	var maxStops *int
	if opts.maxStops >= 0 {
		maxStops = &opts.maxStops
	}

	var airlineList []string
	if opts.airlines != "" {
		for _, a := range strings.Split(opts.airlines, ",") {
			airlineList = append(airlineList, strings.TrimSpace(a))
		}
	}

	var depWindow, arrWindow *query.TimeWindow
	if opts.departureTime != "" {
		if depWindow, err = query.ParseTimeWindow(opts.departureTime); err != nil {
			return err
		}
	}
	if opts.arrivalTime != "" {
		if arrWindow, err = query.ParseTimeWindow(opts.arrivalTime); err != nil {
			return err
		}
	}

	log.Info("Searching for flights",
		logger.String("trip", trip.String()),
		logger.String("seat", seat.String()))

	var result *extract.FlightResult
	if byCity {
		req := search.CityRequest{Trip: trip, Seat: seat, Passengers: opts.passengers}
		req.Legs = append(req.Legs, search.CityLeg{
			Date:            opts.date,
			OriginCity:      opts.fromCity,
			DestinationCity: opts.toCity,
			MaxStops:        maxStops,
			Airlines:        airlineList,
			Departure:       depWindow,
			Arrival:         arrWindow,
		})
		if opts.returnDate != "" {
			req.Legs = append(req.Legs, search.CityLeg{
				Date:            opts.returnDate,
				OriginCity:      opts.toCity,
				DestinationCity: opts.fromCity,
				MaxStops:        maxStops,
				Airlines:        airlineList,
				Departure:       depWindow,
				Arrival:         arrWindow,
			})
		}
		result, err = service.SearchByCity(ctx, req)
	} else {
		criteria := query.SearchCriteria{Trip: trip, Seat: seat, Passengers: opts.passengers}
		criteria.Legs = append(criteria.Legs, query.FlightLeg{
			Date:        opts.date,
			Origin:      opts.from,
			Destination: opts.to,
			MaxStops:    maxStops,
			Airlines:    airlineList,
			Departure:   depWindow,
			Arrival:     arrWindow,
		})
		if opts.returnDate != "" {
			criteria.Legs = append(criteria.Legs, query.FlightLeg{
				Date:        opts.returnDate,
				Origin:      opts.to,
				Destination: opts.from,
				MaxStops:    maxStops,
				Airlines:    airlineList,
				Departure:   depWindow,
				Arrival:     arrWindow,
			})
		}
		result, err = service.Search(ctx, criteria)
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return err
		}
		log.Info("Results written", logger.String("file", opts.output))
	} else {
		fmt.Println(string(data))
	}

	log.Info("Search summary",
		logger.String("price_level", string(result.PriceLevel)),
		logger.Int("offers", len(result.Offers)),
		logger.Int("discarded", result.Discarded))
	if len(result.Offers) > 0 {
		best := result.Offers[0]
		log.Info("Top offer",
			logger.String("airline", best.Airline),
			logger.Int("price", best.Price.Amount),
			logger.String("duration", best.Duration))
	}

	return nil
}
