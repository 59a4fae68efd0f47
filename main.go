package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"stress-index/pkg/aggregator"
	"stress-index/pkg/keywords"
	"stress-index/pkg/logger"
	"stress-index/pkg/scoring"
	"stress-index/pkg/storage"
	"stress-index/pkg/tracker"
	"stress-index/pkg/trends"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func main() {
	var (
		trendsAPIURL = flag.String("trends-api-url", getEnvOrDefault("TRENDS_API_URL", ""), "Comma-separated trends API URLs (env: TRENDS_API_URL)")
		trendsAPIKey = flag.String("trends-api-key", getEnvOrDefault("TRENDS_API_KEY", ""), "Trends API bearer key (env: TRENDS_API_KEY)")
		fixture      = flag.String("fixture", getEnvOrDefault("TRENDS_FIXTURE", ""), "Replay recorded responses from a JSON file instead of calling the API (env: TRENDS_FIXTURE)")
		timeframe    = flag.String("timeframe", getEnvOrDefault("TRENDS_TIMEFRAME", trends.DefaultTimeframe), "Query timeframe (env: TRENDS_TIMEFRAME)")
		geo          = flag.String("geo", getEnvOrDefault("TRENDS_GEO", trends.DefaultGeo), "Region code (env: TRENDS_GEO)")
		maxRetries   = flag.Int("max-retries", getEnvIntOrDefault("TRENDS_MAX_RETRIES", 2), "Retries per keyword (env: TRENDS_MAX_RETRIES)")
		pacingMs     = flag.Int("pacing-ms", getEnvIntOrDefault("TRENDS_PACING_MS", 2000), "Pause between API calls in milliseconds (env: TRENDS_PACING_MS)")
		lang         = flag.String("lang", getEnvOrDefault("REPORT_LANG", "it"), "Label language for the printed summary (env: REPORT_LANG)")
		export       = flag.Bool("export", getEnvBoolOrDefault("EXPORT", false), "Write CSV and JSON summary to the output directory (env: EXPORT)")
		outputDir    = flag.String("output-dir", getEnvOrDefault("OUTPUT_DIR", "./reports"), "Export directory (env: OUTPUT_DIR)")
		debug        = flag.Bool("debug", getEnvBoolOrDefault("DEBUG", false), "Enable debug logging (env: DEBUG)")
		help         = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if *trendsAPIURL == "" && *fixture == "" {
		fmt.Println("ERROR: a trends API URL or a fixture file is required.")
		fmt.Println("Use -trends-api-url (env: TRENDS_API_URL) or -fixture (env: TRENDS_FIXTURE).")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	logger.SetLogger(logger.New(cliLogConfig(*debug)))

	source, err := buildSource(*trendsAPIURL, *trendsAPIKey, *fixture, *maxRetries, time.Duration(*pacingMs)*time.Millisecond)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create trends source")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	t := tracker.New(keywords.Default(), source, aggregator.Options{Timeframe: *timeframe, Geo: *geo})
	result, err := t.Refresh(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Refresh failed")
	}

	if !printSummary(result, scoring.Labels(*lang)) {
		os.Exit(2)
	}

	if *export {
		files, err := storage.NewReportExporter(*outputDir).Export(ctx, result)
		if err != nil {
			logger.WithError(err).Fatal("Export failed")
		}
		fmt.Printf("\nExported: %s\n          %s\n", files.CSV, files.Summary)
	}
}

// exampleFixture is the recorded response file shipped with the repository
const exampleFixture = "examples/fixture.json"

// cliLogConfig keeps stdout for the printed summary and logs to stderr
func cliLogConfig(debug bool) logger.Config {
	level := "info"
	if debug {
		level = "debug"
	}
	return logger.Config{Level: level, Format: "console", Output: "stderr"}
}

func buildSource(apiURL, apiKey, fixture string, maxRetries int, pacing time.Duration) (trends.Source, error) {
	if fixture != "" {
		return trends.NewFixtureSource(fixture)
	}

	cfg := trends.DefaultClientConfig()
	cfg.BaseURL = apiURL
	cfg.APIKey = apiKey
	cfg.MaxRetries = maxRetries
	cfg.Pacing = pacing

	logger.WithFields(map[string]interface{}{
		"trends_api": logger.MaskEndpoint(apiURL),
		"api_key":    logger.MaskSecret(apiKey),
	}).Info("Trends client configured")
	return trends.NewClient(cfg), nil
}

// printSummary writes the analysis to stdout and reports whether there was data
func printSummary(result *tracker.Result, labels scoring.LabelSet) bool {
	if !result.HasData() {
		fmt.Println("❌ No data available.")
		for _, f := range result.Failures() {
			fmt.Printf("   %s / %s: %s\n", f.Category, f.Keyword, f.Error)
		}
		return false
	}

	a := result.Analysis.Rounded()
	fmt.Printf("\n=== Economic Stress Index ===\n")
	fmt.Printf("Current score: %.2f\n", a.LatestScore)
	fmt.Printf("Stress level:  %s\n", labels.StressLabel(a.StressLevel))
	fmt.Printf("Trend:         %s\n", labels.TrendLabel(a.TrendDirection))
	fmt.Printf("30d average:   %.2f\n", a.Trend30d)
	fmt.Printf("90d average:   %.2f\n", a.Trend90d)
	fmt.Printf("Average:       %.2f (%d weeks)\n", a.AvgScore, a.Observations)

	fmt.Printf("\n=== Categories ===\n")
	last := result.Composite.Len() - 1
	for _, name := range scoring.CategoryColumns(result.Composite) {
		values, _ := result.Composite.Column(name)
		fmt.Printf("%-20s %6.2f\n", name, scoring.Round2(values[last]))
	}
	for _, name := range result.MissingCategories {
		fmt.Printf("%-20s %6s\n", name, "n/a")
	}

	if failures := result.Failures(); len(failures) > 0 {
		fmt.Printf("\n⚠️  %d keyword(s) failed:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("   %s / %s: %s\n", f.Category, f.Keyword, f.Error)
		}
	}
	return true
}

func printUsage() {
	fmt.Println("Economic Stress Index - one-shot refresh")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./stress-index -trends-api-url <URL> [OPTIONS]")
	fmt.Println("    ./stress-index -fixture " + exampleFixture)
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -trends-api-url string  Trends API URL(s) (env: TRENDS_API_URL)")
	fmt.Println("    -trends-api-key string  Trends API key (env: TRENDS_API_KEY)")
	fmt.Println("    -fixture string         Recorded responses file (env: TRENDS_FIXTURE)")
	fmt.Println("    -timeframe string       Query timeframe (default: today 12-m)")
	fmt.Println("    -geo string             Region code (default: IT)")
	fmt.Println("    -max-retries int        Retries per keyword (default: 2)")
	fmt.Println("    -pacing-ms int          Pause between calls (default: 2000)")
	fmt.Println("    -lang string            Label language, it or en (default: it)")
	fmt.Println("    -export                 Write economic_stress_YYYYMMDD.csv and summary JSON")
	fmt.Println("    -output-dir string      Export directory (default: ./reports)")
	fmt.Println("    -debug                  Enable debug logging (env: DEBUG)")
	fmt.Println("    -help                   Show this help message")
	fmt.Println("")
	fmt.Println("The dashboard server lives in cmd/server.")
}
