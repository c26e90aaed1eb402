package main

import (
	"flag"

	"tourdesk/config"
	"tourdesk/database"
	"tourdesk/logging"
)

// Imports the flat-file tours.json and reviews.json the old site wrote into
// the configured database. Safe to run more than once.
//
//	go run ./scripts -tours data/tours.json -reviews data/reviews.json
func main() {
	toursPath := flag.String("tours", "data/tours.json", "legacy tours-by-category document, empty to skip")
	reviewsPath := flag.String("reviews", "data/reviews.json", "legacy reviews array, empty to skip")
	flag.Parse()

	config.LoadConfig()
	logging.Init(logging.Config{Level: config.AppConfig.LogLevel, Format: config.AppConfig.LogFormat})
	database.ConnectDb()

	report, err := database.ImportLegacy(database.Database.Db, *toursPath, *reviewsPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("legacy import failed")
	}

	logging.Info().
		Int("toursImported", report.ToursImported).
		Int("toursSkipped", report.ToursSkipped).
		Int("reviewsImported", report.ReviewsImported).
		Int("reviewsSkipped", report.ReviewsSkipped).
		Msg("legacy import completed")
}
