/* main.go
 * The "main" method for running the season engine server. For details see `readme.md`
 * Usage: go run main.go -addr=":8080" -db="liga"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	api "liga-bot/api/api"
	"liga-bot/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	// Flags
	addrPtr := flag.String("addr", ":8080", "Address the HTTP server listens on, e.g. :8080")
	dbPtr := flag.String("db", "liga", "Mongo database name")
	rpsPtr := flag.Float64("rps", web.DefaultRequestsPerSecond, "Requests per second allowed across the API")

	flag.Parse()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI must be set")
	}

	engine, err := api.NewAPI(*dbPtr, mongoURI)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err := engine.Store.GetClient().Disconnect(context.TODO()); err != nil {
			log.Println("failed to disconnect from mongo:", err)
		}
	}()

	if err := web.Start(web.Config{
		Addr:              *addrPtr,
		API:               engine,
		RequestsPerSecond: *rpsPtr,
	}); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
