package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/princeade/taskvault/database"
	"github.com/princeade/taskvault/router"
	"github.com/princeade/taskvault/store"
	"github.com/princeade/taskvault/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := utils.LoadConfig()

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Println("mongo disconnect:", err)
		}
	}()

	db := client.Database(cfg.DatabaseName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}

	r := router.New(router.Deps{
		Cfg:    cfg,
		Users:  store.NewMongoUserStore(db.Collection(database.UsersCollection)),
		Ledger: store.NewMongoTokenLedger(db.Collection(database.RefreshTokensCollection)),
		Todos:  store.NewMongoTodoStore(db.Collection(database.TodosCollection)),
	})

	addr := ":8080"
	if cfg.Port != "" {
		addr = ":" + cfg.Port
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
