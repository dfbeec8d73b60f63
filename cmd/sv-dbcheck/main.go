package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"stayvista/internal/server"
	"stayvista/internal/shared"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := shared.LoadServerConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("OpenStore failed: %v", err)
	}
	defer store.Close(ctx)

	fmt.Printf("Store: %s (ping ok)\n", cfg.StoreDriver)

	rooms, err := store.FindRooms(ctx, server.RoomFilter{})
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	byCategory := map[string]int{}
	for _, r := range rooms {
		byCategory[r.Category]++
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Println("Rooms:", len(rooms))
	for _, c := range categories {
		name := c
		if name == "" {
			name = "(none)"
		}
		fmt.Printf(" - %s: %d\n", name, byCategory[c])
	}
}
