package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"stayvista/internal/client"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: sv-client [flags] <command> [args]

commands:
  list [category]      list rooms
  get <id>             fetch one room
  mine                 rooms hosted by -email
  create <json>        create a room
  delete <id>          delete a room

flags:
`)
	flag.PrintDefaults()
}

func main() {
	serverURL := flag.String("server", "http://localhost:8000", "StayVista server base URL")
	email := flag.String("email", "", "identity to log in as")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	c, err := client.New(*serverURL)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	// With -email set every command runs logged in, so gated routes work too.
	if *email != "" {
		if err := c.Login(ctx, map[string]any{"email": *email}); err != nil {
			log.Fatalf("login: %v", err)
		}
	}

	var out any
	switch cmd := args[0]; cmd {
	case "list":
		category := ""
		if len(args) > 1 {
			category = args[1]
		}
		out, err = c.ListRooms(ctx, category)
	case "get":
		if len(args) < 2 {
			log.Fatal("get: missing id")
		}
		out, err = c.GetRoom(ctx, args[1])
	case "mine":
		if *email == "" {
			log.Fatal("mine: -email is required")
		}
		out, err = c.MyListings(ctx, *email)
	case "create":
		if len(args) < 2 {
			log.Fatal("create: missing room json")
		}
		var room client.Room
		if err := json.Unmarshal([]byte(args[1]), &room); err != nil {
			log.Fatalf("create: %v", err)
		}
		out, err = c.CreateRoom(ctx, room)
	case "delete":
		if len(args) < 2 {
			log.Fatal("delete: missing id")
		}
		out, err = c.DeleteRoom(ctx, args[1])
	default:
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
