// boardwatch is a terminal viewer for the kanban board. It logs in, prints
// the four lanes, then follows the realtime change feed and re-prints the
// board after each debounced burst of changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/davidmorenoc/taskboard-api/internal/board"
	"github.com/davidmorenoc/taskboard-api/internal/logging"
	"github.com/davidmorenoc/taskboard-api/internal/models"
)

var laneTitles = map[models.TaskState]string{
	models.StateBacklog:    "Backlog",
	models.StateEnProgreso: "En curso",
	models.StateEnRevision: "En revisión",
	models.StateFinalizado: "Finalizado",
}

func printBoard(b *board.Board) {
	lanes := b.Lanes()
	fmt.Println("----------------------------------------")
	for _, state := range models.States {
		tasks := lanes[state]
		fmt.Printf("%s (%d)\n", laneTitles[state], len(tasks))
		for _, task := range tasks {
			fmt.Printf("  - %s [%s] %dpt/%dpt\n", task.Title, task.Priority, task.PuntosAsign, task.PuntosTotal)
		}
	}
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "task API base URL")
	natsURL := flag.String("nats", nats.DefaultURL, "NATS server URL")
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "login password")
	filter := flag.String("filter", "team", "task filter: team or my")
	flag.Parse()

	logging.Init("")
	log := logging.Logger

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: boardwatch -email <email> -password <password> [-addr url] [-nats url] [-filter team|my]")
		os.Exit(2)
	}

	ctx := context.Background()

	client, err := board.NewClient(*addr)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	if err := client.Login(ctx, *email, *password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	b := board.NewBoard(client, *filter)
	if err := b.Refresh(ctx); err != nil {
		log.Fatalf("Failed to fetch tasks: %v", err)
	}
	printBoard(b)

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS at %s: %v", *natsURL, err)
	}
	defer nc.Close()

	reconciler, err := board.NewReconciler(nc, board.DefaultDebounce, func() {
		if err := b.Refresh(context.Background()); err != nil {
			log.WithError(err).Warn("Refresh failed")
			return
		}
		printBoard(b)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe to change feed: %v", err)
	}
	defer reconciler.Close()

	log.Info("Watching for task changes, Ctrl-C to quit")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
