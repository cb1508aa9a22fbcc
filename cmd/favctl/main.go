// favctl is a small client for the favorites service. It keeps a local
// cache of the signed-in user's favorite recipe IDs and reconciles it
// with the backend, so listings work even when the service is down.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/panpal/panpal/favsync"
	"github.com/panpal/panpal/pkg/logger"
)

const defaultGateway = "http://localhost:8080"

func main() {
	gatewayURL := flag.String("gateway", envOr("PANPAL_GATEWAY", defaultGateway), "API gateway base URL")
	token := flag.String("token", os.Getenv("PANPAL_TOKEN"), "JWT bearer token")
	cachePath := flag.String("cache", favsync.DefaultCachePath(), "favorites cache file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	logger.Init("favctl", *verbose)
	if !*verbose {
		logger.SetLevel("error")
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if args[0] == "login" {
		if err := login(ctx, *gatewayURL, args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if *token == "" {
		fmt.Fprintln(os.Stderr, "error: no token; run favctl login or set PANPAL_TOKEN")
		os.Exit(1)
	}

	gateway := favsync.NewHTTPGateway(*gatewayURL, *token)
	cache := favsync.NewFileCache(*cachePath)
	syncer := favsync.NewSyncer(gateway, cache)

	unsubscribe := syncer.Subscribe(func(ev favsync.Event) {
		verb := "added"
		if !ev.IsFavorited {
			verb = "removed"
		}
		fmt.Printf("recipe %d %s (%d favorites)\n", ev.RecipeID, verb, ev.Count)
	})
	defer unsubscribe()

	syncer.Start(ctx)

	var err error
	switch args[0] {
	case "list":
		err = list(syncer)
	case "toggle":
		err = toggle(ctx, syncer, args[1:])
	case "refresh":
		err = refresh(ctx, syncer)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func list(syncer *favsync.Syncer) error {
	state := syncer.Snapshot()
	if !state.HasInitialized {
		fmt.Println("favorites not synced yet (backend unreachable and no cache)")
		return nil
	}
	if len(state.IDs) == 0 {
		fmt.Println("no favorites")
		return nil
	}
	for _, id := range state.IDs {
		fmt.Println(id)
	}
	fmt.Printf("%d favorites, last synced %s\n", state.Count(), state.LastSyncTime.Format(time.RFC3339))
	return nil
}

func toggle(ctx context.Context, syncer *favsync.Syncer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: favctl toggle <recipe-id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid recipe ID %q", args[0])
	}
	return syncer.Toggle(ctx, uint(id))
}

func refresh(ctx context.Context, syncer *favsync.Syncer) error {
	if err := syncer.Refresh(ctx, true); err != nil {
		return err
	}
	return list(syncer)
}

func login(ctx context.Context, gatewayURL string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: favctl login <username> <password>")
	}

	body, err := json.Marshal(map[string]string{
		"username": args[0],
		"password": args[1],
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	fmt.Println("export PANPAL_TOKEN=" + result.Token)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: favctl [flags] <command>

commands:
  login <username> <password>   sign in, prints an export line for the token
  list                          print favorite recipe IDs
  toggle <recipe-id>            add or remove a favorite
  refresh                       force a sync with the backend, then list

flags:`)
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
