// Package main provides the WhenPress administrative CLI. Device
// registration and credential provisioning happen here, directly against the
// store; the server only ever reads them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/whenpress/whenpress/internal/auth"
	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/kv"
)

const usage = `usage: whenpress-admin <command> [args]

commands:
  hash <password>                 print the bcrypt hash of a password
  add-device <name>               add a device to the registry
  set-password <name> <password>  provision a device credential
  list-devices                    print registered devices and their state

The store is selected with KV_BACKEND (sqlite, postgres) and the matching
KV_SQLITE_PATH or DB_* environment variables.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "whenpress-admin: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	ctx := context.Background()

	// hash needs no store.
	if command == "hash" {
		if len(args) != 1 {
			return fmt.Errorf("usage: hash <password>")
		}
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := device.NewKVRepository(store)

	switch command {
	case "add-device":
		if len(args) != 1 {
			return fmt.Errorf("usage: add-device <name>")
		}
		if err := repo.AddDevice(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("device %q registered\n", args[0])
		return nil

	case "set-password":
		if len(args) != 2 {
			return fmt.Errorf("usage: set-password <name> <password>")
		}
		hash, err := auth.HashPassword(args[1])
		if err != nil {
			return err
		}
		if err := repo.PutCredentialHash(ctx, args[0], hash); err != nil {
			return err
		}
		fmt.Printf("credential set for %q\n", args[0])
		return nil

	case "list-devices":
		if len(args) != 0 {
			return fmt.Errorf("usage: list-devices")
		}
		names, err := repo.Registry(ctx)
		if err != nil {
			return err
		}
		provisioned, err := repo.Provisioned(ctx)
		if err != nil {
			return err
		}
		pinged, err := repo.Pinged(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			state := "no credential"
			if provisioned[name] {
				state = "credential set"
			}
			if pinged[name] {
				state += ", has pinged"
			}
			fmt.Printf("%s\t%s\n", name, state)
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func openStore(ctx context.Context) (kv.Store, func(), error) {
	backend := os.Getenv("KV_BACKEND")
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "sqlite":
		path := os.Getenv("KV_SQLITE_PATH")
		if path == "" {
			path = "whenpress.db"
		}
		store, err := kv.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "postgres":
		store, err := kv.NewPostgresStore(ctx, kv.PostgresConfigFromEnv())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown KV_BACKEND %q", backend)
	}
}
