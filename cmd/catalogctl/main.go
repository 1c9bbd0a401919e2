package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/explooosion/catalog-console/internal/api"
	"github.com/explooosion/catalog-console/internal/catalog"
	"github.com/explooosion/catalog-console/internal/config"
	"github.com/explooosion/catalog-console/internal/credstore"
	"github.com/explooosion/catalog-console/internal/logger"
	"github.com/explooosion/catalog-console/internal/policy"
	"github.com/explooosion/catalog-console/internal/session"
)

const usage = `catalogctl - product catalog console

Usage:
  catalogctl login <username> <password>   authenticate and store credentials
  catalogctl logout                        discard the current session
  catalogctl refresh                       renew the stored access token
  catalogctl whoami                        show the current session
  catalogctl list                          list all products
  catalogctl get <id>                      show one product
  catalogctl create <name> <price>         create a product
  catalogctl update <id> <name> <price>    update a product
  catalogctl delete <id>                   delete a product

Environment:
  CATALOG_API_URL           API base URL (default http://localhost:8080)
  CATALOG_CREDENTIALS_PATH  credentials file (default ~/.catalog-console/credentials.json)
  CATALOG_REQUEST_TIMEOUT   request timeout (default 10s)
  CREATE_REQUIRES_ADMIN     gate product creation on the admin role
  LOG_LEVEL                 log level (default info)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger.Logger)
	store := credstore.NewFileStore(cfg.CredentialsPath)
	manager := session.NewManager(client, store, logger.Logger)
	controller := catalog.NewController(client, manager, policy.Policy{
		CreateRequiresAdmin: cfg.Policy.CreateRequiresAdmin,
	}, logger.Logger)

	// Pick up credentials persisted by a previous run
	if err := manager.Restore(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to restore session: %v\n", err)
	}

	ctx := context.Background()
	if err := run(ctx, os.Args[1], os.Args[2:], client, manager, controller); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		os.Exit(1)
	}
}

// run dispatches one subcommand
func run(ctx context.Context, command string, args []string, client *api.Client, manager *session.Manager, controller *catalog.Controller) error {
	switch command {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: catalogctl login <username> <password>")
		}
		if err := manager.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		current := manager.Current()
		fmt.Printf("logged in as %s (%s)\n", current.Username, current.Role)
		return nil

	case "logout":
		manager.Logout()
		fmt.Println("logged out")
		return nil

	case "refresh":
		if err := manager.Refresh(ctx); err != nil {
			return err
		}
		fmt.Println("token refreshed")
		return nil

	case "whoami":
		current := manager.Current()
		if !current.Authenticated() {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", current.Username, current.Role)
		return nil

	case "list":
		if err := controller.List(ctx); err != nil {
			return err
		}
		products := controller.Products()
		if len(products) == 0 {
			fmt.Println("no products")
			return nil
		}
		for _, p := range products {
			fmt.Printf("%d\t%s\t%.2f\n", p.ID, p.Name, p.Price)
		}
		return nil

	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: catalogctl get <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		product, err := client.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%s\t%.2f\n", product.ID, product.Name, product.Price)
		return nil

	case "create":
		if len(args) != 2 {
			return fmt.Errorf("usage: catalogctl create <name> <price>")
		}
		if err := controller.Create(ctx, catalog.Draft{Name: args[0], Price: args[1]}); err != nil {
			return err
		}
		fmt.Printf("created %q\n", args[0])
		return nil

	case "update":
		if len(args) != 3 {
			return fmt.Errorf("usage: catalogctl update <id> <name> <price>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := controller.Update(ctx, id, catalog.Draft{Name: args[1], Price: args[2]}); err != nil {
			return err
		}
		fmt.Printf("updated product %d\n", id)
		return nil

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: catalogctl delete <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := controller.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted product %d\n", id)
		return nil

	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil

	default:
		return fmt.Errorf("unknown command %q, run catalogctl help", command)
	}
}

// describe maps the error taxonomy to a user-facing message
func describe(err error) string {
	var validationErr *catalog.ValidationError
	var remoteErr *api.RemoteError
	var transportErr *api.TransportError

	switch {
	case errors.Is(err, catalog.ErrUnauthorized):
		return "this operation requires logging in first"
	case errors.Is(err, session.ErrNotAuthenticated):
		return "not logged in"
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &remoteErr):
		return remoteErr.Error()
	case errors.As(err, &transportErr):
		return transportErr.Error()
	default:
		return err.Error()
	}
}
