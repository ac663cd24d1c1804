// Command cart runs one cart operation against the configured storage and
// prints the resulting collection.
//
//	cart [-config file] list
//	cart [-config file] add <id> <title> <price> [image_url]
//	cart [-config file] inc <id>
//	cart [-config file] dec <id>
//	cart [-config file] summary
//	cart [-config file] clear
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/marketplace"
	"goflare.io/marketplace/cart"
	"goflare.io/marketplace/config"
	"goflare.io/marketplace/models"
	"goflare.io/marketplace/models/enum"
	"goflare.io/marketplace/storage"
)

var errUsage = errors.New("usage: cart [-config file] list|add <id> <title> <price> [image_url]|inc <id>|dec <id>|summary|clear")

func main() {
	configPath := flag.String("config", os.Getenv("CART_CONFIG"), "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := storage.Close(context.Background(), store); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	var eventManager *marketplace.EventManager
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Drain()
		eventManager = marketplace.NewEventManager(nc, logger)
		if err := watchEvents(eventManager, logger); err != nil {
			return err
		}
	}

	cartRepo := cart.NewRepository(store, cfg.Cart.Key, logger)
	svc := marketplace.NewService(ctx, cartRepo, eventManager, cfg.Cart, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Cart.WriteTimeout)
		defer cancel()
		if err := svc.Close(closeCtx); err != nil {
			logger.Warn("Failed to drain cart writes", zap.Error(err))
		}
	}()

	return execute(marketplace.WithCart(ctx, svc), args, out)
}

// watchEvents logs every cart event seen on the bus, including those
// published by other cart processes sharing the storage.
func watchEvents(eventManager *marketplace.EventManager, logger *zap.Logger) error {
	for _, eventType := range enum.CartEventTypes() {
		eventManager.RegisterHandler(eventType, func(_ context.Context, event *models.CartEvent) error {
			logger.Info("Cart event",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.String("product_id", event.ProductID),
				zap.Int("quantity", event.Quantity),
				zap.Int("items", event.Items))
			return nil
		})
	}

	if _, err := eventManager.SubscribeToEvents(); err != nil {
		return fmt.Errorf("subscribe cart events: %w", err)
	}
	return nil
}

func execute(ctx context.Context, args []string, out io.Writer) error {
	svc, err := marketplace.FromContext(ctx)
	if err != nil {
		return err
	}

	var ack *marketplace.Ack
	switch args[0] {
	case "list":
	case "summary":
		return printJSON(out, svc.Summary())
	case "add":
		item, err := parseItem(args[1:])
		if err != nil {
			return err
		}
		ack = svc.AddToCart(item)
	case "inc":
		if len(args) != 2 {
			return errUsage
		}
		ack = svc.Increment(args[1])
	case "dec":
		if len(args) != 2 {
			return errUsage
		}
		ack = svc.Decrement(args[1])
	case "clear":
		ack = svc.Clear()
	default:
		return errUsage
	}

	if ack != nil {
		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := ack.Wait(waitCtx); err != nil {
			return fmt.Errorf("persist cart: %w", err)
		}
	}

	return printJSON(out, svc.Products())
}

func parseItem(args []string) (models.Item, error) {
	if len(args) < 3 || len(args) > 4 {
		return models.Item{}, errUsage
	}

	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return models.Item{}, fmt.Errorf("invalid price %q: %w", args[2], err)
	}

	item := models.Item{
		ID:    args[0],
		Title: args[1],
		Price: price,
	}
	if len(args) == 4 {
		item.ImageURL = args[3]
	}
	if err = marketplace.ValidateItem(item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
