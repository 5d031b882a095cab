package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Sly2277/BookNclean/internal/api"
	"github.com/Sly2277/BookNclean/internal/auth"
	"github.com/Sly2277/BookNclean/internal/cart"
	"github.com/Sly2277/BookNclean/internal/catalog"
	"github.com/Sly2277/BookNclean/internal/config"
	"github.com/Sly2277/BookNclean/internal/domain"
	"github.com/Sly2277/BookNclean/internal/reconcile"
	"github.com/Sly2277/BookNclean/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339}
	log.Out = os.Stderr
}

func main() {
	configDir := flag.String("config-dir", defaultConfigDir(), "directory holding config.yaml and local state")
	add := flag.String("add", "", "add a wash-dry-fold bag by key (small|medium|large|xl)")
	notes := flag.String("notes", "", "notes to attach to an added item")
	quantity := flag.Int("qty", 0, "set quantity for the line at -index (0 removes)")
	index := flag.Int("index", -1, "line index for -qty / -rm")
	rm := flag.Bool("rm", false, "remove the line at -index")
	coupon := flag.String("coupon", "", "apply a promo code")
	clear := flag.Bool("clear", false, "clear the cart")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	backend, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("set up storage: %v", err)
	}

	session := auth.NewSession(backend)
	client := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  session,
	})

	store := cart.NewStore(backend, log)
	unsubscribe := store.Subscribe(func(count int) {
		log.WithField("count", count).Debug("cart updated")
	})
	defer unsubscribe()

	reconciler := reconcile.New(client, log)
	store.Load(ctx, reconciler)

	switch {
	case *clear:
		store.Clear(ctx)
		fmt.Println("Cart cleared.")
	case *add != "":
		addBag(ctx, store, client, *add, *notes)
	case *rm:
		store.Remove(ctx, *index)
	case *index >= 0:
		store.SetQuantity(ctx, *index, *quantity)
	}

	if *coupon != "" {
		if _, err := store.ApplyCoupon(ctx, client, *coupon); err != nil {
			fmt.Println("Invalid or expired coupon")
		}
	}

	printCart(store)
}

func newBackend(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return storage.NewRedisStore(client, "booknclean"), nil
	default:
		return storage.NewFileStore(cfg.DataDir)
	}
}

func addBag(ctx context.Context, store *cart.Store, client *api.Client, key, notes string) {
	options := catalog.DefaultWashDryFoldOptions()
	if list, err := client.GetPrices(ctx, catalog.ServiceWashDryFold); err == nil && len(list) > 0 {
		options = options[:0]
		for _, p := range list {
			options = append(options, catalog.FromPriceItem(p))
		}
	} else if err != nil {
		log.WithError(err).Warn("could not load prices, using default placeholders")
	}

	for _, option := range options {
		if option.Key == key {
			item := option.LineItem(catalog.ServiceWashDryFold, "Wash, Dry & Fold", "/images/services/wash-fold.png", notes)
			store.Append(ctx, item)
			fmt.Printf("%s added to cart.\n", option.Name)
			return
		}
	}
	log.Fatalf("unknown bag size %q", key)
}

func printCart(store *cart.Store) {
	items := store.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}

	fmt.Printf("Cart Items (%d)\n", len(items))
	for i := range items {
		li := &items[i]
		fmt.Printf("%2d. %s x%d  %s\n", i, li.DisplayName(), li.NormalizedQuantity(), lineLabel(li))
	}

	s := store.Summary()
	if s.Exact {
		fmt.Printf("Subtotal: ₵%.2f\n", s.Subtotal)
	} else {
		fmt.Printf("Subtotal: ₵%.2f - ₵%.2f (estimated)\n", s.EstimatedMin, s.EstimatedMax)
	}
	if s.Discount > 0 {
		fmt.Printf("Discount: -₵%.2f\n", s.Discount)
	}
	fmt.Println("Delivery Fee: Free")
	if s.Exact {
		fmt.Printf("Total: ₵%.2f\n", s.Total)
	} else {
		fmt.Printf("Total: ₵%.2f - ₵%.2f (estimated)\n", s.TotalMin, s.TotalMax)
	}
}

func lineLabel(li *domain.LineItem) string {
	if price, ok := li.ResolvedUnitPrice(); ok {
		if li.Unit != "" {
			return fmt.Sprintf("₵%.2f per %s", price, li.Unit)
		}
		return fmt.Sprintf("₵%.2f", price)
	}
	if li.HasEstimate() {
		min := 0.0
		if li.EstimatedMin != nil {
			min = *li.EstimatedMin
		}
		if li.EstimatedMax != nil {
			return fmt.Sprintf("Est. ₵%.2f - ₵%.2f", min, *li.EstimatedMax)
		}
		return fmt.Sprintf("Est. ₵%.2f+", min)
	}
	return "Price to be confirmed"
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home + "/.booknclean"
}
