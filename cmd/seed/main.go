package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeds the catalog with demo products. Existing products with the same
// slug are skipped unless -replace is given.
func main() {
	var (
		replace  bool
		logLevel string
	)
	flag.BoolVar(&replace, "replace", false, "Delete and re-create products that already exist")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	selector := persistence.NewSelector(cfg.Store, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	store, err := selector.Connect(ctx)
	cancel()
	if err != nil {
		log.Fatal("Failed to connect document store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = selector.Disconnect(ctx)
	}()
	log.Info("Document store connected", zap.String("backend", store.Backend()))

	productService := catalogapp.NewProductService(store.Products())

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()

	var created, skipped int
	for _, req := range sampleProducts() {
		existing, err := productService.GetBySlug(seedCtx, req.Slug)
		if err == nil {
			if !replace {
				log.Info("Product already exists, skipping", zap.String("slug", req.Slug))
				skipped++
				continue
			}
			if err := productService.Delete(seedCtx, existing.ID); err != nil {
				log.Fatal("Failed to delete existing product",
					zap.String("slug", req.Slug), zap.Error(err))
			}
		}

		resp, err := productService.Create(seedCtx, req)
		if err != nil {
			log.Fatal("Failed to seed product", zap.String("slug", req.Slug), zap.Error(err))
		}
		log.Info("Seeded product",
			zap.String("title", resp.Title),
			zap.String("slug", resp.Slug),
			zap.String("price", resp.Price.String()),
		)
		created++
	}

	log.Info("Seeding completed", zap.Int("created", created), zap.Int("skipped", skipped))
}

func price(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}

func pricePtr(amount string) *decimal.Decimal {
	d := decimal.RequireFromString(amount)
	return &d
}

func stockPtr(n int64) *int64 {
	return &n
}

func sampleProducts() []catalogapp.CreateProductRequest {
	return []catalogapp.CreateProductRequest{
		{
			Title:       "Crimson Aura Cap",
			Slug:        "crimson-aura-cap",
			Description: "Premium streetwear cap with signature crimson gradient design. Features premium cotton construction and adjustable strap for perfect fit.",
			Price:       price("49.99"),
			Currency:    "USD",
			Images: []string{
				"https://images.pexels.com/photos/1082529/pexels-photo-1082529.jpeg",
				"https://images.pexels.com/photos/1154861/pexels-photo-1154861.jpeg",
			},
			ModelURLs: []string{"/models/crimson-cap.glb"},
			Variants: []catalogapp.VariantPayload{
				{Name: "Color", Value: "Crimson Red", Price: pricePtr("49.99"), Stock: stockPtr(15), ModelURL: "/models/crimson-cap.glb"},
				{Name: "Color", Value: "Deep Black", Price: pricePtr("49.99"), Stock: stockPtr(20), ModelURL: "/models/black-cap.glb"},
				{Name: "Color", Value: "Midnight Blue", Price: pricePtr("52.99"), Stock: stockPtr(8), ModelURL: "/models/blue-cap.glb"},
			},
			Stock: stockPtr(43),
			Tags:  []string{"premium", "streetwear", "caps", "signature"},
		},
		{
			Title:       "Shadow Burst Snapback",
			Slug:        "shadow-burst-snapback",
			Description: "Edgy snapback featuring our exclusive shadow burst design. Perfect for night adventures and urban exploration.",
			Price:       price("45.99"),
			Currency:    "USD",
			Images: []string{
				"https://images.pexels.com/photos/1194030/pexels-photo-1194030.jpeg",
				"https://images.pexels.com/photos/839836/pexels-photo-839836.jpeg",
			},
			ModelURLs: []string{"/models/shadow-snapback.glb"},
			Variants: []catalogapp.VariantPayload{
				{Name: "Size", Value: "One Size", Price: pricePtr("45.99"), Stock: stockPtr(25)},
			},
			Stock: stockPtr(25),
			Tags:  []string{"snapback", "urban", "limited", "dark"},
		},
		{
			Title:       "Neon Dreams Beanie",
			Slug:        "neon-dreams-beanie",
			Description: "Cozy beanie with neon-inspired embroidered details. Perfect for those chilly nights with attitude.",
			Price:       price("32.99"),
			Currency:    "USD",
			Images: []string{
				"https://images.pexels.com/photos/2112651/pexels-photo-2112651.jpeg",
			},
			ModelURLs: []string{"/models/neon-beanie.glb"},
			Variants: []catalogapp.VariantPayload{
				{Name: "Color", Value: "Neon Pink", Price: pricePtr("32.99"), Stock: stockPtr(12)},
				{Name: "Color", Value: "Electric Blue", Price: pricePtr("32.99"), Stock: stockPtr(8)},
				{Name: "Color", Value: "Cyber Green", Price: pricePtr("35.99"), Stock: stockPtr(6)},
			},
			Stock: stockPtr(26),
			Tags:  []string{"beanie", "neon", "winter", "cyber"},
		},
		{
			Title:       "Blood Moon Trucker",
			Slug:        "blood-moon-trucker",
			Description: "Classic trucker hat with our blood moon graphic. Mesh back for breathability, attitude for days.",
			Price:       price("38.99"),
			Currency:    "USD",
			Images: []string{
				"https://images.pexels.com/photos/1194030/pexels-photo-1194030.jpeg",
			},
			ModelURLs: []string{"/models/trucker-hat.glb"},
			Variants: []catalogapp.VariantPayload{
				{Name: "Style", Value: "Classic Mesh", Price: pricePtr("38.99"), Stock: stockPtr(18)},
				{Name: "Style", Value: "Premium Canvas", Price: pricePtr("42.99"), Stock: stockPtr(12)},
			},
			Stock: stockPtr(30),
			Tags:  []string{"trucker", "mesh", "classic", "gothic"},
		},
		{
			Title:       "Void Runner Cap",
			Slug:        "void-runner-cap",
			Description: "Minimalist design meets maximum impact. The void runner cap for those who move through shadows.",
			Price:       price("55.99"),
			Currency:    "USD",
			Images: []string{
				"https://images.pexels.com/photos/1154861/pexels-photo-1154861.jpeg",
			},
			ModelURLs: []string{"/models/void-cap.glb"},
			Variants: []catalogapp.VariantPayload{
				{Name: "Material", Value: "Premium Cotton", Price: pricePtr("55.99"), Stock: stockPtr(10)},
				{Name: "Material", Value: "Tech Fabric", Price: pricePtr("62.99"), Stock: stockPtr(5)},
			},
			Stock: stockPtr(15),
			Tags:  []string{"premium", "minimal", "tech", "limited"},
		},
		{
			Title:       "Chaos Theory Bucket Hat",
			Slug:        "chaos-theory-bucket-hat",
			Description: "Embrace the chaos with this avant-garde bucket hat. Features abstract patterns and premium construction.",
			Price:       price("41.99"),
			Currency:    "USD",
			Images: []string{
				"https://images.pexels.com/photos/2112651/pexels-photo-2112651.jpeg",
			},
			ModelURLs: []string{"/models/bucket-hat.glb"},
			Variants: []catalogapp.VariantPayload{
				{Name: "Pattern", Value: "Abstract Chaos", Price: pricePtr("41.99"), Stock: stockPtr(14)},
				{Name: "Pattern", Value: "Geometric Storm", Price: pricePtr("44.99"), Stock: stockPtr(9)},
			},
			Stock: stockPtr(23),
			Tags:  []string{"bucket", "abstract", "artistic", "unique"},
		},
	}
}
