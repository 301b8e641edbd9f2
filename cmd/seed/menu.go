package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
)

type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Price       string            `yaml:"price"`
	Category    string            `yaml:"category"`
	SubCategory string            `yaml:"subCategory"`
	Vegetarian  bool              `yaml:"vegetarian"`
	Available   *bool             `yaml:"available"`
	ImageURL    string            `yaml:"image"`
	Sizes       map[string]string `yaml:"sizes"`
}

func loadMenu(path string) ([]menuEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f menuFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, e := range f.Items {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("item %d: name is required", i)
		}
		if !enum.IsCategory(e.Category) {
			return nil, fmt.Errorf("%s: invalid category %q", e.Name, e.Category)
		}
		if e.SubCategory != "" && (e.Category != enum.CategoryMain || !enum.IsSubCategory(e.SubCategory)) {
			return nil, fmt.Errorf("%s: invalid subCategory %q", e.Name, e.SubCategory)
		}
	}
	return f.Items, nil
}

func (e menuEntry) params() (database.CreateMenuItemParams, error) {
	price, err := decimal.NewFromString(e.Price)
	if err != nil || price.IsNegative() {
		return database.CreateMenuItemParams{}, fmt.Errorf("%s: invalid price %q", e.Name, e.Price)
	}

	var sizes database.Sizes
	for size, p := range e.Sizes {
		sp, err := decimal.NewFromString(p)
		if err != nil || sp.IsNegative() {
			return database.CreateMenuItemParams{}, fmt.Errorf("%s: invalid %s price %q", e.Name, size, p)
		}
		opt := &database.SizeOption{Price: sp, Available: true}
		switch size {
		case enum.SizeSmall:
			sizes.Small = opt
		case enum.SizeLarge:
			sizes.Large = opt
		default:
			return database.CreateMenuItemParams{}, fmt.Errorf("%s: unknown size %q", e.Name, size)
		}
	}

	var sub *string
	if e.SubCategory != "" {
		s := e.SubCategory
		sub = &s
	}
	available := true
	if e.Available != nil {
		available = *e.Available
	}

	return database.CreateMenuItemParams{
		Name:        e.Name,
		Description: e.Description,
		Price:       price,
		Category:    e.Category,
		SubCategory: sub,
		Vegetarian:  e.Vegetarian,
		Available:   available,
		ImageURL:    e.ImageURL,
		Sizes:       sizes,
	}, nil
}

// seedMenu upserts entries by name. Related items and images already set
// on existing rows are preserved.
func seedMenu(ctx context.Context, q *database.Queries, entries []menuEntry) (created, updated int, err error) {
	if len(entries) == 0 {
		return 0, 0, nil
	}

	existing, err := q.ListMenuItems(ctx, database.ListMenuItemsParams{})
	if err != nil {
		return 0, 0, fmt.Errorf("list menu items: %w", err)
	}
	byName := make(map[string]database.MenuItem, len(existing))
	for _, m := range existing {
		byName[strings.ToLower(m.Name)] = m
	}

	for _, e := range entries {
		p, err := e.params()
		if err != nil {
			return created, updated, err
		}

		cur, ok := byName[strings.ToLower(e.Name)]
		if !ok {
			item, err := q.CreateMenuItem(ctx, p)
			if err != nil {
				return created, updated, fmt.Errorf("create %s: %w", e.Name, err)
			}
			byName[strings.ToLower(item.Name)] = item
			created++
			continue
		}

		image := p.ImageURL
		if image == "" {
			image = cur.ImageURL
		}
		if _, err := q.UpdateMenuItem(ctx, database.UpdateMenuItemParams{
			ID:           cur.ID,
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price,
			Category:     p.Category,
			SubCategory:  p.SubCategory,
			Vegetarian:   p.Vegetarian,
			Available:    p.Available,
			ImageURL:     image,
			Sizes:        p.Sizes,
			RelatedItems: cur.RelatedItems,
		}); err != nil {
			return created, updated, fmt.Errorf("update %s: %w", e.Name, err)
		}
		updated++
	}

	logrus.Infof("Menu seeded: %d created, %d updated", created, updated)
	return created, updated, nil
}
