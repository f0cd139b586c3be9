package services

import (
	"encoding/json"
	"fmt"
	"os"

	"fintrack/internal/models"
)

// DefaultCatalog is the built-in set of shared categories seeded at startup.
var DefaultCatalog = []models.CategoryDetails{
	{Name: "Salary", Description: "Monthly salary income", Icon: "work", Color: "#4CAF50"},
	{Name: "Food", Description: "Food and dining expenses", Icon: "restaurant", Color: "#FF9800"},
	{Name: "Transport", Description: "Transportation costs", Icon: "directions_car", Color: "#2196F3"},
	{Name: "Utilities", Description: "Utility bills", Icon: "flash_on", Color: "#9C27B0"},
	{Name: "Rent", Description: "Housing rent", Icon: "home", Color: "#F44336"},
	{Name: "Entertainment", Description: "Entertainment expenses", Icon: "movie", Color: "#E91E63"},
	{Name: "Healthcare", Description: "Medical expenses", Icon: "local_hospital", Color: "#009688"},
	{Name: "Shopping", Description: "Shopping expenses", Icon: "shopping_cart", Color: "#FF5722"},
}

type catalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// LoadCatalog returns DefaultCatalog when path is empty, otherwise the
// catalog read from the JSON array at path. Every entry must pass the same
// validation as a user-created category and names must be unique.
func LoadCatalog(path string) ([]models.CategoryDetails, error) {
	if path == "" {
		return DefaultCatalog, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read default categories file: %w", err)
	}

	var entries []catalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse default categories file: %w", err)
	}

	catalog := make([]models.CategoryDetails, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		d, err := normalizeCategoryDetails(models.CategoryDetails{
			Name:        e.Name,
			Description: e.Description,
			Icon:        e.Icon,
			Color:       e.Color,
		})
		if err != nil {
			return nil, fmt.Errorf("default category %d: %w", i, err)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("default category %d: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = true
		catalog = append(catalog, d)
	}
	return catalog, nil
}
