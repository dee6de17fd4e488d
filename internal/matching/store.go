package matching

import "github.com/foxxcyber/receipt-rewards/internal/models"

// StoreResolver weighs name 0.6, normalized name 0.3 and keywords 0.1.
func StoreResolver() *Resolver[models.Store] {
	return &Resolver[models.Store]{
		Normalize: NormalizeStoreName,
		Fields: []Field[models.Store]{
			{Name: "name", Weight: 0.6, Values: func(s models.Store) []string { return []string{s.Name} }},
			{Name: "normalized_name", Weight: 0.3, Values: func(s models.Store) []string { return []string{s.NormalizedName} }},
			{Name: "keywords", Weight: 0.1, Values: func(s models.Store) []string { return s.Keywords }, Coverage: true},
		},
		Key: func(s models.Store) string { return s.NormalizedName },
	}
}

// ProductResolver weighs name 0.5, normalized name 0.4 and keywords 0.1.
func ProductResolver() *Resolver[models.Product] {
	return &Resolver[models.Product]{
		Normalize: NormalizeProductName,
		Fields: []Field[models.Product]{
			{Name: "name", Weight: 0.5, Values: func(p models.Product) []string { return []string{p.Name} }},
			{Name: "normalized_name", Weight: 0.4, Values: func(p models.Product) []string { return []string{p.NormalizedName} }},
			{Name: "keywords", Weight: 0.1, Values: func(p models.Product) []string { return p.Keywords }, Coverage: true},
		},
		Key: func(p models.Product) string { return p.NormalizedName },
	}
}
