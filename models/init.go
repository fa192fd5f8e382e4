package models

import "gorm.io/gorm"

// CreateDefaultPlans seeds the membership plans if they do not exist
func CreateDefaultPlans(db *gorm.DB) error {
	plans := []MembershipPlan{
		{
			Name:        "free",
			Tier:        TierFree,
			Description: "Browse leads with masked buyer contact details",
			Price:       0,
			Currency:    "usd",
		},
		{
			Name:        "basic",
			Tier:        TierBasic,
			Description: "Full buyer contact details on active leads",
			Price:       2900,
			Currency:    "usd",
		},
		{
			Name:        "premium",
			Tier:        TierPremium,
			Description: "Full buyer contact details plus priority placement",
			Price:       9900,
			Currency:    "usd",
			IsPopular:   true,
		},
	}

	for _, plan := range plans {
		if err := db.Where("name = ?", plan.Name).FirstOrCreate(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateDefaultCategories seeds a starter category set
func CreateDefaultCategories(db *gorm.DB) error {
	names := []string{
		"Electronics",
		"Industrial Machinery",
		"Textiles & Apparel",
		"Packaging & Printing",
		"Construction Materials",
	}

	for _, name := range names {
		category := Category{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
