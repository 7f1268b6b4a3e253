// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "github.com/olegiv/chakravya/internal/model"

var defaultSpiritualTasks = []model.SpiritualTask{
	{
		Title:         "Chant Hare Krishna Maha-mantra",
		Description:   optional("Chant the holy names of the Lord for spiritual purification"),
		Category:      model.CategoryChanting,
		DefaultTarget: 16,
		Unit:          "rounds",
	},
	{
		Title:         "Read Bhagavad Gita",
		Description:   optional("Study Krishna's teachings in the Bhagavad Gita"),
		Category:      model.CategoryReading,
		DefaultTarget: 1,
		Unit:          "chapters",
	},
	{
		Title:         "Morning Meditation",
		Description:   optional("Start your day with peaceful meditation and prayer"),
		Category:      model.CategoryMeditation,
		DefaultTarget: 20,
		Unit:          "minutes",
	},
	{
		Title:         "Visit Temple",
		Description:   optional("Participate in temple darshan and community worship"),
		Category:      model.CategoryService,
		DefaultTarget: 1,
		Unit:          "times",
	},
	{
		Title:         "Offer Food to Krishna",
		Description:   optional("Prepare and offer meals to the Supreme Lord"),
		Category:      model.CategoryService,
		DefaultTarget: 3,
		Unit:          "times",
	},
	{
		Title:         "Evening Prayers",
		Description:   optional("End your day with gratitude and spiritual reflection"),
		Category:      model.CategoryMeditation,
		DefaultTarget: 15,
		Unit:          "minutes",
	},
}

func price(s string) model.Money {
	return model.MustMoney(s)
}

func pricePtr(s string) *model.Money {
	d := price(s)
	return &d
}

func defaultProducts() []model.Product {
	return []model.Product{
		{
			Tier:          model.Tier1,
			Title:         "Divine Essentials",
			Description:   optional("Perfect for beginners starting their spiritual journey"),
			Price:         price("1299.00"),
			OriginalPrice: pricePtr("1699.00"),
			Features: []model.Feature{
				{Name: "Sacred Brass Diya", Included: true},
				{Name: "Tulsi Mala (108 beads)", Included: true},
				{Name: "Pocket Bhagavad Gita", Included: true},
				{Name: "Sandalwood Incense (10 sticks)", Included: true},
				{Name: "Kumkum & Chandan", Included: true},
				{Name: "Temple Prasadam", Included: false},
				{Name: "Course Access", Included: false},
			},
			Active: true,
		},
		{
			Tier:          model.Tier2,
			Title:         "Premium Blessings",
			Description:   optional("Enhanced collection for deeper devotional practice"),
			Price:         price("2499.00"),
			OriginalPrice: pricePtr("3299.00"),
			Features: []model.Feature{
				{Name: "Sacred Brass Diya", Included: true},
				{Name: "Tulsi Mala (108 beads)", Included: true},
				{Name: "Complete Bhagavad Gita", Included: true},
				{Name: "Sandalwood Incense (25 sticks)", Included: true},
				{Name: "Kumkum & Chandan", Included: true},
				{Name: "Rudraksha Beads", Included: true},
				{Name: "Temple Prasadam", Included: true},
				{Name: "Basic Course Access", Included: false},
			},
			Popular: true,
			Active:  true,
		},
		{
			Tier:          model.Tier3,
			Title:         "Exclusive Grace",
			Description:   optional("Complete devotional package for serious practitioners"),
			Price:         price("4999.00"),
			OriginalPrice: pricePtr("6999.00"),
			Features: []model.Feature{
				{Name: "Sacred Brass Diya Set", Included: true},
				{Name: "Premium Tulsi Mala", Included: true},
				{Name: "Illustrated Bhagavad Gita", Included: true},
				{Name: "Sandalwood Incense (50 sticks)", Included: true},
				{Name: "Premium Kumkum & Chandan", Included: true},
				{Name: "Rudraksha Mala", Included: true},
				{Name: "Temple Prasadam", Included: true},
				{Name: "Full Course Access", Included: true},
				{Name: "Monthly Spiritual Guidance", Included: true},
			},
			Active: true,
		},
	}
}
