// Package seed loads a small development dataset: five shoppers, a ten
// entry allergy catalog, a product list, and a mix of completed and
// in-cart orders.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/enums"
	"github.com/mgolesberg/api-example/pkg/logger"
)

// Run inserts the development fixtures. It is a no-op when any user rows
// already exist, so it is safe to call on every boot.
func Run(ctx context.Context, conn *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := conn.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("checking for existing users: %w", err)
	}
	if count > 0 {
		if logg != nil {
			logg.Info(ctx, "seed skipped, database already has users")
		}
		return nil
	}

	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := userFixtures()
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}

		allergies := allergyFixtures()
		if err := tx.Create(&allergies).Error; err != nil {
			return fmt.Errorf("seeding allergies: %w", err)
		}

		userAllergies := userAllergyFixtures()
		if err := tx.Create(&userAllergies).Error; err != nil {
			return fmt.Errorf("seeding user allergies: %w", err)
		}

		interests := interestFixtures()
		if err := tx.Create(&interests).Error; err != nil {
			return fmt.Errorf("seeding interests: %w", err)
		}

		dislikes := dislikeFixtures()
		if err := tx.Create(&dislikes).Error; err != nil {
			return fmt.Errorf("seeding dislikes: %w", err)
		}

		products := productFixtures()
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}

		orders := orderFixtures()
		if err := tx.Create(&orders).Error; err != nil {
			return fmt.Errorf("seeding orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if logg != nil {
		logg.Info(ctx, "seed data loaded")
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func productID(n byte) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("550e8400-e29b-41d4-a716-44665544000%d", n))
}

func userFixtures() []models.User {
	return []models.User{
		{
			FirstName: "John", LastName: "Smith",
			BirthDate:   time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC),
			Email:       "john.smith@email.com",
			PhoneNumber: strPtr("+1234567890"),
			Condition:   enums.UserConditionActive,
			Street1:     "123 Main Street", Street2: strPtr("Apt 4B"),
			City: "New York", StateProvince: "NY", Zip: "10001", Country: "USA",
		},
		{
			FirstName: "Sarah", LastName: "Johnson",
			BirthDate:   time.Date(1985, 8, 22, 0, 0, 0, 0, time.UTC),
			Email:       "sarah.johnson@email.com",
			PhoneNumber: strPtr("+1987654321"),
			Condition:   enums.UserConditionActive,
			Street1:     "456 Oak Avenue",
			City:        "Los Angeles", StateProvince: "CA", Zip: "90210", Country: "USA",
		},
		{
			FirstName: "Michael", LastName: "Williams",
			BirthDate:   time.Date(1992, 3, 10, 0, 0, 0, 0, time.UTC),
			Email:       "michael.williams@email.com",
			PhoneNumber: strPtr("+1555123456"),
			Condition:   enums.UserConditionActive,
			Street1:     "789 Pine Road", Street2: strPtr("Unit 12"),
			City: "Chicago", StateProvince: "IL", Zip: "60601", Country: "USA",
		},
		{
			FirstName: "Emily", LastName: "Brown",
			BirthDate:   time.Date(1988, 11, 30, 0, 0, 0, 0, time.UTC),
			Email:       "emily.brown@email.com",
			PhoneNumber: strPtr("+1444333222"),
			Condition:   enums.UserConditionDeactivated,
			Street1:     "321 Elm Street",
			City:        "Houston", StateProvince: "TX", Zip: "77001", Country: "USA",
		},
		{
			FirstName: "David", LastName: "Davis",
			BirthDate:   time.Date(1995, 7, 4, 0, 0, 0, 0, time.UTC),
			Email:       "david.davis@email.com",
			PhoneNumber: strPtr("+1666777888"),
			Condition:   enums.UserConditionActive,
			Street1:     "654 Maple Drive", Street2: strPtr("Suite 200"),
			City: "Phoenix", StateProvince: "AZ", Zip: "85001", Country: "USA",
		},
	}
}

func allergyFixtures() []models.Allergy {
	return []models.Allergy{
		{Name: "milk", Description: strPtr("Allergic reaction to milk and dairy products")},
		{Name: "eggs", Description: strPtr("Allergic reaction to eggs and egg products")},
		{Name: "fish", Description: strPtr("Allergic reaction to fish and fish products")},
		{Name: "shellfish", Description: strPtr("Allergic reaction to shellfish and crustaceans")},
		{Name: "tree nuts", Description: strPtr("Allergic reaction to tree nuts (almonds, walnuts, etc.)")},
		{Name: "peanuts", Description: strPtr("Allergic reaction to peanuts and peanut products")},
		{Name: "wheat", Description: strPtr("Allergic reaction to wheat and wheat products")},
		{Name: "soybeans", Description: strPtr("Allergic reaction to soybeans and soy products")},
		{Name: "sesame", Description: strPtr("Allergic reaction to sesame seeds and sesame products")},
		{Name: "nightshade", Description: strPtr("Allergic reaction to nightshade vegetables (tomatoes, potatoes, peppers, eggplant)")},
	}
}

func userAllergyFixtures() []models.UserAllergy {
	return []models.UserAllergy{
		{UserID: 1, AllergyName: "milk", Notes: strPtr("Lactose intolerance and mild dairy allergy")},
		{UserID: 2, AllergyName: "eggs", Notes: strPtr("Allergic reaction to eggs - must avoid completely")},
		{UserID: 3, AllergyName: "shellfish", Notes: strPtr("Minor skin reaction to shellfish")},
		{UserID: 4, AllergyName: "wheat", Notes: strPtr("Celiac disease - must avoid all wheat products")},
		{UserID: 5, AllergyName: "peanuts", Notes: strPtr("Anaphylactic reaction - must avoid completely")},
		{UserID: 1, AllergyName: "soybeans", Notes: strPtr("Minor soy allergy")},
		{UserID: 3, AllergyName: "tree nuts", Notes: strPtr("Severe reaction to tree nuts")},
	}
}

func interestFixtures() []models.Interest {
	return []models.Interest{
		{UserID: 1, InterestName: "Technology", Category: strPtr("Hobbies"), Description: strPtr("Passionate about latest tech gadgets and innovations")},
		{UserID: 1, InterestName: "Running", Category: strPtr("Sports"), Description: strPtr("Marathon training and fitness enthusiast")},
		{UserID: 2, InterestName: "Cooking", Category: strPtr("Lifestyle"), Description: strPtr("Enjoys experimenting with new recipes")},
		{UserID: 2, InterestName: "Travel", Category: strPtr("Lifestyle"), Description: strPtr("Loves exploring new destinations")},
		{UserID: 3, InterestName: "Music", Category: strPtr("Entertainment"), Description: strPtr("Plays guitar and enjoys various genres")},
		{UserID: 4, InterestName: "Reading", Category: strPtr("Entertainment"), Description: strPtr("Avid reader of science fiction and fantasy")},
		{UserID: 5, InterestName: "Photography", Category: strPtr("Arts"), Description: strPtr("Landscape and street photography enthusiast")},
	}
}

func dislikeFixtures() []models.Dislike {
	return []models.Dislike{
		{UserID: 1, DislikeName: "Spicy Food", Category: strPtr("Food"), Severity: strPtr("Severe"), Description: strPtr("Cannot tolerate hot spices")},
		{UserID: 2, DislikeName: "Cold Weather", Category: strPtr("Weather"), Severity: strPtr("Moderate"), Description: strPtr("Prefers warm climates")},
		{UserID: 3, DislikeName: "Crowded Places", Category: strPtr("Environment"), Severity: strPtr("Mild"), Description: strPtr("Avoids large crowds and busy areas")},
		{UserID: 4, DislikeName: "Early Mornings", Category: strPtr("Lifestyle"), Severity: strPtr("Moderate"), Description: strPtr("Not a morning person")},
		{UserID: 5, DislikeName: "Public Speaking", Category: strPtr("Social"), Severity: strPtr("Severe"), Description: strPtr("Gets nervous in front of large groups")},
	}
}

func productFixtures() []models.Product {
	return []models.Product{
		{
			ID: productID(1), Name: "Wireless Bluetooth Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       money("129.99"), Quantity: 50,
			ImageURL: strPtr("images/hightech_ears.webp"),
			Category: "Electronics", SubCategory: "Audio", Brand: "TechSound",
			IsActive: true,
		},
		{
			ID: productID(2), Name: "Smartphone Case",
			Description: "Durable protective case for iPhone 15",
			Price:       money("24.99"), Quantity: 100,
			ImageURL: strPtr("images/iphone_case.jpg"),
			Category: "Accessories", SubCategory: "Phone Cases", Brand: "ProtectPro",
			IsActive: true,
		},
		{
			ID: productID(3), Name: "Coffee Maker",
			Description: "Programmable coffee maker with thermal carafe",
			Price:       money("89.99"), Quantity: 25,
			ImageURL: strPtr("images/coffee_maker.jpg"),
			Category: "Home & Kitchen", SubCategory: "Appliances", Brand: "BrewMaster",
			IsActive: true,
		},
		{
			ID: productID(4), Name: "Running Shoes",
			Description: "Lightweight running shoes for daily training",
			Price:       money("79.99"), Quantity: 75,
			ImageURL: strPtr("images/running_shoes.jpg"),
			Category: "Sports", SubCategory: "Footwear", Brand: "RunFast",
			IsActive: true,
		},
		{
			ID: productID(5), Name: "Laptop Stand",
			Description: "Adjustable aluminum laptop stand for ergonomic setup",
			Price:       money("39.99"), Quantity: 60,
			ImageURL: strPtr("images/laptop_stand.jpeg"),
			Category: "Electronics", SubCategory: "Computer Accessories", Brand: "ErgoTech",
			IsActive: true,
		},
		{
			ID: productID(6), Name: "Discontinued Product",
			Description: "This product is no longer available",
			Price:       money("19.99"), Quantity: 0,
			Category: "Test", SubCategory: "Discontinued", Brand: "TestBrand",
			IsActive: false,
		},
	}
}

func orderFixtures() []models.Order {
	completed := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	return []models.Order{
		{
			UserID: 1, Status: enums.OrderStatusCompleted,
			TotalAmount: money("284.97"), CompletedAt: &completed,
			Purchases: []models.Purchase{
				{UserID: 1, ProductID: productID(1), Quantity: 2, UnitPrice: money("129.99"), TotalAmount: money("259.98")},
				{UserID: 1, ProductID: productID(2), Quantity: 1, UnitPrice: money("24.99"), TotalAmount: money("24.99")},
			},
		},
		{
			UserID: 2, Status: enums.OrderStatusCompleted,
			TotalAmount: money("24.99"), CompletedAt: &completed,
			Purchases: []models.Purchase{
				{UserID: 2, ProductID: productID(2), Quantity: 1, UnitPrice: money("24.99"), TotalAmount: money("24.99")},
			},
		},
		{
			UserID: 3, Status: enums.OrderStatusCart,
			TotalAmount: money("89.99"),
			Purchases: []models.Purchase{
				{UserID: 3, ProductID: productID(3), Quantity: 1, UnitPrice: money("89.99"), TotalAmount: money("89.99")},
			},
		},
		{
			UserID: 4, Status: enums.OrderStatusCompleted,
			TotalAmount: money("169.98"), CompletedAt: &completed,
			Purchases: []models.Purchase{
				{UserID: 4, ProductID: productID(1), Quantity: 1, UnitPrice: money("129.99"), TotalAmount: money("129.99")},
				{UserID: 4, ProductID: productID(5), Quantity: 1, UnitPrice: money("39.99"), TotalAmount: money("39.99")},
			},
		},
		{
			UserID: 5, Status: enums.OrderStatusCart,
			TotalAmount: money("39.99"),
			Purchases: []models.Purchase{
				{UserID: 5, ProductID: productID(5), Quantity: 1, UnitPrice: money("39.99"), TotalAmount: money("39.99")},
			},
		},
	}
}
