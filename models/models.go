package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer account
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	IsBlocked   bool      `json:"is_blocked"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Admin represents a back-office administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// Category represents a product category
type Category struct {
	gorm.Model
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
	Blocked     bool      `json:"blocked" gorm:"default:false"`
}

// Product represents a preorderable item. Price is stored in the smallest
// currency unit (paise) and is the only price the lifecycle ever trusts.
type Product struct {
	gorm.Model
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           int64            `json:"price"`
	CategoryID      uint             `json:"category_id"`
	Category        Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	ImageURL        string           `json:"image_url"`
	IsActive        bool             `json:"is_active" gorm:"default:true"`
	PreorderEnabled bool             `json:"preorder_enabled" gorm:"default:false"`
	DepositPercent  int              `json:"deposit_percent" gorm:"default:20"`
	PreorderStart   *time.Time       `json:"preorder_start,omitempty"`
	PreorderEnd     *time.Time       `json:"preorder_end,omitempty"`
	HasVariants     bool             `json:"has_variants" gorm:"default:false"`
	Variants        []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductVariant is a discrete weight/ripeness combination of a product.
// PriceDelta adjusts the product base price for this combination.
type ProductVariant struct {
	gorm.Model
	ProductID  uint   `json:"product_id"`
	Label      string `json:"label"`
	Weight     string `json:"weight"`
	Ripeness   string `json:"ripeness"`
	PriceDelta int64  `json:"price_delta"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
}

// UnitPrice returns the effective unit price for this variant.
func (v *ProductVariant) UnitPrice(base int64) int64 {
	return base + v.PriceDelta
}

// PreorderWindowOpen reports whether new preorders are currently accepted
// for the product. A missing bound leaves that side of the window open.
func (p *Product) PreorderWindowOpen(now time.Time) bool {
	if !p.PreorderEnabled {
		return false
	}
	if p.PreorderStart != nil && now.Before(*p.PreorderStart) {
		return false
	}
	if p.PreorderEnd != nil && now.After(*p.PreorderEnd) {
		return false
	}
	return true
}
