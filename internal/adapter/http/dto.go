package http

import (
	"encoding/json"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/shopspring/decimal"
)

// money renders a decimal as a JSON number with two fraction digits.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type productDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	CategoryID  *string     `json:"category_id"`
	ImageURL    string      `json:"image_url"`
	IsAvailable bool        `json:"is_available"`
	IsFeatured  bool        `json:"is_featured"`
	SortOrder   int         `json:"sort_order"`
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		IsAvailable: p.IsAvailable,
		IsFeatured:  p.IsFeatured,
		SortOrder:   p.SortOrder,
	}
}

type categoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func toCategoryDTO(c domain.Category) categoryDTO {
	return categoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
	}
}

type lineDTO struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	UnitPrice   json.Number `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	Subtotal    json.Number `json:"subtotal"`
}

func toLineDTOs(lines []domain.OrderLine) []lineDTO {
	out := make([]lineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineDTO{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   money(l.UnitPrice),
			Quantity:    l.Quantity,
			Subtotal:    money(l.Subtotal),
		})
	}
	return out
}

type orderDTO struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	Note         string      `json:"note"`
	Total        json.Number `json:"total"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []lineDTO   `json:"items"`
}

func toOrderDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Note:         o.Note,
		Total:        money(o.Total),
		CreatedAt:    o.CreatedAt,
		Items:        toLineDTOs(o.Lines),
	}
}

type profileDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PhotoURL        string `json:"photo_url"`
	Title           string `json:"title"`
	Story           string `json:"story"`
	Specialty       string `json:"specialty"`
	ExperienceYears int    `json:"experience_years"`
	Quote           string `json:"quote"`
	Instagram       string `json:"instagram"`
	WhatsApp        string `json:"whatsapp"`
	Email           string `json:"email"`
	City            string `json:"city"`
	AcceptsOrders   bool   `json:"accepts_orders"`
	DeliveryAreas   string `json:"delivery_areas"`
}

func toProfileDTO(p domain.SiteProfile) profileDTO {
	return profileDTO{
		ID:              p.ID,
		Name:            p.Name,
		PhotoURL:        p.PhotoURL,
		Title:           p.Title,
		Story:           p.Story,
		Specialty:       p.Specialty,
		ExperienceYears: p.ExperienceYears,
		Quote:           p.Quote,
		Instagram:       p.Instagram,
		WhatsApp:        p.WhatsApp,
		Email:           p.Email,
		City:            p.City,
		AcceptsOrders:   p.AcceptsOrders,
		DeliveryAreas:   p.DeliveryAreas,
	}
}

type adminDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminDTO(a domain.Admin) adminDTO {
	return adminDTO{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Phone:     a.Phone,
		AvatarURL: a.AvatarURL,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
}
