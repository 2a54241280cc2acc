package domain

import "time"

type GarmentStatus string

const (
	GarmentStatusAvailable   GarmentStatus = "AVAILABLE"
	GarmentStatusReserved    GarmentStatus = "RESERVED"
	GarmentStatusMaintenance GarmentStatus = "MAINTENANCE"
	GarmentStatusLaundry     GarmentStatus = "LAUNDRY"
	GarmentStatusOut         GarmentStatus = "OUT"
)

// ValidGarmentStatus reports whether s is one of the known inventory statuses.
func ValidGarmentStatus(s GarmentStatus) bool {
	switch s {
	case GarmentStatusAvailable, GarmentStatusReserved, GarmentStatusMaintenance,
		GarmentStatusLaundry, GarmentStatusOut:
		return true
	}
	return false
}

// Well-known categories. The field is free-form so shops can add their own.
const (
	CategoryParty     = "Party"
	CategoryBridal    = "Bridal"
	CategorySuit      = "Suit"
	CategoryAccessory = "Accessory"
)

type Garment struct {
	ID                int32             `json:"id"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Size              string            `json:"size"`
	Measurements      map[string]string `json:"measurements,omitempty"`
	RentalPriceCents  int32             `json:"rental_price_cents"`
	DepositPriceCents int32             `json:"deposit_price_cents"`
	ImageURL          string            `json:"image_url,omitempty"`
	RentCount         int32             `json:"rent_count"`
	Status            GarmentStatus     `json:"status"`
	History           []GarmentHistory  `json:"history,omitempty"`
	Images            []GarmentImage    `json:"images,omitempty"`
	CreatedOn         time.Time         `json:"created_on"`
	UpdatedOn         time.Time         `json:"updated_on"`
}

// GarmentHistory is one entry of a garment's append-only status log.
// Entries are added, never edited or removed.
type GarmentHistory struct {
	ID        int32         `json:"id"`
	GarmentID int32         `json:"garment_id"`
	Status    GarmentStatus `json:"status"`
	Note      string        `json:"note"`
	CreatedOn time.Time     `json:"created_on"`
}

type GarmentImage struct {
	ID        int32     `json:"id"`
	GarmentID int32     `json:"garment_id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	PublicURL string    `json:"public_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedOn time.Time `json:"created_on"`
}
