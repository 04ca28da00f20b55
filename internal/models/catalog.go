package models

import "time"

// Prize types match the two lotteries of the game page.
const (
	PrizeTypeValera   = "valera"
	PrizeTypeStudents = "students"
)

// Prize is a stored lottery prize.
type Prize struct {
	ID             int64     `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name" binding:"required"`
	PrizeType      string    `bson:"prizeType" json:"prize_type" binding:"required"`
	StudentsChange int       `bson:"studentsChange" json:"students_change"`
	ValeraChange   int       `bson:"valeraChange" json:"valera_change"`
	Probability    string    `bson:"probability" json:"probability"`
	CoinsMin       *int      `bson:"coinsMin,omitempty" json:"coins_min,omitempty"`
	CoinsMax       *int      `bson:"coinsMax,omitempty" json:"coins_max,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"created_at"`
}

// ValidPrizeType reports whether t names one of the lotteries.
func ValidPrizeType(t string) bool {
	return t == PrizeTypeValera || t == PrizeTypeStudents
}

// PrizeUpdateRequest edits a prize. Absent fields are left alone.
type PrizeUpdateRequest struct {
	Name           *string `json:"name"`
	PrizeType      *string `json:"prize_type"`
	StudentsChange *int    `json:"students_change"`
	ValeraChange   *int    `json:"valera_change"`
	Probability    *string `json:"probability"`
	CoinsMin       *int    `json:"coins_min"`
	CoinsMax       *int    `json:"coins_max"`
}

// Apply copies the present fields onto p.
func (r *PrizeUpdateRequest) Apply(p *Prize) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.PrizeType != nil {
		p.PrizeType = *r.PrizeType
	}
	if r.StudentsChange != nil {
		p.StudentsChange = *r.StudentsChange
	}
	if r.ValeraChange != nil {
		p.ValeraChange = *r.ValeraChange
	}
	if r.Probability != nil {
		p.Probability = *r.Probability
	}
	if r.CoinsMin != nil {
		p.CoinsMin = r.CoinsMin
	}
	if r.CoinsMax != nil {
		p.CoinsMax = r.CoinsMax
	}
}

// ShopItem is an entry of the price list.
type ShopItem struct {
	ID        int64     `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Price     int       `bson:"price" json:"price"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// ShopItemUpdateRequest edits a price list entry. Absent fields are left
// alone.
type ShopItemUpdateRequest struct {
	Name  *string `json:"name"`
	Price *int    `json:"price"`
}

// Apply copies the present fields onto item.
func (r *ShopItemUpdateRequest) Apply(item *ShopItem) {
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
}
