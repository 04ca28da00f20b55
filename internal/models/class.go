package models

import "time"

// Class is a school class playing against Valera.
type Class struct {
	ID              int64     `bson:"_id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	StudentsBalance int       `bson:"studentsBalance" json:"students_balance"`
	ValeraBalance   int       `bson:"valeraBalance" json:"valera_balance"`
	CreatedAt       time.Time `bson:"createdAt" json:"created_at"`
}

// TotalBalance is the rating key of a class.
func (c *Class) TotalBalance() int {
	return c.StudentsBalance + c.ValeraBalance
}

// ClassRating is one row of the class leaderboard.
type ClassRating struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	StudentsBalance int    `json:"students_balance"`
	ValeraBalance   int    `json:"valera_balance"`
	TotalBalance    int    `json:"total_balance"`
}

// ClassRequest is the body of a class create call.
type ClassRequest struct {
	Name            string `json:"name" binding:"required"`
	StudentsBalance int    `json:"students_balance"`
	ValeraBalance   int    `json:"valera_balance"`
}

// ClassUpdateRequest edits a class. Absent fields are left alone.
type ClassUpdateRequest struct {
	Name            *string `json:"name"`
	StudentsBalance *int    `json:"students_balance"`
	ValeraBalance   *int    `json:"valera_balance"`
}

// SetBalanceRequest sets absolute balances. Absent fields are left alone.
type SetBalanceRequest struct {
	StudentsBalance *int `json:"students_balance"`
	ValeraBalance   *int `json:"valera_balance"`
}

// BalanceDeltaRequest applies signed changes to both balances at once.
type BalanceDeltaRequest struct {
	StudentsDelta int    `json:"students_delta"`
	ValeraDelta   int    `json:"valera_delta"`
	Reason        string `json:"reason"`
}
