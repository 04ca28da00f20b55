package models

import "time"

// BalanceTransaction records one change applied to a class balance.
type BalanceTransaction struct {
	ID            int64     `bson:"_id" json:"id"`
	ClassID       int64     `bson:"classId" json:"class_id"`
	StudentsDelta int       `bson:"studentsDelta" json:"students_delta"`
	ValeraDelta   int       `bson:"valeraDelta" json:"valera_delta"`
	Reason        string    `bson:"reason" json:"reason"`
	StudentsAfter int       `bson:"studentsAfter" json:"students_after"`
	ValeraAfter   int       `bson:"valeraAfter" json:"valera_after"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}

// Ledger reasons.
const (
	ReasonManual = "manual"
	ReasonSet    = "set"
	ReasonGame   = "game"
)
