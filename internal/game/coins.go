package game

// CoinResult is the reward split shown in the coins modal. Final values may
// be negative.
type CoinResult struct {
	StudentsCoins    int `json:"students_coins"`
	ValeraCoins      int `json:"valera_coins"`
	OriginalStudents int `json:"original_students"`
	OriginalValera   int `json:"original_valera"`
}

// Coins splits the circles: every dark circle is a coin for the students,
// every lit one a coin for Valera.
func Coins(active, total int) (students, valera int) {
	students = total - active
	if students < 0 {
		students = 0
	}
	return students, active
}

// FinalCoins applies the fixed penalties and the bonus checkbox to Coins.
// A clean row costs Valera the penalty, a full row costs the students the
// penalty; the checkbox moves the students by +bonus when on, -bonus when
// off.
func FinalCoins(active, total int, bonus bool, rules CoinRules) CoinResult {
	students, valera := Coins(active, total)
	res := CoinResult{
		StudentsCoins:    students,
		ValeraCoins:      valera,
		OriginalStudents: students,
		OriginalValera:   valera,
	}
	switch active {
	case 0:
		res.ValeraCoins -= rules.Penalty
	case total:
		res.StudentsCoins -= rules.Penalty
	}
	if bonus {
		res.StudentsCoins += rules.Bonus
	} else {
		res.StudentsCoins -= rules.Bonus
	}
	return res
}
