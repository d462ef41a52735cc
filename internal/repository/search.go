package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Search semantics: the search map is one OR group of case-sensitive
// substring matches (email, nickname, role-as-text). A bio term is a
// full-text match applied as an extra AND clause on top of the OR group,
// not folded into it. The filter map is one AND group of exact matches.
// Unrecognized keys are ignored; a value of the wrong type yields zero
// rows rather than an error.

func applySearchQuery(tx *gorm.DB, search map[string]any) *gorm.DB {
	var or *gorm.DB

	if v, ok := search["email"]; ok {
		or = orLike(tx, or, "email", v)
	}
	if v, ok := search["nickname"]; ok {
		or = orLike(tx, or, "nickname", v)
	}
	if v, ok := search["role"]; ok {
		or = orLike(tx, or, "CAST(role AS TEXT)", v)
	}
	if or != nil {
		tx = tx.Where(or)
	}

	if v, ok := search["bio"]; ok {
		tx = whereBioMatches(tx, v)
	}
	return tx
}

func applyFilterQuery(tx *gorm.DB, filter map[string]any) *gorm.DB {
	if v, ok := filter["is_professional"]; ok {
		tx = whereBoolEquals(tx, "is_professional", v)
	}
	if v, ok := filter["is_locked"]; ok {
		tx = whereBoolEquals(tx, "is_locked", v)
	}
	if v, ok := filter["email_verified"]; ok {
		tx = whereBoolEquals(tx, "email_verified", v)
	}

	from, hasFrom := filter["created_at_from"]
	to, hasTo := filter["created_at_to"]
	if hasFrom && hasTo {
		fromTS, okFrom := asTime(from)
		toTS, okTo := asTime(to)
		if okFrom && okTo {
			tx = tx.Where("created_at BETWEEN ? AND ?", fromTS, toTS)
		} else {
			tx = neverMatch(tx)
		}
	}
	return tx
}

func orLike(base, or *gorm.DB, column string, v any) *gorm.DB {
	pattern := "%" + fmt.Sprint(v) + "%"
	cond := column + " LIKE ?"
	if or == nil {
		return base.Session(&gorm.Session{NewDB: true}).Where(cond, pattern)
	}
	return or.Or(cond, pattern)
}

// whereBioMatches uses postgres full-text search; on other dialects it
// degrades to a substring match so the same query shape stays testable
// against sqlite.
func whereBioMatches(tx *gorm.DB, v any) *gorm.DB {
	term := fmt.Sprint(v)
	if tx.Dialector.Name() == "postgres" {
		return tx.Where("to_tsvector('english', bio) @@ plainto_tsquery('english', ?)", term)
	}
	return tx.Where("bio LIKE ?", "%"+term+"%")
}

func whereBoolEquals(tx *gorm.DB, column string, v any) *gorm.DB {
	b, ok := v.(bool)
	if !ok {
		return neverMatch(tx)
	}
	return tx.Where(column+" = ?", b)
}

// neverMatch encodes the "wrong-typed filter value" contract: zero rows,
// never an error.
func neverMatch(tx *gorm.DB) *gorm.DB {
	return tx.Where("1 = 0")
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
		if ts, err := time.Parse("2006-01-02", t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
