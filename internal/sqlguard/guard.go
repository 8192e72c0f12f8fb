// Package sqlguard validates caller-supplied SQL into bounded, read-only
// statements before execution. The validation is pattern matching, not a
// parser: it blocks the common injection and multi-statement shapes but
// is not a guarantee across every SQL dialect. The QueryGate interface
// exists so it can later be swapped for a real read-only planner without
// touching callers.
package sqlguard

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Result is the outcome of one query: rows as column→value maps, with
// Columns preserving the column order the store returned.
type Result struct {
	Count   int                      `json:"count"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// QueryGate 只读查询闸门
type QueryGate interface {
	Validate(raw string, limit int) (string, error)
	Execute(ctx context.Context, safeSQL string, params map[string]interface{}) (*Result, error)
}

// Gate is the pattern-matching QueryGate implementation backed by GORM.
type Gate struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// 只允许以 SELECT 开头（可带 WITH CTE 前缀）
var selectRe = regexp.MustCompile(`(?is)^(with\s+.+\s+)?select\s`)

// 拒绝多语句、注释和写操作关键字
var forbiddenPatterns = []struct {
	re   *regexp.Regexp
	rule string
}{
	{regexp.MustCompile(`;`), "statement separator ';'"},
	{regexp.MustCompile(`--`), "comment '--'"},
	{regexp.MustCompile(`/\*`), "comment '/*'"},
	{regexp.MustCompile(`\*/`), "comment '*/'"},
	{regexp.MustCompile(`(?i)\b(insert|update|delete|create|alter|drop|replace|truncate|attach|detach|vacuum|pragma|begin|commit|rollback)\b`),
		"write/DDL keyword"},
}

var limitRe = regexp.MustCompile(`(?i)\blimit\b`)

// Validate checks that raw is a single read-only SELECT and appends a
// bounding LIMIT clause when none is present. limit defaults to 100 and
// is clamped to [1, 1000]. The returned error names the violated rule.
func (g *Gate) Validate(raw string, limit int) (string, error) {
	s := strings.TrimSpace(raw)
	// 允许一个结尾分号
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return "", fmt.Errorf("empty statement")
	}

	if !selectRe.MatchString(s) {
		return "", fmt.Errorf("only read-only SELECT queries allowed")
	}

	for _, p := range forbiddenPatterns {
		if p.re.MatchString(s) {
			return "", fmt.Errorf("forbidden token: %s", p.rule)
		}
	}

	if !limitRe.MatchString(s) {
		s = fmt.Sprintf("%s LIMIT %d", s, clampLimit(limit))
	}
	return s, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Execute runs a validated statement with named parameter binding.
// 参数永远走绑定，不做字符串拼接。
func (g *Gate) Execute(ctx context.Context, safeSQL string, params map[string]interface{}) (*Result, error) {
	tx := g.db.WithContext(ctx)
	var rows *gorm.DB
	if len(params) > 0 {
		rows = tx.Raw(safeSQL, params)
	} else {
		rows = tx.Raw(safeSQL)
	}

	sqlRows, err := rows.Rows()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer sqlRows.Close()

	cols, err := sqlRows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	result := &Result{Columns: cols, Rows: []map[string]interface{}{}}
	for sqlRows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := sqlRows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	result.Count = len(result.Rows)
	return result, nil
}
