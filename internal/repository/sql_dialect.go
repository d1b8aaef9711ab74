package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		// sqlite 的 LIKE 对 ASCII 不区分大小写
		return "LIKE"
	}
}

// containsCondition 构建不区分大小写的包含匹配条件。
func containsCondition(db *gorm.DB, column string) string {
	return containsConditionByDialect(dbDialectName(db), column)
}

func containsConditionByDialect(dialect, column string) string {
	return fmt.Sprintf(`%s %s ? ESCAPE '\'`, strings.TrimSpace(column), likeOperatorByDialect(dialect))
}

// containsPattern 将原始文本转为 %text% 模式，转义通配符。
func containsPattern(raw string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(raw)) + "%"
}
