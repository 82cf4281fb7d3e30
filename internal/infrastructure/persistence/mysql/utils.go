package mysql

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
)

// isDuplicateError 判断是否为唯一索引冲突(MySQL错误码1062)
func isDuplicateError(err error) bool {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
