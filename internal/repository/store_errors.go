package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrStoreUnavailable 连接异常、超时、锁等待等可重试错误
	ErrStoreUnavailable = errors.New("存储暂不可用")
	// ErrPartialWrite 删除旧数据后写入失败，事务已回滚
	ErrPartialWrite = errors.New("榜单写入失败")
)

// MySQL 服务端可重试错误码
var retryableMySQLErrors = map[uint16]struct{}{
	1040: {}, // ER_CON_COUNT_ERROR
	1053: {}, // ER_SERVER_SHUTDOWN
	1205: {}, // ER_LOCK_WAIT_TIMEOUT
	1213: {}, // ER_LOCK_DEADLOCK
	1317: {}, // ER_QUERY_INTERRUPTED
}

// classifyStoreError 可重试的错误包装为 ErrStoreUnavailable，其余原样返回
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func IsTransient(err error) bool {
	if errors.Is(err, ErrStoreUnavailable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		_, ok := retryableMySQLErrors[mysqlErr.Number]
		return ok
	}
	return false
}
