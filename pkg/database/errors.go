package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres 错误码
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
	// PgInvalidTextRepresentation 例如把 "X" 当作 uuid 传入
	PgInvalidTextRepresentation = "22P02"
)

// PgCode 取出错误链上的 Postgres 错误码，非 Postgres 错误返回空串
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsMalformedID 参数格式不合法，对应的行不可能存在
func IsMalformedID(err error) bool {
	return PgCode(err) == PgInvalidTextRepresentation
}
